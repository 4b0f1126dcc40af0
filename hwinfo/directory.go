package hwinfo

import (
	"strings"

	"github.com/avelansh/oledtop/model"
)

// Directory indexes one poll's decoded entries. It is rebuilt every poll
// because the external writer may add or remove sensors between cycles;
// nothing here survives past the next decode.
type Directory struct {
	entries []model.Sensor
	byID    map[uint32]int
}

// NewDirectory builds a directory over entries in decode order. When an ID
// appears more than once the first occurrence wins, matching table order.
func NewDirectory(entries []model.Sensor) *Directory {
	byID := make(map[uint32]int, len(entries))
	for i, e := range entries {
		if _, ok := byID[e.ID]; !ok {
			byID[e.ID] = i
		}
	}
	return &Directory{entries: entries, byID: byID}
}

// Len returns the number of active entries this poll.
func (d *Directory) Len() int { return len(d.entries) }

// ByID returns the entry with the given numeric ID.
func (d *Directory) ByID(id uint32) (model.Sensor, bool) {
	i, ok := d.byID[id]
	if !ok {
		return model.Sensor{}, false
	}
	return d.entries[i], true
}

// Find returns entries matching pred, preserving decode order.
func (d *Directory) Find(pred func(model.Sensor) bool) []model.Sensor {
	var out []model.Sensor
	for _, e := range d.entries {
		if pred(e) {
			out = append(out, e)
		}
	}
	return out
}

// Match returns entries whose label contains any of the keywords
// (case-insensitive), deduplicated by ID. An optional extra filter narrows
// the result further; pass nil to accept all matches.
func (d *Directory) Match(keywords []string, extra func(model.Sensor) bool) []model.Sensor {
	seen := make(map[uint32]bool)
	var out []model.Sensor
	for _, e := range d.entries {
		if seen[e.ID] {
			continue
		}
		label := strings.ToLower(e.Label())
		hit := false
		for _, kw := range keywords {
			if strings.Contains(label, strings.ToLower(kw)) {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		if extra != nil && !extra(e) {
			continue
		}
		out = append(out, e)
		seen[e.ID] = true
	}
	return out
}
