// Package ui holds the interactive sensor-selection wizard. It walks the
// metric slots one at a time, listing candidate sensors from the current
// poll's directory; the user picks by number (ranges and lists accepted,
// the first selection wins the slot) or skips with an empty entry.
package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avelansh/oledtop/hwinfo"
	"github.com/avelansh/oledtop/model"
	"github.com/avelansh/oledtop/util"
)

// maxCandidates caps how many matches a step lists.
const maxCandidates = 10

// step describes one metric slot: how to find candidates and how to label
// the screen. The keyword and filter sets follow what works in practice
// across vendor-specific sensor naming.
type step struct {
	metric   string
	title    string
	keywords []string
	filter   func(model.Sensor) bool
}

func tempUnit(s model.Sensor) bool {
	return strings.Contains(s.Unit, "C") || strings.Contains(s.Unit, "°") ||
		strings.Contains(strings.ToLower(s.Label()), "temp")
}

func labelExcludes(s model.Sensor, words ...string) bool {
	label := strings.ToLower(s.Label())
	for _, w := range words {
		if strings.Contains(label, w) {
			return false
		}
	}
	return true
}

func steps() []step {
	return []step{
		{
			metric:   model.MetricCPUTemp,
			title:    "CPU Temperature",
			keywords: []string{"cpu", "package", "tctl", "tdie", "processor"},
			filter:   tempUnit,
		},
		{
			metric:   model.MetricCPULoad,
			title:    "CPU Load/Usage",
			keywords: []string{"cpu", "total", "usage", "utilization", "load", "core"},
			filter: func(s model.Sensor) bool {
				return strings.Contains(s.Unit, "%") &&
					labelExcludes(s, "memory", "c6", "c-state", "page file", "file usage")
			},
		},
		{
			metric:   model.MetricGPUTemp,
			title:    "GPU Temperature",
			keywords: []string{"gpu", "graphics", "video", "vga"},
		},
		{
			metric:   model.MetricGPULoad,
			title:    "GPU Load/Usage",
			keywords: []string{"gpu utilization", "gpu d3d usage", "gpu core load", "gpu load", "gpu activity"},
			filter: func(s model.Sensor) bool {
				return labelExcludes(s, "memory")
			},
		},
		{
			metric:   model.MetricGPUMemory,
			title:    "GPU Memory Usage (Optional)",
			keywords: []string{"gpu memory", "vram", "dedicated"},
			filter: func(s model.Sensor) bool {
				return strings.Contains(s.Unit, "%") && labelExcludes(s, "thermal", "limit")
			},
		},
		{
			metric:   model.MetricRAMTemp,
			title:    "RAM Temperature (Optional)",
			keywords: []string{"dimm", "dram", "memory temperature"},
			filter: func(s model.Sensor) bool {
				return (strings.Contains(s.Unit, "C") || strings.Contains(s.Unit, "°")) &&
					labelExcludes(s, "gpu", "graphics", "video")
			},
		},
		{
			metric:   model.MetricRAMUsage,
			title:    "RAM Usage (Optional)",
			keywords: []string{"physical memory", "virtual memory", "memory committed", "memory available"},
			filter: func(s model.Sensor) bool {
				return (strings.Contains(s.Unit, "MB") || strings.Contains(s.Unit, "GB") || strings.Contains(s.Unit, "%")) &&
					labelExcludes(s, "gpu", "graphics", "video")
			},
		},
		{
			metric:   model.MetricMBTemp,
			title:    "Motherboard Temperature (Optional)",
			keywords: []string{"motherboard", "mainboard", "chipset", "vrm"},
			filter:   tempUnit,
		},
		{
			metric:   model.MetricNVMeTemp,
			title:    "Storage Temperature (Optional)",
			keywords: []string{"nvme", "ssd", "drive", "disk"},
			filter:   tempUnit,
		},
	}
}

// Wizard is the bubbletea model for the selection flow.
type Wizard struct {
	dir        *hwinfo.Directory
	steps      []step
	idx        int
	candidates []model.Sensor
	input      string
	selection  map[string]uint32
	picked     map[string]string // metric -> chosen label, for the summary
	done       bool
	aborted    bool
}

// NewWizard builds a wizard over the given directory, seeded with the
// current selection so re-running keeps earlier choices for skipped slots.
func NewWizard(dir *hwinfo.Directory, current map[string]uint32) Wizard {
	sel := make(map[string]uint32, len(current))
	for k, v := range current {
		sel[k] = v
	}
	w := Wizard{
		dir:       dir,
		steps:     steps(),
		selection: sel,
		picked:    make(map[string]string),
	}
	w.candidates = w.candidatesFor(0)
	return w
}

func (w Wizard) candidatesFor(i int) []model.Sensor {
	st := w.steps[i]
	matches := w.dir.Match(st.keywords, st.filter)
	if st.metric == model.MetricCPULoad {
		sortCPULoad(matches)
	}
	if len(matches) > maxCandidates {
		matches = matches[:maxCandidates]
	}
	return matches
}

// sortCPULoad puts "total" sensors first and per-core sensors last so the
// obvious pick is at the top of a long list.
func sortCPULoad(sensors []model.Sensor) {
	rank := func(s model.Sensor) int {
		label := strings.ToLower(s.Label())
		switch {
		case strings.Contains(label, "total"):
			return 0
		case strings.Contains(label, "core"):
			return 2
		default:
			return 1
		}
	}
	for i := 1; i < len(sensors); i++ {
		for j := i; j > 0; j-- {
			a, b := sensors[j-1], sensors[j]
			if rank(a) > rank(b) || (rank(a) == rank(b) && a.Label() > b.Label()) {
				sensors[j-1], sensors[j] = b, a
			} else {
				break
			}
		}
	}
}

func (w Wizard) Init() tea.Cmd { return nil }

func (w Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return w, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		w.aborted = true
		return w, tea.Quit

	case "enter":
		if picks := util.ParseSelection(w.input, len(w.candidates)); len(picks) > 0 {
			chosen := w.candidates[picks[0]]
			w.selection[w.steps[w.idx].metric] = chosen.ID
			w.picked[w.steps[w.idx].metric] = chosen.Label()
		}
		w.idx++
		w.input = ""
		if w.idx >= len(w.steps) {
			w.done = true
			return w, tea.Quit
		}
		w.candidates = w.candidatesFor(w.idx)
		return w, nil

	case "backspace":
		if w.input != "" {
			w.input = w.input[:len(w.input)-1]
		}
		return w, nil
	}

	if s := key.String(); len(s) == 1 && strings.ContainsAny(s, "0123456789,- ") {
		w.input += s
	}
	return w, nil
}

func (w Wizard) View() string {
	if w.done || w.aborted {
		return ""
	}
	st := w.steps[w.idx]

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sensor Selection — step %d/%d", w.idx+1, len(w.steps))))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render(st.title))
	b.WriteString("\n")

	if len(w.candidates) == 0 {
		b.WriteString(dimStyle.Render("  no matching sensors found"))
		b.WriteString("\n")
	}
	for i, s := range w.candidates {
		line := fmt.Sprintf("%s %s: %s %s",
			indexStyle.Render(fmt.Sprintf("[%d]", i+1)),
			labelStyle.Render(s.Label()),
			valueStyle.Render(util.FormatValue(s.Value)),
			dimStyle.Render(s.Unit),
		)
		b.WriteString("  " + line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Select: ") + w.input + "█\n")
	b.WriteString(helpStyle.Render("number, list (1,3,5) or range (1-4) · enter confirms · empty skips · esc quits"))

	return panelStyle.Render(b.String())
}

// Selection returns the metric-to-sensor mapping accumulated so far.
func (w Wizard) Selection() map[string]uint32 { return w.selection }

// Aborted reports whether the user quit before finishing.
func (w Wizard) Aborted() bool { return w.aborted }

// Run drives the wizard to completion and returns the chosen mapping.
func Run(dir *hwinfo.Directory, current map[string]uint32) (map[string]uint32, error) {
	p := tea.NewProgram(NewWizard(dir, current))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}
	w, ok := final.(Wizard)
	if !ok || w.Aborted() {
		return nil, fmt.Errorf("sensor selection cancelled")
	}
	return w.Selection(), nil
}
