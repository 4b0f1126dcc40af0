// Package engine runs the poll cycle: map-or-reuse the shared memory region,
// decode one snapshot, resolve the selected sensors, and smooth the
// jitter-prone metrics into display-stable values.
package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avelansh/oledtop/hwinfo"
	"github.com/avelansh/oledtop/model"
	"github.com/avelansh/oledtop/shm"
)

// Opener produces a mapped region. Injectable so tests can poll a static
// snapshot instead of a live mapping.
type Opener func() (*shm.Region, error)

// Config configures an Engine.
type Config struct {
	// MappingName is the shared memory mapping to open. Defaults to
	// hwinfo.SharedMemoryName.
	MappingName string
	// Selection maps metric names to sensor IDs; 0 means unselected.
	Selection map[string]uint32
	Smoothing SmoothingConfig
}

// Engine owns the region handle and the per-metric smoothing streams. Not
// safe for concurrent use: the caller drives Tick at its poll cadence and
// never overlaps cycles.
type Engine struct {
	open      Opener
	region    *shm.Region
	selection map[string]uint32
	streams   *StreamSet
	log       *zap.Logger
}

// New creates an engine reading the live shared memory mapping.
func New(cfg Config, log *zap.Logger) *Engine {
	name := cfg.MappingName
	if name == "" {
		name = hwinfo.SharedMemoryName
	}
	return NewWithSource(cfg, log, func() (*shm.Region, error) {
		return shm.Open(name)
	})
}

// NewWithSource creates an engine with a custom region source.
func NewWithSource(cfg Config, log *zap.Logger, open Opener) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	sel := make(map[string]uint32, len(cfg.Selection))
	for k, v := range cfg.Selection {
		sel[k] = v
	}
	return &Engine{
		open:      open,
		selection: sel,
		streams:   NewStreamSet(cfg.Smoothing),
		log:       log,
	}
}

// SetSelection replaces the metric-to-sensor mapping, typically after the
// selection wizard has run. Smoothing histories are kept; a metric remapped
// to a very different sensor will re-baseline through the regime-change rule.
func (e *Engine) SetSelection(sel map[string]uint32) {
	e.selection = make(map[string]uint32, len(sel))
	for k, v := range sel {
		e.selection[k] = v
	}
}

// Probe connects and decodes once, returning the protocol version and the
// number of active sensors. Used at startup for the connection banner and by
// the wizard preflight.
func (e *Engine) Probe() (version string, sensors int, err error) {
	dir, hdr, err := e.snapshot()
	if err != nil {
		e.dropRegion()
		return "", 0, err
	}
	return hdr.VersionString(), dir.Len(), nil
}

// Directory decodes the current poll's entries into a fresh directory. The
// wizard uses this to enumerate candidates; the directory must not be kept
// across polls.
func (e *Engine) Directory() (*hwinfo.Directory, error) {
	dir, _, err := e.snapshot()
	if err != nil {
		e.dropRegion()
		return nil, err
	}
	return dir, nil
}

// Tick performs one poll cycle and returns the smoothed sample, or nil when
// the cycle produced no data (mapping unavailable, bad magic, or truncated
// tables). Structural failures drop the region so the next cycle reopens;
// they are never retried within a cycle and never panic.
func (e *Engine) Tick() *model.Sample {
	dir, _, err := e.snapshot()
	if err != nil {
		e.log.Warn("poll produced no data", zap.Error(err))
		e.dropRegion()
		return nil
	}

	read := func(metric string) (model.Sensor, int) {
		id := e.selection[metric]
		if id == 0 {
			return model.Sensor{}, 0
		}
		s, ok := dir.ByID(id)
		if !ok {
			return model.Sensor{}, 0
		}
		return s, int(s.Value)
	}

	sample := &model.Sample{Timestamp: time.Now()}

	_, sample.CPUTemp = read(model.MetricCPUTemp)
	_, sample.GPUTemp = read(model.MetricGPUTemp)
	_, sample.RAMTemp = read(model.MetricRAMTemp)
	_, sample.MBTemp = read(model.MetricMBTemp)
	_, sample.NVMeTemp = read(model.MetricNVMeTemp)
	_, sample.GPUMemory = read(model.MetricGPUMemory)

	// Load percentages jitter; temperatures and memory pass through raw.
	_, cpuRaw := read(model.MetricCPULoad)
	sample.CPULoad = e.streams.Update(model.MetricCPULoad, cpuRaw, true)
	_, gpuRaw := read(model.MetricGPULoad)
	sample.GPULoad = e.streams.Update(model.MetricGPULoad, gpuRaw, true)

	ramSensor, ramRaw := read(model.MetricRAMUsage)
	sample.RAMUsage = ramRaw
	if strings.Contains(ramSensor.Unit, "%") {
		sample.RAMLoad = ramRaw
	}

	return sample
}

// Close releases the mapped region. Safe to call repeatedly.
func (e *Engine) Close() {
	e.dropRegion()
}

// snapshot maps the region if needed and decodes header plus entry table.
func (e *Engine) snapshot() (*hwinfo.Directory, hwinfo.Header, error) {
	if e.region == nil {
		r, err := e.open()
		if err != nil {
			return nil, hwinfo.Header{}, err
		}
		e.region = r
	}
	hdr, err := hwinfo.DecodeHeader(e.region)
	if err != nil {
		return nil, hwinfo.Header{}, err
	}
	entries, err := hwinfo.DecodeEntries(e.region, hdr)
	if err != nil {
		return nil, hwinfo.Header{}, err
	}
	return hwinfo.NewDirectory(entries), hdr, nil
}

func (e *Engine) dropRegion() {
	if e.region != nil {
		_ = e.region.Close()
		e.region = nil
	}
}
