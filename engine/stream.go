package engine

// SmoothingConfig holds the tunables of the weighted-average smoother. The
// defaults match long-observed display behavior; both can be overridden from
// the config file or environment.
type SmoothingConfig struct {
	// WindowSize is the per-metric history capacity.
	WindowSize int
	// DropThreshold is how far below the history mean a new reading must
	// fall to count as a regime change rather than jitter.
	DropThreshold int
}

// DefaultSmoothing returns the stock smoothing parameters.
func DefaultSmoothing() SmoothingConfig {
	return SmoothingConfig{WindowSize: 5, DropThreshold: 3}
}

// warmupSamples is the minimum history length before averaging kicks in;
// below it readings pass through unchanged.
const warmupSamples = 3

// StreamState describes how much history a stream has accumulated.
type StreamState int

const (
	StateEmpty StreamState = iota
	StateWarming
	StateSmoothing
)

func (s StreamState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateWarming:
		return "warming"
	default:
		return "smoothing"
	}
}

// MetricStream converts noisy instantaneous readings of one metric into a
// display-stable value. It keeps a bounded history of non-zero readings and
// emits a weighted moving average once warmed up. A stream persists for the
// process lifetime; a regime change clears its history, never the stream.
type MetricStream struct {
	name        string
	cfg         SmoothingConfig
	resetOnDrop bool
	hist        []int
	last        int
}

// NewMetricStream creates a stream. resetOnDrop enables the regime-change
// rule, meant for jitter-prone metrics such as load percentages.
func NewMetricStream(name string, cfg SmoothingConfig, resetOnDrop bool) *MetricStream {
	if cfg.WindowSize <= 0 {
		cfg = DefaultSmoothing()
	}
	return &MetricStream{
		name:        name,
		cfg:         cfg,
		resetOnDrop: resetOnDrop,
		hist:        make([]int, 0, cfg.WindowSize),
	}
}

// Update feeds one raw reading and returns the value to display.
//
// A reading of exactly 0 means "no data this poll": it never enters history,
// never triggers a reset, and 0 is emitted. Otherwise the reading is appended
// (after an optional regime-change reset), and the emitted value is the raw
// reading while warming up or the floor of a weighted moving average with
// ascending weights once at least warmupSamples are retained.
func (m *MetricStream) Update(raw int) int {
	if raw == 0 {
		m.last = 0
		return 0
	}

	if m.resetOnDrop && len(m.hist) > 0 {
		mean := 0
		for _, v := range m.hist {
			mean += v
		}
		mean /= len(m.hist)
		if raw < mean-m.cfg.DropThreshold {
			// Sharp drop: treat the reading as a new baseline instead of
			// smoothing through stale history.
			m.hist = m.hist[:0]
		}
	}

	if len(m.hist) == m.cfg.WindowSize {
		m.hist = append(m.hist[:0], m.hist[1:]...)
	}
	m.hist = append(m.hist, raw)

	if len(m.hist) < warmupSamples {
		m.last = raw
		return raw
	}

	sum, weights := 0, 0
	for i, v := range m.hist {
		w := i + 1 // oldest weight 1, newest highest
		sum += v * w
		weights += w
	}
	m.last = sum / weights
	return m.last
}

// State reports Empty, Warming, or Smoothing based on retained history.
func (m *MetricStream) State() StreamState {
	switch {
	case len(m.hist) == 0:
		return StateEmpty
	case len(m.hist) < warmupSamples:
		return StateWarming
	default:
		return StateSmoothing
	}
}

// Last returns the most recently emitted value.
func (m *MetricStream) Last() int { return m.last }

// StreamSet is an explicit registry of metric streams keyed by metric name.
// Streams are created on the first non-zero reading and kept for the process
// lifetime, so smoothing state never hides in package-level variables.
type StreamSet struct {
	cfg     SmoothingConfig
	streams map[string]*MetricStream
}

// NewStreamSet creates an empty registry sharing one smoothing config.
func NewStreamSet(cfg SmoothingConfig) *StreamSet {
	return &StreamSet{cfg: cfg, streams: make(map[string]*MetricStream)}
}

// Update routes a raw reading to the named stream, creating it on the first
// non-zero reading. A zero reading on a missing stream creates nothing.
func (s *StreamSet) Update(name string, raw int, resetOnDrop bool) int {
	st, ok := s.streams[name]
	if !ok {
		if raw == 0 {
			return 0
		}
		st = NewMetricStream(name, s.cfg, resetOnDrop)
		s.streams[name] = st
	}
	return st.Update(raw)
}

// Stream returns the named stream if it exists.
func (s *StreamSet) Stream(name string) (*MetricStream, bool) {
	st, ok := s.streams[name]
	return st, ok
}
