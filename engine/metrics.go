package engine

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelansh/oledtop/model"
)

// Exporter publishes the latest sample as Prometheus gauges. Disabled by
// default; the poll loop calls Observe once per cycle when enabled.
type Exporter struct {
	reg    *prometheus.Registry
	up     prometheus.Gauge
	gauges map[string]prometheus.Gauge
}

// NewExporter creates an exporter with its own registry.
func NewExporter() *Exporter {
	reg := prometheus.NewRegistry()

	up := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "oledtop_up",
		Help: "1 when the last poll decoded the shared memory segment.",
	})
	reg.MustRegister(up)

	gauges := make(map[string]prometheus.Gauge, len(model.MetricNames)+1)
	help := map[string]string{
		model.MetricCPUTemp:   "CPU temperature, degrees C.",
		model.MetricCPULoad:   "Smoothed CPU load, percent.",
		model.MetricGPUTemp:   "GPU temperature, degrees C.",
		model.MetricGPULoad:   "Smoothed GPU load, percent.",
		model.MetricGPUMemory: "GPU memory usage, percent.",
		model.MetricRAMTemp:   "RAM temperature, degrees C.",
		model.MetricRAMUsage:  "RAM usage in the selected sensor's unit.",
		model.MetricMBTemp:    "Motherboard temperature, degrees C.",
		model.MetricNVMeTemp:  "Storage temperature, degrees C.",
		"ram_load":            "RAM load, percent.",
	}
	for name, h := range help {
		g := prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "oledtop_" + name,
			Help: h,
		})
		reg.MustRegister(g)
		gauges[name] = g
	}

	return &Exporter{reg: reg, up: up, gauges: gauges}
}

// Observe records one poll cycle. A nil sample marks the exporter down and
// leaves the metric gauges at their previous values.
func (x *Exporter) Observe(s *model.Sample) {
	if s == nil {
		x.up.Set(0)
		return
	}
	x.up.Set(1)
	x.gauges[model.MetricCPUTemp].Set(float64(s.CPUTemp))
	x.gauges[model.MetricCPULoad].Set(float64(s.CPULoad))
	x.gauges[model.MetricGPUTemp].Set(float64(s.GPUTemp))
	x.gauges[model.MetricGPULoad].Set(float64(s.GPULoad))
	x.gauges[model.MetricGPUMemory].Set(float64(s.GPUMemory))
	x.gauges[model.MetricRAMTemp].Set(float64(s.RAMTemp))
	x.gauges[model.MetricRAMUsage].Set(float64(s.RAMUsage))
	x.gauges[model.MetricMBTemp].Set(float64(s.MBTemp))
	x.gauges[model.MetricNVMeTemp].Set(float64(s.NVMeTemp))
	x.gauges["ram_load"].Set(float64(s.RAMLoad))
}

// Handler serves the exporter's registry in Prometheus text format.
func (x *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(x.reg, promhttp.HandlerOpts{})
}
