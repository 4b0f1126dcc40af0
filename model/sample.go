package model

import "time"

// Metric names used as stream and selection keys.
const (
	MetricCPUTemp   = "cpu_temp"
	MetricCPULoad   = "cpu_load"
	MetricGPUTemp   = "gpu_temp"
	MetricGPULoad   = "gpu_load"
	MetricGPUMemory = "gpu_memory"
	MetricRAMTemp   = "ram_temp"
	MetricRAMUsage  = "ram_usage"
	MetricMBTemp    = "mb_temp"
	MetricNVMeTemp  = "nvme_temp"
)

// MetricNames lists every selectable metric slot in wizard order.
var MetricNames = []string{
	MetricCPUTemp, MetricCPULoad,
	MetricGPUTemp, MetricGPULoad, MetricGPUMemory,
	MetricRAMTemp, MetricRAMUsage,
	MetricMBTemp, MetricNVMeTemp,
}

// Sample holds one poll cycle's metric values after smoothing. Readings are
// truncated to integers for the two-line display; 0 means the sensor was
// unselected or reported no data this cycle.
type Sample struct {
	Timestamp time.Time

	CPUTemp   int
	CPULoad   int
	GPUTemp   int
	GPULoad   int
	GPUMemory int
	RAMTemp   int
	RAMUsage  int // raw sensor units (MB/GB or %)
	RAMLoad   int // percent, derived from ram_usage when its unit is %
	MBTemp    int
	NVMeTemp  int
}

// Frame is one display update: two short text lines for the OLED plus a
// monotonically increasing counter the transport requires per cycle.
type Frame struct {
	Line1 string
	Line2 string
}
