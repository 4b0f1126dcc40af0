// Package display turns a sample into the two short lines an OLED can show,
// cycling through a handful of layouts so every metric gets screen time.
package display

import (
	"fmt"
	"time"

	"github.com/avelansh/oledtop/model"
)

// NumModes is the number of cycling layouts.
const NumModes = 6

// Mode names for the console status line.
var ModeNames = []string{"SysOverview", "CPU Detail", "GPU Detail", "Memory", "Temps", "Time/Info"}

// Build renders the frame for one poll cycle. count selects the layout
// (count % NumModes); a nil sample renders the no-data frame.
func Build(s *model.Sample, count int, now time.Time) model.Frame {
	if s == nil {
		return model.Frame{
			Line1: fmt.Sprintf("oledtop #%d", count),
			Line2: "No Data - " + now.Format("15:04:05"),
		}
	}

	switch count % NumModes {
	case 0:
		return model.Frame{
			Line1: fmt.Sprintf("CPU: %d%%", s.CPULoad),
			Line2: fmt.Sprintf("GPU: %d%%", s.GPULoad),
		}

	case 1:
		return model.Frame{
			Line1: fmt.Sprintf("CPU: %d°C", s.CPUTemp),
			Line2: fmt.Sprintf("Load: %d%%", s.CPULoad),
		}

	case 2:
		if s.GPUTemp > 0 || s.GPULoad > 0 {
			return model.Frame{
				Line1: fmt.Sprintf("GPU: %d°C", s.GPUTemp),
				Line2: fmt.Sprintf("Load: %d%%", s.GPULoad),
			}
		}
		return model.Frame{Line1: "GPU: No Data", Line2: "Check sensor config"}

	case 3:
		line1 := fmt.Sprintf("RAM: %d%%", s.RAMLoad)
		switch {
		case s.RAMTemp > 0:
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("Temp: %d°C", s.RAMTemp)}
		case s.GPUMemory > 0:
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("GPU Mem: %d%%", s.GPUMemory)}
		case s.RAMUsage > 0:
			if s.RAMUsage >= 1024 {
				return model.Frame{Line1: line1, Line2: fmt.Sprintf("Used: %.1f GB", float64(s.RAMUsage)/1024)}
			}
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("Used: %d MB", s.RAMUsage)}
		default:
			return model.Frame{Line1: line1, Line2: "Memory Load"}
		}

	case 4:
		var temps []string
		if s.CPUTemp > 0 {
			temps = append(temps, fmt.Sprintf("CPU:%d°", s.CPUTemp))
		}
		if s.GPUTemp > 0 {
			temps = append(temps, fmt.Sprintf("GPU:%d°", s.GPUTemp))
		}
		switch len(temps) {
		case 2:
			return model.Frame{Line1: temps[0], Line2: temps[1]}
		case 1:
			return model.Frame{Line1: temps[0], Line2: fmt.Sprintf("RAM: %d%%", s.RAMLoad)}
		default:
			return model.Frame{Line1: "No Temp Data", Line2: fmt.Sprintf("RAM: %d%%", s.RAMLoad)}
		}

	default:
		line1 := now.Format("Mon 15:04:05")
		switch {
		case s.NVMeTemp > 0:
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("SSD: %d°C", s.NVMeTemp)}
		case s.MBTemp > 0:
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("MB: %d°C", s.MBTemp)}
		default:
			return model.Frame{Line1: line1, Line2: fmt.Sprintf("RAM: %d%%", s.RAMLoad)}
		}
	}
}
