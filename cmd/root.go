// Package cmd wires flags, config, the selection wizard, and the poll loop.
package cmd

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/avelansh/oledtop/config"
	"github.com/avelansh/oledtop/display"
	"github.com/avelansh/oledtop/engine"
	"github.com/avelansh/oledtop/gamesense"
	"github.com/avelansh/oledtop/model"
	"github.com/avelansh/oledtop/ui"
)

// Version is set at build time via ldflags.
var Version = "0.3.0"

func printUsage() {
	fmt.Fprintf(os.Stderr, `oledtop v%s — HWiNFO shared-memory monitor for SteelSeries OLED screens

Usage:
  oledtop [OPTIONS] [INTERVAL]

Requires HWiNFO64 running with "Shared Memory Support" enabled (Settings →
General/User Interface; restart HWiNFO after enabling).

Options:
  -interval N       Poll interval in seconds (default: 3)
  -config PATH      Config file (default: ~/.config/oledtop/config.json)
  -setup            Re-run the sensor selection wizard
  -console          Console-only mode, skip the GameSense display
  -prom ADDR        Serve Prometheus metrics on ADDR
  -version          Print version and exit

Positional:
  INTERVAL          First positional arg sets interval: oledtop 5 = oledtop -interval 5

Examples:
  oledtop                     Full run: wizard on first start, then OLED updates
  oledtop 5                   Poll every 5 seconds
  oledtop -setup              Reconfigure sensors, keeping other settings
  oledtop -console            Print frames to the terminal only
  oledtop -prom :9287         Expose oledtop_* gauges for scraping
`, Version)
}

// Run is the entry point called from main.
func Run() error {
	var (
		intervalSec int
		configPath  string
		setup       bool
		consoleOnly bool
		promAddr    string
		showVersion bool
	)
	flag.IntVar(&intervalSec, "interval", 0, "Poll interval in seconds")
	flag.StringVar(&configPath, "config", "", "Config file path")
	flag.BoolVar(&setup, "setup", false, "Re-run the sensor selection wizard")
	flag.BoolVar(&consoleOnly, "console", false, "Console-only mode")
	flag.StringVar(&promAddr, "prom", "", "Prometheus listen address")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		fmt.Printf("oledtop v%s\n", Version)
		return nil
	}

	// Support positional arg for interval: `oledtop 5` = `oledtop -interval 5`
	if args := flag.Args(); len(args) > 0 {
		if n, err := strconv.Atoi(args[0]); err == nil && n > 0 {
			intervalSec = n
		}
	}

	cfg := config.Load(configPath)
	if intervalSec > 0 {
		cfg.IntervalSec = intervalSec
	}
	if promAddr != "" {
		cfg.Prometheus.Enabled = true
		cfg.Prometheus.Addr = promAddr
	}

	log := newLogger()
	defer func() { _ = log.Sync() }()

	eng := engine.New(engine.Config{
		Selection: cfg.Sensors,
		Smoothing: engine.SmoothingConfig{
			WindowSize:    cfg.Smoothing.WindowSize,
			DropThreshold: cfg.Smoothing.DropThreshold,
		},
	}, log)
	defer eng.Close()

	version, sensors, err := eng.Probe()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Could not connect to HWiNFO shared memory.")
		fmt.Fprintln(os.Stderr, "Make sure HWiNFO64 is running and 'Shared Memory Support' is enabled,")
		fmt.Fprintln(os.Stderr, "then restart HWiNFO64.")
		return err
	}
	fmt.Printf("Connected to HWiNFO %s — %d sensors\n", version, sensors)

	if setup || !cfg.Selected() {
		dir, err := eng.Directory()
		if err != nil {
			return fmt.Errorf("sensor enumeration: %w", err)
		}
		sel, err := ui.Run(dir, cfg.Sensors)
		if err != nil {
			return err
		}
		cfg.Sensors = sel
		eng.SetSelection(sel)
		if err := config.Save(cfg, configPath); err != nil {
			log.Warn("could not save config", zap.Error(err))
		} else {
			fmt.Println("Configuration saved. Re-run with -setup to change it.")
		}
	}

	var client *gamesense.Client
	if !consoleOnly {
		addr := cfg.GameSense.Addr
		if addr == "" {
			addr, err = gamesense.Discover()
			if err != nil {
				log.Warn("gamesense discovery failed, console-only mode", zap.Error(err))
			}
		}
		if addr != "" {
			c := gamesense.NewClient(addr)
			if err := c.BindScreen(); err != nil {
				log.Warn("gamesense registration failed, console-only mode", zap.Error(err))
			} else {
				client = c
				fmt.Printf("OLED display connected at %s\n", addr)
			}
		}
	}

	if cfg.Prometheus.Enabled {
		exporter := engine.NewExporter()
		go func() {
			if err := http.ListenAndServe(cfg.Prometheus.Addr, exporter.Handler()); err != nil {
				log.Warn("prometheus listener stopped", zap.Error(err))
			}
		}()
		log.Info("prometheus metrics enabled", zap.String("addr", cfg.Prometheus.Addr))
		return runLoop(eng, client, exporter, cfg, log)
	}
	return runLoop(eng, client, nil, cfg, log)
}

// runLoop drives the poll cycle until interrupted. One cycle = tick, build
// frame, push to the display (or console), update exporters. Display send
// failures degrade to console-only after a failed re-registration; they
// never stop the loop.
func runLoop(eng *engine.Engine, client *gamesense.Client, exporter *engine.Exporter, cfg config.Config, log *zap.Logger) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.IntervalSec) * time.Second)
	defer ticker.Stop()

	fmt.Printf("Polling every %ds, %d display modes. Ctrl+C to stop.\n\n", cfg.IntervalSec, display.NumModes)

	var last model.Frame
	count := 0
	for {
		select {
		case <-sig:
			fmt.Println("\nStopped.")
			if client != nil {
				if err := client.Remove(); err != nil {
					log.Debug("gamesense deregistration failed", zap.Error(err))
				}
			}
			return nil

		case <-ticker.C:
			count++
			sample := eng.Tick()
			frame := display.Build(sample, count, time.Now())
			if exporter != nil {
				exporter.Observe(sample)
			}

			sent := true
			if client != nil {
				if err := client.SendFrame(frame, count); err != nil {
					sent = false
					log.Debug("frame send failed", zap.Error(err))
				}
			}

			status := "UPD"
			if frame != last {
				status = "NEW"
			}
			last = frame
			target := "[CONSOLE]"
			if client != nil {
				target = "[OLED]"
			}
			modeName := display.ModeNames[count%display.NumModes]
			if sent {
				fmt.Printf("Update %3d: %s [%11s] %s %s\n", count, status, modeName, target, frame.Line1)
				fmt.Printf("%26s %s\n", "", frame.Line2)
			} else {
				fmt.Printf("Update %3d: FAIL [%11s] | %s\n", count, modeName, frame.Line1)
				if count%10 == 0 {
					if err := client.BindScreen(); err != nil {
						log.Warn("re-registration failed, console-only mode", zap.Error(err))
						client = nil
					}
				}
			}

			if client != nil && count%10 == 0 {
				if err := client.Heartbeat(); err != nil {
					log.Debug("heartbeat failed", zap.Error(err))
				}
			}
		}
	}
}

// newLogger builds a console logger on stderr so operational messages stay
// clear of the frame output on stdout.
func newLogger() *zap.Logger {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	logger, err := zcfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
