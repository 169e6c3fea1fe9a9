// Command tabledash is a live terminal dashboard for a table-storage cluster.
// It polls the cluster's status endpoint once per interval and renders the
// loading progress or the connected peers and tables, plus a status bar.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tabledash/config"
	"tabledash/poller"
	"tabledash/status"
	"tabledash/statusbar"
	"tabledash/ui"
	"tabledash/webmirror"

	"golang.org/x/term"
)

const (
	defaultConfigPath = "data/config"
	envConfigPath     = "TABLEDASH_CONFIG_PATH"

	// statsFileInterval spaces out the poll summary written to the log file.
	statsFileInterval = time.Minute
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// Purpose: Report whether stdout is a TTY for UI gating.
// Key aspects: Uses term.IsTerminal on stdout fd.
// Upstream: main UI selection.
// Downstream: term.IsTerminal.
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// Purpose: Load configuration from env/default locations.
// Key aspects: Tries env override first, then the default config dir, then
// falls back to built-in defaults when neither exists.
// Upstream: main startup.
// Downstream: config.Load and config.Default.
func loadDashboardConfig() (*config.Config, string, error) {
	candidates := make([]string, 0, 2)
	if envPath := strings.TrimSpace(os.Getenv(envConfigPath)); envPath != "" {
		candidates = append(candidates, envPath)
	}
	candidates = append(candidates, defaultConfigPath)

	for _, path := range candidates {
		cfg, err := config.Load(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, path, err
		}
		return cfg, cfg.LoadedFrom, nil
	}
	return config.Default(), "built-in defaults", nil
}

// Purpose: Pick the terminal surface for the configured mode.
// Key aspects: Terminal modes need a TTY; anything else degrades to headless.
// Upstream: main startup.
// Downstream: ui.NewDashboard, ui.NewANSIConsole, ui.NewHeadless.
func newTerminalSurface(cfg config.UIConfig, tty bool, logs io.Writer) (ui.Surface, string) {
	switch cfg.Mode {
	case config.UIModeTView:
		if tty {
			return ui.NewDashboard(cfg), config.UIModeTView
		}
		log.Printf("UI: tview requires an interactive console; running headless")
	case config.UIModeANSI:
		if tty {
			return ui.NewANSIConsole(cfg, os.Stdout), config.UIModeANSI
		}
		log.Printf("UI: ansi renderer requires an interactive console; running headless")
	}
	return ui.NewHeadless(logs), config.UIModeHeadless
}

// Purpose: Render poll metrics for the footer.
// Key aspects: Includes the source URL so the operator knows what is polled.
// Upstream: poller OnStats callback.
// Downstream: poller.Stats.String.
func footerLine(source string, stats poller.Stats) string {
	return source + "  " + stats.String()
}

func main() {
	cfg, configSource, err := loadDashboardConfig()
	if err != nil {
		log.Fatalf("Error loading config from %s: %v", configSource, err)
	}

	logs, err := setupLogging(cfg.Logging, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging: file logging disabled: %v\n", err)
	}
	defer logs.Close()
	log.SetFlags(0)
	log.SetOutput(logs)

	surface, mode := newTerminalSurface(cfg.UI, isStdoutTTY(), os.Stderr)
	var mirror *webmirror.Server
	if cfg.Mirror.Enabled {
		mirror = webmirror.New(cfg.Mirror.Listen)
		if err := mirror.Start(); err != nil {
			log.Printf("Mirror: disabled, cannot listen on %s: %v", cfg.Mirror.Listen, err)
			mirror = nil
		}
	}
	if mirror != nil {
		surface = ui.NewFanout(surface, mirror)
	}
	surface.WaitReady()
	defer surface.Stop()

	if mode == config.UIModeHeadless {
		cfg.Print()
	} else {
		// The UI panes carry their own layout; keep timestamps off the pane.
		logs.SetConsoleSink(surface.SystemWriter(), false)
	}

	log.Printf("tabledash %s starting (ui=%s, config=%s)", Version, mode, configSource)
	log.Printf("Poller: watching %s every %s", cfg.Source.URL, cfg.Source.PollInterval())

	fetcher := status.NewHTTPFetcher(cfg.Source.URL, &http.Client{})
	tracker := statusbar.New(surface)
	var lastFileStats time.Time
	p := poller.New(fetcher, surface, tracker, poller.Options{
		Interval:       cfg.Source.PollInterval(),
		RequestTimeout: cfg.Source.RequestTimeout(),
		OnStats: func(stats poller.Stats) {
			surface.SetFooter(footerLine(cfg.Source.URL, stats))
			now := time.Now().UTC()
			if now.Sub(lastFileStats) >= statsFileInterval {
				lastFileStats = now
				logs.WriteFileOnlyLine("Poller: "+stats.String(), now)
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("Received signal: %v", sig)
	case <-surface.Done():
		log.Printf("UI: quit requested")
	}

	cancel()
	<-done
	log.Printf("Shutting down (%s)", p.Stats())
}
