// Command statusdump fetches the cluster status once and prints the status bar
// and the report as plain or ANSI-coloured text. Useful for scripts and for
// checking a backend without starting the dashboard.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"tabledash/config"
	"tabledash/markup"
	"tabledash/poller"
	"tabledash/status"
	"tabledash/statusbar"
	"tabledash/strutil"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/term"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// dump collects one rendering of both outputs.
type dump struct {
	slots   map[statusbar.Slot]string
	content string
}

func (d *dump) WriteSlot(slot statusbar.Slot, text string) { d.slots[slot] = text }
func (d *dump) SetContent(text string)                     { d.content = text }

func (d *dump) render(w io.Writer, color bool) {
	for _, slot := range statusbar.Slots() {
		text, ok := d.slots[slot]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%-18s %s\n", slot.Label()+":", markup.ANSI(text, color))
	}
	if d.content == "" {
		return
	}
	fmt.Fprintln(w)
	for _, line := range strings.Split(d.content, "\n") {
		fmt.Fprintln(w, markup.ANSI(line, color))
	}
}

// snapshotFetcher remembers the decoded snapshot for -json output.
type snapshotFetcher struct {
	inner *status.HTTPFetcher
	last  status.Snapshot
}

func (f *snapshotFetcher) Fetch(ctx context.Context) (status.Snapshot, error) {
	snap, err := f.inner.Fetch(ctx)
	f.last = snap
	return snap, err
}

func main() {
	var (
		configPath = flag.String("config", "", "Optional config file or directory supplying source.url")
		url        = flag.String("url", "", "Status endpoint URL (overrides config)")
		timeout    = flag.Duration("timeout", 10*time.Second, "Request timeout")
		colorMode  = flag.String("color", "auto", "Colour output: auto, always or never")
		asJSON     = flag.Bool("json", false, "Print the decoded snapshot as JSON instead of the report")
	)
	flag.Parse()
	log.SetFlags(0)

	target := config.DefaultStatusURL
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
		target = cfg.Source.URL
	}
	if *url != "" {
		target = *url
	}

	fetcher := &snapshotFetcher{inner: status.NewHTTPFetcher(target, &http.Client{})}
	out := &dump{slots: make(map[statusbar.Slot]string)}
	p := poller.New(fetcher, out, statusbar.New(out), poller.Options{
		RequestTimeout: *timeout,
		Logger:         log.New(io.Discard, "", 0),
	})
	if err := p.Once(context.Background()); err != nil {
		log.Fatalf("fetch %s: %v", target, err)
	}

	if *asJSON {
		data, err := json.MarshalIndent(fetcher.last, "", "  ")
		if err != nil {
			log.Fatalf("encode snapshot: %v", err)
		}
		fmt.Fprintln(os.Stdout, string(data))
		return
	}
	out.render(os.Stdout, useColor(*colorMode))
}

func useColor(mode string) bool {
	switch strutil.NormalizeLower(mode) {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stdout.Fd()))
	}
}
