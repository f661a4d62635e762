// Command clicktrack replays clicks against a saved HTML page and prints
// the analytics events they produce.
//
//	clicktrack -file docs/index.html -page https://rmax.ai/ -click paper,paper_card -debug
//
// Each -click reference is an element id, a data-cta-id or a
// data-simple-nav-item value. In debug mode the events are printed as
// JSON lines; otherwise they are POSTed to the collect path.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clicktrack/internal/archive"
	"clicktrack/internal/config"
	"clicktrack/internal/htmldoc"
	"clicktrack/internal/logger"
	"clicktrack/internal/panel"
	"clicktrack/internal/tracker"

	json "github.com/goccy/go-json"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.LookupEnv, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "clicktrack: %v\n", err)
		os.Exit(1)
	}
}

type uploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// newUploader builds the archive sink; tests replace it.
var newUploader = func(ctx context.Context, cfg config.Config) (uploader, error) {
	return archive.NewS3Uploader(ctx, cfg)
}

func run(ctx context.Context, args []string, env config.Lookup, stdout, stderr io.Writer) error {
	cfg, err := config.LoadFrom(env)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	fs := flag.NewFlagSet("clicktrack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		file     = fs.String("file", "", "HTML page to load (required)")
		pageURL  = fs.String("page", "", "URL the page is served at (default file://<abs path>)")
		clicks   = fs.String("click", "", "comma-separated element references to click")
		report   = fs.String("report", "", "write the debug panel HTML to this path")
		archOut  = fs.String("archive", "", "write the debug event log as gzip JSONL to this path")
		waitSend = fs.Duration("wait", 3*time.Second, "how long to wait for in-flight sends before exit")
	)
	fs.BoolVar(&cfg.DebugEnabled, "debug", cfg.DebugEnabled, "debug mode: no network, events on stdout")
	fs.BoolVar(&cfg.CaptureFullEmail, "capture-email", cfg.CaptureFullEmail, "keep the local part of mailto addresses")
	fs.StringVar(&cfg.CollectPath, "collect", cfg.CollectPath, "collection endpoint path or URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}
	if _, set := env(config.KeyLogLevel); !set && cfg.DebugEnabled {
		cfg.LogLevel = "debug"
	}

	lg := logger.InitWriter(cfg, stderr)

	loc, err := pageLocation(*file, *pageURL)
	if err != nil {
		return err
	}

	f, err := os.Open(*file)
	if err != nil {
		return err
	}
	doc, err := htmldoc.Parse(f, loc)
	f.Close()
	if err != nil {
		return err
	}

	tr := tracker.New(cfg, doc, tracker.WithLogger(lg))
	tr.Init()

	for _, ref := range splitRefs(*clicks) {
		el := doc.Lookup(ref)
		if el == nil {
			lg.Warn().Str("ref", ref).Msg("no element to click")
			continue
		}
		lg.Debug().Str("ref", ref).Str("tag", el.TagName()).Str("text", el.Text()).Msg("click")
		doc.Click(el)
	}

	if cfg.DebugEnabled {
		if err := writeDebug(ctx, cfg, tr, stdout, stderr, *report, *archOut); err != nil {
			return err
		}
	} else {
		wctx, cancel := context.WithTimeout(ctx, *waitSend)
		if err := tr.Wait(wctx); err != nil {
			lg.Warn().Err(err).Msg("abandoning in-flight sends")
		}
		cancel()
	}

	fmt.Fprint(stderr, tr.Metrics().String())
	return nil
}

func writeDebug(ctx context.Context, cfg config.Config, tr *tracker.Tracker, stdout, stderr io.Writer, report, archOut string) error {
	events := tr.Events().Events()

	enc := json.NewEncoder(stdout)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}

	if report != "" {
		p, ok := tr.Panel().(*panel.HTML)
		if !ok {
			return errors.New("report: panel is not renderable to HTML")
		}
		out, err := os.Create(report)
		if err != nil {
			return err
		}
		if err := p.WriteHTML(out); err != nil {
			out.Close()
			return fmt.Errorf("report: %w", err)
		}
		if err := out.Close(); err != nil {
			return err
		}
	}

	if archOut == "" && cfg.ArchiveBucket == "" {
		return nil
	}
	data, err := archive.EncodeJSONLGZ(events)
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if archOut != "" {
		if err := os.WriteFile(archOut, data, 0o644); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	if cfg.ArchiveBucket != "" {
		up, err := newUploader(ctx, cfg)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		key, err := up.Upload(ctx, data)
		if err != nil {
			return fmt.Errorf("archive: %w", err)
		}
		fmt.Fprintf(stderr, "archived s3://%s/%s\n", cfg.ArchiveBucket, key)
	}
	return nil
}

// pageLocation is -page when given, else the file's own file:// URL.
func pageLocation(file, page string) (*url.URL, error) {
	if page != "" {
		u, err := url.Parse(page)
		if err != nil {
			return nil, fmt.Errorf("-page: %w", err)
		}
		return u, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	return &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}, nil
}

func splitRefs(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
