// Package pipeline runs generate, write, read back, normalize and report
// for both command line entry points.
package pipeline

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ordersynth/internal/flatfile"
	"ordersynth/internal/generate"
	"ordersynth/internal/manifest"
	"ordersynth/internal/metrics"
	"ordersynth/internal/model"
	"ordersynth/internal/normalize"
	"ordersynth/internal/report"
	"ordersynth/internal/sink"
	"ordersynth/internal/state"
)

// CleanFile is the normalized table inside OutDir. It is only written when
// a file of that name already exists.
const CleanFile = "clean_data.csv"

// Config holds CLI flags shared by both commands.
type Config struct {
	Count         int
	ItemsPerOrder int
	RawPath       string
	OutDir        string
	Seed          int64
	// Report renders the charts and the summary.
	Report bool
	// AlwaysNormalize normalizes in memory even when CleanFile is absent.
	AlwaysNormalize bool

	StateBackend string // memory|pebble
	StateDir     string

	Sinks          string // comma list: file,kafka,confluent,sqlite
	SinkFile       string
	KafkaBootstrap string
	Topic          string
	SQLitePath     string
	XLSXPath       string

	ManifestSink  string // file|kafka|both|none
	ManifestTopic string

	MetricsFile string
}

// Result lists what a run produced.
type Result struct {
	RawPath      string
	CleanPath    string
	Rows         []model.FlatRow
	Stats        normalize.Stats
	Charts       []string
	SummaryPath  string
	ManifestPath string
}

// Run executes one pass. I/O failures abort and are returned; a missing
// CleanFile and report failures are logged and the run continues.
func Run(cfg Config) (Result, error) {
	res := Result{RawPath: cfg.RawPath}
	if cfg.OutDir == "" {
		cfg.OutDir = "."
	}
	if err := validate(cfg); err != nil {
		return res, err
	}
	mreg := metrics.NewRegistry()
	timed := func(stage string, start time.Time) {
		mreg.ObserveStage(stage, time.Since(start).Seconds())
	}

	start := time.Now()
	wide := generate.New(cfg.Seed).Generate(cfg.Count, cfg.ItemsPerOrder)
	mreg.OrdersGenerated.Add(float64(len(wide)))
	for _, w := range wide {
		mreg.ItemsGenerated.Add(float64(len(w.Items)))
	}
	if err := flatfile.WriteWide(cfg.RawPath, wide); err != nil {
		return res, fmt.Errorf("write raw data: %w", err)
	}
	timed("generate", start)

	raw, err := flatfile.ReadWide(cfg.RawPath)
	if err != nil {
		return res, fmt.Errorf("read raw data: %w", err)
	}

	cleanPath := filepath.Join(cfg.OutDir, CleanFile)
	cleanExists, err := fileExists(cleanPath)
	if err != nil {
		return res, err
	}
	if !cleanExists {
		log.Printf("error! the path %s does not exist", cleanPath)
	}

	normalized := cleanExists || cfg.AlwaysNormalize || cfg.Report
	if normalized {
		start = time.Now()
		store, closeStore, err := openStore(cfg)
		if err != nil {
			return res, err
		}
		rows, st, err := normalize.New(store).Normalize(raw)
		seen := store.Len()
		if cerr := closeStore(); cerr != nil && err == nil {
			err = cerr
		}
		if err != nil {
			return res, fmt.Errorf("normalize: %w", err)
		}
		res.Rows, res.Stats = rows, st
		mreg.FlatRowsEmitted.Add(float64(st.Emitted))
		mreg.DroppedInvalid.Add(float64(st.DroppedInvalid))
		mreg.DroppedDuplicate.Add(float64(st.DroppedDuplicate))
		timed("normalize", start)
		log.Printf("normalized %d orders into %d rows (invalid=%d duplicate=%d seen=%d)",
			st.SourceRows, st.Emitted, st.DroppedInvalid, st.DroppedDuplicate, seen)
	}

	if cleanExists {
		if err := flatfile.WriteFlat(cleanPath, res.Rows); err != nil {
			return res, fmt.Errorf("write clean data: %w", err)
		}
		res.CleanPath = cleanPath
	}
	if normalized {
		if cfg.XLSXPath != "" {
			if err := flatfile.WriteFlatXLSX(cfg.XLSXPath, res.Rows); err != nil {
				return res, fmt.Errorf("write xlsx: %w", err)
			}
		}
		n, err := deliver(cfg, res.Rows)
		if err != nil {
			return res, err
		}
		mreg.SinkAppended.Add(float64(n))
	}

	if cfg.Report {
		start = time.Now()
		charts, summary, err := runReport(cfg.OutDir, res.Rows)
		res.Charts, res.SummaryPath = charts, summary
		mreg.ChartsRendered.Add(float64(len(charts)))
		if err != nil {
			mreg.ReportFailures.Inc()
			log.Printf("report failed: %v", err)
		}
		timed("report", start)
	}

	if err := publishManifest(cfg, &res); err != nil {
		return res, err
	}
	if cfg.MetricsFile != "" {
		if err := mreg.WriteTextfile(cfg.MetricsFile); err != nil {
			return res, fmt.Errorf("write metrics: %w", err)
		}
	}
	return res, nil
}

// validate rejects flag combinations Run cannot honour, before anything is
// written.
func validate(cfg Config) error {
	switch cfg.StateBackend {
	case "", "memory", "pebble":
	default:
		return fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
	for _, name := range strings.Split(cfg.Sinks, ",") {
		switch name = strings.TrimSpace(name); name {
		case "", "file", "sqlite":
		case "kafka", "confluent":
			if cfg.KafkaBootstrap == "" {
				return fmt.Errorf("%s sink needs --kafka-bootstrap", name)
			}
		default:
			return fmt.Errorf("unknown sink %q", name)
		}
	}
	switch cfg.ManifestSink {
	case "", "file", "none":
	case "kafka", "both":
		if cfg.KafkaBootstrap == "" {
			return fmt.Errorf("manifest sink %q needs --kafka-bootstrap", cfg.ManifestSink)
		}
	default:
		return fmt.Errorf("unknown manifest sink %q", cfg.ManifestSink)
	}
	return nil
}

func runReport(dir string, rows []model.FlatRow) ([]string, string, error) {
	charts, err := report.Render(dir, rows)
	if err != nil {
		return charts, "", err
	}
	path := filepath.Join(dir, report.SummaryFile)
	if err := report.WriteSummary(path, report.Summarize(rows)); err != nil {
		return charts, "", fmt.Errorf("summary: %w", err)
	}
	return charts, path, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}

func openStore(cfg Config) (state.Store, func() error, error) {
	switch cfg.StateBackend {
	case "", "memory":
		return state.NewInMemoryStore(), func() error { return nil }, nil
	case "pebble":
		ps, err := state.NewPebbleStore(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init pebble: %w", err)
		}
		return ps, ps.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
	}
}

// deliver sends rows to the configured sinks and returns how many were
// appended.
func deliver(cfg Config, rows []model.FlatRow) (int, error) {
	w, err := buildSink(cfg)
	if err != nil || w == nil {
		return 0, err
	}
	err = sink.AppendAll(w, rows)
	if cerr := sink.Close(w); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("sink: %w", err)
	}
	return len(rows), nil
}

func buildSink(cfg Config) (sink.Writer, error) {
	ws, err := openSinks(cfg)
	if err != nil {
		for _, w := range ws {
			_ = sink.Close(w)
		}
		return nil, err
	}
	switch len(ws) {
	case 0:
		return nil, nil
	case 1:
		return ws[0], nil
	}
	return sink.NewMultiWriter(ws...), nil
}

// openSinks returns the writers opened so far along with any error.
func openSinks(cfg Config) ([]sink.Writer, error) {
	var ws []sink.Writer
	for _, name := range strings.Split(cfg.Sinks, ",") {
		switch strings.TrimSpace(name) {
		case "":
		case "file":
			if cfg.SinkFile == "" {
				cfg.SinkFile = filepath.Join(cfg.OutDir, "clean_data.jsonl")
			}
			fw, err := sink.NewFileWriter(filepath.Dir(cfg.SinkFile), filepath.Base(cfg.SinkFile))
			if err != nil {
				return ws, fmt.Errorf("init file sink: %w", err)
			}
			// the JSONL sink appends, truncate it so a run overwrites like the CSV
			if err := os.WriteFile(cfg.SinkFile, nil, 0o644); err != nil {
				return ws, fmt.Errorf("init file sink: %w", err)
			}
			ws = append(ws, fw)
		case "kafka":
			ws = append(ws, sink.NewKafkaWriter(cfg.KafkaBootstrap, cfg.Topic))
		case "confluent":
			cw, err := sink.NewConfluentWriter(cfg.KafkaBootstrap, cfg.Topic)
			if err != nil {
				return ws, fmt.Errorf("init confluent sink: %w", err)
			}
			ws = append(ws, cw)
		case "sqlite":
			if cfg.SQLitePath == "" {
				cfg.SQLitePath = filepath.Join(cfg.OutDir, "clean_data.db")
			}
			sw, err := sink.NewSQLiteWriter(cfg.SQLitePath)
			if err != nil {
				return ws, fmt.Errorf("init sqlite sink: %w", err)
			}
			ws = append(ws, sw)
		default:
			return ws, fmt.Errorf("unknown sink %q", name)
		}
	}
	return ws, nil
}

func publishManifest(cfg Config, res *Result) error {
	m := manifest.New(manifest.Manifest{
		Orders:           cfg.Count,
		ItemsPerOrder:    cfg.ItemsPerOrder,
		RawPath:          res.RawPath,
		CleanPath:        res.CleanPath,
		FlatRows:         len(res.Rows),
		DroppedInvalid:   res.Stats.DroppedInvalid,
		DroppedDuplicate: res.Stats.DroppedDuplicate,
		Charts:           res.Charts,
	})

	fs := manifest.NewFilesystemManifest(cfg.OutDir)
	var pub manifest.Publisher
	switch cfg.ManifestSink {
	case "none":
		return nil
	case "", "file":
		pub = fs
	case "kafka", "both":
		km := manifest.NewKafkaManifest(cfg.KafkaBootstrap, cfg.ManifestTopic, "ordersynth-manifest-latest")
		pub = km
		if cfg.ManifestSink == "both" {
			pub = manifest.MultiPublisher(fs, km)
		}
	default:
		return fmt.Errorf("unknown manifest sink %q", cfg.ManifestSink)
	}
	if err := pub.PublishLatest(m); err != nil {
		return fmt.Errorf("publish manifest: %w", err)
	}
	if cfg.ManifestSink != "kafka" {
		res.ManifestPath = fs.Path()
	}
	return nil
}
