package pipeline

import (
	"flag"
	"testing"
)

func TestBindFlags_Defaults(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("generatedata", flag.ContinueOnError)
	BindFlags(fs, &cfg, 10, 2)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	if cfg.Count != 10 || cfg.ItemsPerOrder != 2 || cfg.RawPath != "csv_file.csv" || cfg.OutDir != "." {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.StateBackend != "memory" || cfg.ManifestSink != "file" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestBindFlags_Parse(t *testing.T) {
	var cfg Config
	fs := flag.NewFlagSet("orderreport", flag.ContinueOnError)
	BindFlags(fs, &cfg, 100, 3)
	fs.BoolVar(&cfg.Report, "r", false, "")
	fs.BoolVar(&cfg.Report, "report", false, "")
	args := []string{"--number_products", "5", "--item", "4", "--path", "raw.csv", "-r", "--sink", "file,sqlite"}
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	if cfg.Count != 5 || cfg.ItemsPerOrder != 4 || cfg.RawPath != "raw.csv" || !cfg.Report || cfg.Sinks != "file,sqlite" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}
