package main

import (
	"flag"
	"log"

	"ordersynth/internal/pipeline"
)

func main() {
	cfg := readFlags()
	log.Printf("starting orderreport orders=%d items=%d report=%v", cfg.Count, cfg.ItemsPerOrder, cfg.Report)
	res, err := pipeline.Run(cfg)
	if err != nil {
		log.Fatalf("orderreport failed: %v", err)
	}
	for _, p := range res.Charts {
		log.Printf("report: %s", p)
	}
}

func readFlags() pipeline.Config {
	var cfg pipeline.Config
	pipeline.BindFlags(flag.CommandLine, &cfg, 100, 3)
	flag.BoolVar(&cfg.Report, "r", false, "generate the report charts (shorthand)")
	flag.BoolVar(&cfg.Report, "report", false, "generate the report charts")
	flag.Parse()
	// the report always works from the normalized table
	cfg.AlwaysNormalize = true
	return cfg
}
