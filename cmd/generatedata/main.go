package main

import (
	"flag"
	"log"

	"ordersynth/internal/pipeline"
)

func main() {
	cfg := readFlags()
	if _, err := pipeline.Run(cfg); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func readFlags() pipeline.Config {
	var cfg pipeline.Config
	pipeline.BindFlags(flag.CommandLine, &cfg, 10, 2)
	flag.Parse()
	return cfg
}
