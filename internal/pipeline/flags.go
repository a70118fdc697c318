package pipeline

import "flag"

// BindFlags registers the flags both commands share. count and items are
// the command's defaults for --number_products and --item.
func BindFlags(fs *flag.FlagSet, cfg *Config, count, items int) {
	fs.IntVar(&cfg.Count, "number_products", count, "number of orders to generate")
	fs.IntVar(&cfg.ItemsPerOrder, "item", items, "line items per order")
	fs.StringVar(&cfg.RawPath, "path", "csv_file.csv", "path to save the raw CSV file")
	fs.StringVar(&cfg.OutDir, "out-dir", ".", "directory for clean_data.csv, charts and manifest")
	fs.Int64Var(&cfg.Seed, "seed", 0, "random seed, 0 picks one from the clock")
	fs.StringVar(&cfg.StateBackend, "state-backend", "memory", "dedup state backend: memory|pebble")
	fs.StringVar(&cfg.StateDir, "state-dir", "./data/ordersynth", "pebble data directory")
	fs.StringVar(&cfg.Sinks, "sink", "", "extra row sinks, comma separated: file,kafka,confluent,sqlite")
	fs.StringVar(&cfg.SinkFile, "sink-file", "", "JSONL sink path (default <out-dir>/clean_data.jsonl)")
	fs.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", "", "kafka bootstrap servers, e.g. localhost:9092")
	fs.StringVar(&cfg.Topic, "topic", "orders.clean", "kafka topic for normalized rows")
	fs.StringVar(&cfg.SQLitePath, "sqlite-path", "", "sqlite sink path (default <out-dir>/clean_data.db)")
	fs.StringVar(&cfg.XLSXPath, "xlsx", "", "also export the normalized table to this .xlsx file")
	fs.StringVar(&cfg.ManifestSink, "manifest-sink", "file", "run manifest sink: file|kafka|both|none")
	fs.StringVar(&cfg.ManifestTopic, "manifest-topic", "orders.manifest", "kafka topic for the run manifest (compacted)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
}
