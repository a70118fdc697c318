package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Registry struct {
	reg              *prometheus.Registry
	OrdersGenerated  prometheus.Counter
	ItemsGenerated   prometheus.Counter
	FlatRowsEmitted  prometheus.Counter
	DroppedInvalid   prometheus.Counter
	DroppedDuplicate prometheus.Counter
	ChartsRendered   prometheus.Counter
	ReportFailures   prometheus.Counter
	SinkAppended     prometheus.Counter
	StageSec         *prometheus.HistogramVec
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	orders := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_orders_generated_total"})
	items := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_line_items_generated_total"})
	emitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_flat_rows_emitted_total"})
	invalid := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_rows_dropped_invalid_total"})
	dup := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_rows_dropped_duplicate_total"})
	charts := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_charts_rendered_total"})
	reportFail := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_report_failures_total"})
	appended := prometheus.NewCounter(prometheus.CounterOpts{Name: "ordersynth_sink_appended_total"})
	stage := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ordersynth_stage_seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	r.MustRegister(orders, items, emitted, invalid, dup, charts, reportFail, appended, stage)
	return &Registry{
		reg:              r,
		OrdersGenerated:  orders,
		ItemsGenerated:   items,
		FlatRowsEmitted:  emitted,
		DroppedInvalid:   invalid,
		DroppedDuplicate: dup,
		ChartsRendered:   charts,
		ReportFailures:   reportFail,
		SinkAppended:     appended,
		StageSec:         stage,
	}
}

// ObserveStage records how long a pipeline stage took.
func (r *Registry) ObserveStage(stage string, seconds float64) {
	r.StageSec.WithLabelValues(stage).Observe(seconds)
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node_exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.reg)
}
