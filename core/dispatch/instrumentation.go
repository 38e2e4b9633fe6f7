package dispatch

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/coda-realtime/core/dispatch"

var (
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var observerPanics = func() metric.Int64Counter {
	counter, err := meter.Int64Counter("coda.realtime.observer_panics", metric.WithDescription("Recovered observer panics"))
	if err != nil {
		logger.Error("failed to create counter", "error", err)
		return noop.Int64Counter{}
	}
	return counter
}()
