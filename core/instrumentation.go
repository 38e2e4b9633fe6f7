package realtime

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/coda-realtime/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var unknownEvents = func() metric.Int64Counter {
	counter, err := meter.Int64Counter("coda.realtime.unknown_events", metric.WithDescription("Frames decoded as unknown events"))
	if err != nil {
		logger.Error("failed to create counter", "error", err)
		return noop.Int64Counter{}
	}
	return counter
}()
