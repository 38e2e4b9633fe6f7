package connection

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const scopeName = "github.com/koscakluka/coda-realtime/core/connection"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)
)

var (
	framesReceived = int64Counter("coda.realtime.frames", "Frames received from the backend")
	reconnects     = int64Counter("coda.realtime.reconnects", "Scheduled reconnect attempts")
)

func int64Counter(name, description string) metric.Int64Counter {
	counter, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		logger.Error("failed to create counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return counter
}
