package gorillaws

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/koscakluka/coda-realtime/core/transport/gorillaws"

var logger = otelslog.NewLogger(scopeName)
