package stage

import (
	"context"

	"cutout/internal/queue"
)

// Handler describes the contract the workflow manager needs from the
// processing stage.
type Handler interface {
	Prepare(context.Context, *queue.Item) error
	Execute(context.Context, *queue.Item) error
	HealthCheck(context.Context) Health
}
