package ports

import (
	"context"

	"github.com/rmoretti/auditrail/internal/core/model"
)

// Sender is the port for publishing outbound account-events.
type Sender interface {
	// Send sends account-event data.
	Send(ctx context.Context, event model.AccountEvent) error
}
