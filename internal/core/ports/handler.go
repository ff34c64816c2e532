package ports

import (
	"context"

	"github.com/rmoretti/auditrail/internal/core/model"
)

// AccountEventHandler handles incoming AccountEvents.
type AccountEventHandler interface {
	// Handle will receive an incoming account event and handle it.
	Handle(ctx context.Context, event model.AccountEvent) error
}
