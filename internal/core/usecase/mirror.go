package usecase

import (
	"context"
	"fmt"

	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/ports"
)

// NewMirrorer builds a new mirrorer.
func NewMirrorer(mirror ports.AccountMirror) *Mirrorer {
	return &Mirrorer{mirror: mirror}
}

// Mirrorer keeps a reporting read-model in sync with account change events.
type Mirrorer struct {
	mirror ports.AccountMirror
}

func (m *Mirrorer) Handle(ctx context.Context, event model.AccountEvent) error {
	if event.After != nil {
		if err := m.mirror.UpsertAccount(ctx, event.After); err != nil {
			return fmt.Errorf("error mirroring account event ID [%s]: %w", event.ID, err)
		}
		return nil
	}
	if event.Before == nil {
		return nil
	}
	if err := m.mirror.RemoveAccount(ctx, event.Before.ID); err != nil {
		return fmt.Errorf("error removing mirrored account for event ID [%s]: %w", event.ID, err)
	}
	return nil
}
