package usecase

import (
	"context"
	"fmt"

	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/ports"
)

// NewInformer builds a new informer.
func NewInformer(sender ports.Sender) *Informer {
	return &Informer{sender: sender}
}

// Informer adapts CDC events to a public-facing event. It publicly 'informs'
// about account changes.
type Informer struct {
	sender ports.Sender
}

func (i *Informer) Handle(ctx context.Context, event model.AccountEvent) error {
	// changes with no observable difference are not worth publishing
	if eventsAreEqual(event.Before, event.After) {
		return nil
	}

	if err := i.sender.Send(ctx, event); err != nil {
		return fmt.Errorf("error sending account event ID [%s]: %w", event.ID, err)
	}

	return nil
}

func eventsAreEqual(before *model.Account, after *model.Account) bool {
	if before == nil && after == nil {
		return true
	}
	if before == nil || after == nil {
		return false
	}
	return before.ID == after.ID &&
		before.Email == after.Email &&
		before.FirstName == after.FirstName &&
		before.MiddleName == after.MiddleName &&
		before.LastName == after.LastName &&
		before.UpdatedAt.Equal(after.UpdatedAt)
}
