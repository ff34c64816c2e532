package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rmoretti/auditrail/internal/core/model"
)

// NewProducer creates a new producer.
func NewProducer(topic *pubsub.Topic) (*Producer, error) {
	if topic == nil {
		return nil, errors.New("topic is nil")
	}
	return &Producer{topic: topic}, nil
}

// Producer is the pubsub producer of public account events.
type Producer struct {
	topic *pubsub.Topic
}

func (p *Producer) Send(ctx context.Context, event model.AccountEvent) error {
	data, err := json.Marshal(toPublicEvent(event))
	if err != nil {
		return fmt.Errorf("error marshaling account-event message: %w", err)
	}
	result := p.topic.Publish(ctx, &pubsub.Message{
		Data: data,
	})
	// Block until the result is returned and a server-generated
	// ID is returned for the published message.
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("pubsub: result.Get: %w", err)
	}
	return nil
}

// publicAccountEvent is the outbound wire format. Credentials never appear.
type publicAccountEvent struct {
	ID     string         `json:"id,omitempty"`
	Before *publicAccount `json:"before,omitempty"`
	After  *publicAccount `json:"after,omitempty"`
}

type publicAccount struct {
	ID         int64                    `json:"id"`
	Email      string                   `json:"email"`
	FirstName  string                   `json:"first_name"`
	MiddleName string                   `json:"middle_name,omitempty"`
	LastName   string                   `json:"last_name"`
	Addresses  map[string]model.Address `json:"addresses,omitempty"`
	Contacts   map[string]string        `json:"contacts,omitempty"`
	CreatedAt  time.Time                `json:"created_at"`
	UpdatedAt  time.Time                `json:"updated_at"`
}

func toPublicEvent(event model.AccountEvent) *publicAccountEvent {
	return &publicAccountEvent{
		ID:     event.ID,
		Before: toPublicAccount(event.Before),
		After:  toPublicAccount(event.After),
	}
}

func toPublicAccount(a *model.Account) *publicAccount {
	if a == nil {
		return nil
	}
	return &publicAccount{
		ID:         a.ID,
		Email:      a.Email,
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		LastName:   a.LastName,
		Addresses:  a.Addresses,
		Contacts:   a.Contacts,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}
