package subscriber

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rmoretti/auditrail/internal/core/model"
	"github.com/rmoretti/auditrail/internal/core/ports"

	log "github.com/sirupsen/logrus"
)

// SubscriberArgs contain the mandatory arguments to build a subscriber.
type SubscriberArgs struct {
	// Subscription is a pubsub subscription
	Subscription *pubsub.Subscription

	// AccountEventHandlers receive every decoded account event in order.
	AccountEventHandlers []ports.AccountEventHandler
}

// Subscriber is a pubsub async subscriber
type Subscriber struct {
	subscription         *pubsub.Subscription
	accountEventHandlers []ports.AccountEventHandler
}

// NewSubscriber creates a subscriber
func NewSubscriber(args SubscriberArgs) *Subscriber {
	return &Subscriber{
		subscription:         args.Subscription,
		accountEventHandlers: args.AccountEventHandlers,
	}
}

// Consume starts the subscriber. This is a blocking method and should be
// started in its own go-routine. The way to terminate the method is to
// cancel the context in input.
func (s *Subscriber) Consume(ctx context.Context) error {
	if err := s.subscription.Receive(ctx, func(ctx context.Context, msg *pubsub.Message) {
		event, err := decodeMsgIntoAccountEvent(msg)
		if errors.Is(err, ErrIgnoreEvent) {
			msg.Ack()
			return
		}
		if err != nil {
			log.WithError(err).Error("error decoding message into account-event")
			msg.Nack()
			return
		}

		for _, handler := range s.accountEventHandlers {
			if err := handler.Handle(ctx, *event); err != nil {
				log.WithError(err).Error("error in account event handler")
				msg.Nack()
				return
			}
		}
		msg.Ack()
	}); err != nil {
		return fmt.Errorf("error receiving messages from subscription: %w", err)
	}
	return nil
}

var (
	ErrIgnoreEvent = errors.New("event should be ignored")
)

func decodeMsgIntoAccountEvent(msg *pubsub.Message) (*model.AccountEvent, error) {
	if msg == nil {
		return nil, errors.New("cannot decode nil pubsub msg")
	}
	debeziumMsg := new(debeziumMessage)
	if err := json.Unmarshal(msg.Data, debeziumMsg); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	if debeziumMsg.Payload.Source.Table != "account" {
		return nil, ErrIgnoreEvent
	}

	event := new(model.AccountEvent)
	event.ID = msg.ID
	before, err := translateAccountToModel(debeziumMsg.Payload.Before)
	if err != nil {
		return nil, ErrIgnoreEvent
	}
	event.Before = before
	after, err := translateAccountToModel(debeziumMsg.Payload.After)
	if err != nil {
		return nil, ErrIgnoreEvent
	}
	event.After = after

	return event, nil
}

func translateAccountToModel(dbzAccount *debeziumAccount) (*model.Account, error) {
	if dbzAccount == nil {
		return nil, nil
	}

	account := &model.Account{
		ID:         dbzAccount.ID,
		Email:      dbzAccount.Email,
		FirstName:  dbzAccount.FirstName,
		MiddleName: dbzAccount.MiddleName,
		LastName:   dbzAccount.LastName,
		CreatedAt:  dbzAccount.CreatedAt.Time,
		UpdatedAt:  dbzAccount.UpdatedAt.Time,
	}

	// jsonb columns arrive as embedded JSON strings
	if dbzAccount.Addresses != "" {
		if err := json.Unmarshal([]byte(dbzAccount.Addresses), &account.Addresses); err != nil {
			return nil, err
		}
	}
	if dbzAccount.Contacts != "" {
		if err := json.Unmarshal([]byte(dbzAccount.Contacts), &account.Contacts); err != nil {
			return nil, err
		}
	}

	return account, nil
}

type debeziumMessage struct {
	// Payload is the debezium segment containing the payload.
	Payload payload `json:"payload"`
}

type payload struct {
	Op     string           `json:"op"`
	Source source           `json:"source"`
	Before *debeziumAccount `json:"before"`
	After  *debeziumAccount `json:"after"`
}

type source struct {
	Schema string `json:"schema"`
	Table  string `json:"table"`
}

type debeziumAccount struct {
	ID         int64    `json:"id"`
	Email      string   `json:"email"`
	FirstName  string   `json:"first_name"`
	MiddleName string   `json:"middle_name"`
	LastName   string   `json:"last_name"`
	Addresses  string   `json:"addresses"`
	Contacts   string   `json:"contacts"`
	CreatedAt  UnixTime `json:"created_at"`
	UpdatedAt  UnixTime `json:"updated_at"`
}

// UnixTime is a custom type to allow us to redefine how to unmarshal from
// microseconds from epoch to time.Time
type UnixTime struct {
	time.Time
}

func (ut *UnixTime) UnmarshalJSON(b []byte) error {
	var timestamp int64
	if err := json.Unmarshal(b, &timestamp); err != nil {
		return err
	}
	ut.Time = time.Unix(0, timestamp*1000).UTC()
	return nil
}

func (ut UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(ut.UnixNano()/1000, 10)), nil
}
