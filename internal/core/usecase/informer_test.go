package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmoretti/auditrail/internal/core/model"
)

// MockSender is a mock implementation of the Sender interface.
type MockSender struct {
	t                     *testing.T
	called                bool
	AccountEventAssertion func(t *testing.T, event model.AccountEvent)
	SendError             error
}

func (m *MockSender) Send(ctx context.Context, event model.AccountEvent) error {
	m.called = true
	if m.AccountEventAssertion != nil {
		m.AccountEventAssertion(m.t, event)
	}
	return m.SendError
}

func TestInformer_Handle(t *testing.T) {
	sendingError := errors.New("sending error")
	tests := []struct {
		name                  string
		accountEvent          model.AccountEvent
		accountEventAssertion func(t *testing.T, event model.AccountEvent)
		sendError             error
		callsSendMethod       bool
		expectedError         func(t *testing.T, err error)
	}{
		{
			name: "update first name",
			accountEvent: model.AccountEvent{
				ID: "1",
				Before: &model.Account{
					FirstName: "Warren",
				},
				After: &model.Account{
					FirstName: "Prex",
				},
			},
			accountEventAssertion: func(t *testing.T, event model.AccountEvent) {
				require.NotNil(t, event.Before)
				require.NotNil(t, event.After)
				require.Equal(t, "1", event.ID)
				require.Equal(t, "Warren", event.Before.FirstName)
				require.Equal(t, "Prex", event.After.FirstName)
			},
			callsSendMethod: true,
		},
		{
			name: "account creation",
			accountEvent: model.AccountEvent{
				ID: "1",
				After: &model.Account{
					Email: "wa@gmail.com",
				},
			},
			accountEventAssertion: func(t *testing.T, event model.AccountEvent) {
				require.Nil(t, event.Before)
				require.NotNil(t, event.After)
				require.Equal(t, "wa@gmail.com", event.After.Email)
			},
			callsSendMethod: true,
		},
		{
			name: "account deletion",
			accountEvent: model.AccountEvent{
				ID: "1",
				Before: &model.Account{
					Email: "wa@gmail.com",
				},
			},
			accountEventAssertion: func(t *testing.T, event model.AccountEvent) {
				require.Nil(t, event.After)
				require.NotNil(t, event.Before)
				require.Equal(t, "wa@gmail.com", event.Before.Email)
			},
			callsSendMethod: true,
		},
		{
			name: "no observable change does not send",
			accountEvent: model.AccountEvent{
				ID: "1",
				Before: &model.Account{
					Email:     "wa@gmail.com",
					FirstName: "Warren",
					UpdatedAt: time.Date(2016, time.September, 1, 0, 0, 0, 0, time.UTC),
				},
				After: &model.Account{
					Email:     "wa@gmail.com",
					FirstName: "Warren",
					UpdatedAt: time.Date(2016, time.September, 1, 0, 0, 0, 0, time.UTC),
				},
			},
			callsSendMethod: false,
		},
		{
			name: "sender error surfaces",
			accountEvent: model.AccountEvent{
				ID: "1",
				After: &model.Account{
					Email: "wa@gmail.com",
				},
			},
			sendError:       sendingError,
			callsSendMethod: true,
			expectedError: func(t *testing.T, err error) {
				require.ErrorIs(t, err, sendingError)
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			sender := &MockSender{
				t:                     t,
				AccountEventAssertion: test.accountEventAssertion,
				SendError:             test.sendError,
			}
			informer := NewInformer(sender)
			err := informer.Handle(context.Background(), test.accountEvent)
			if test.expectedError != nil {
				test.expectedError(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, test.callsSendMethod, sender.called)
		})
	}
}
