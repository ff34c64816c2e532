package subscriber

import (
	"testing"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMsgIntoAccountEvent(t *testing.T) {
	t.Run("account update decodes before and after", func(t *testing.T) {
		msg := &pubsub.Message{
			ID: "msg-1",
			Data: []byte(`{
				"payload": {
					"op": "u",
					"source": {"schema": "public", "table": "account"},
					"before": {
						"id": 7,
						"email": "wa@gmail.com",
						"first_name": "Warren",
						"middle_name": "Lo",
						"last_name": "Nocos",
						"addresses": "{\"home\":{\"country\":\"PH\",\"zip_code\":\"6000\"}}",
						"contacts": "",
						"created_at": 1472688000000000,
						"updated_at": 1472688000000000
					},
					"after": {
						"id": 7,
						"email": "wa@gmail.com",
						"first_name": "Prex",
						"middle_name": "Lo",
						"last_name": "Nocos",
						"addresses": "",
						"contacts": "",
						"created_at": 1472688000000000,
						"updated_at": 1472774400000000
					}
				}
			}`),
		}
		event, err := decodeMsgIntoAccountEvent(msg)
		require.NoError(t, err)
		assert.Equal(t, "msg-1", event.ID)
		require.NotNil(t, event.Before)
		require.NotNil(t, event.After)
		assert.Equal(t, int64(7), event.Before.ID)
		assert.Equal(t, "Warren", event.Before.FirstName)
		assert.Equal(t, "Prex", event.After.FirstName)
		assert.Equal(t, "PH", event.Before.Addresses["home"].Country)
		assert.Equal(t, time.Date(2016, time.September, 1, 0, 0, 0, 0, time.UTC), event.Before.CreatedAt)
		assert.Equal(t, time.Date(2016, time.September, 2, 0, 0, 0, 0, time.UTC), event.After.UpdatedAt)
	})

	t.Run("creation has no before state", func(t *testing.T) {
		msg := &pubsub.Message{
			ID: "msg-2",
			Data: []byte(`{
				"payload": {
					"op": "c",
					"source": {"schema": "public", "table": "account"},
					"after": {"id": 7, "email": "wa@gmail.com"}
				}
			}`),
		}
		event, err := decodeMsgIntoAccountEvent(msg)
		require.NoError(t, err)
		assert.Nil(t, event.Before)
		require.NotNil(t, event.After)
		assert.Equal(t, "wa@gmail.com", event.After.Email)
	})

	t.Run("changes on other tables are ignored", func(t *testing.T) {
		msg := &pubsub.Message{
			ID: "msg-3",
			Data: []byte(`{
				"payload": {
					"op": "c",
					"source": {"schema": "public", "table": "account_credentials"},
					"after": {"id": 7}
				}
			}`),
		}
		_, err := decodeMsgIntoAccountEvent(msg)
		require.ErrorIs(t, err, ErrIgnoreEvent)
	})

	t.Run("malformed payloads error", func(t *testing.T) {
		_, err := decodeMsgIntoAccountEvent(&pubsub.Message{ID: "msg-4", Data: []byte("not json")})
		require.Error(t, err)

		_, err = decodeMsgIntoAccountEvent(nil)
		require.Error(t, err)
	})
}
