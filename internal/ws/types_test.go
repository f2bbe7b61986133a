package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageWrapsPayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeMoveIntent, MoveIntent{From: "e2", To: "e4"})
	require.NoError(t, err)
	assert.Equal(t, MessageTypeMoveIntent, msg.Type)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"moveIntent","payload":{"from":"e2","to":"e4"}}`, string(data))

	var decoded Message
	require.NoError(t, json.Unmarshal(data, &decoded))
	var intent MoveIntent
	require.NoError(t, json.Unmarshal(decoded.Payload, &intent))
	assert.Equal(t, MoveIntent{From: "e2", To: "e4"}, intent)
}

func TestNewMessageWithoutPayload(t *testing.T) {
	msg, err := NewMessage(MessageTypeResign, nil)
	require.NoError(t, err)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"resign","payload":null}`, string(data))
}

func TestOptionalFieldsStayOffTheWire(t *testing.T) {
	msg, err := NewMessage(MessageTypeMoveApplied, MoveApplied{
		Index: 1, From: "e2", To: "e4", Kind: "quiet", ToMove: "black",
	})
	require.NoError(t, err)

	assert.NotContains(t, string(msg.Payload), "capturedOn")
	assert.NotContains(t, string(msg.Payload), "rookFrom")
	assert.NotContains(t, string(msg.Payload), "promotion")
}
