package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	// Client to server.
	MessageTypeMoveIntent      MessageType = "moveIntent"
	MessageTypePromotionChoice MessageType = "promotionChoice"
	MessageTypeResetRequest    MessageType = "resetRequest"
	MessageTypeNewGameRequest  MessageType = "newGameRequest"
	MessageTypeResign          MessageType = "resign"
	MessageTypeSyncRequest     MessageType = "syncRequest"

	// Server to client.
	MessageTypeMoveApplied     MessageType = "moveApplied"
	MessageTypeMoveRejected    MessageType = "moveRejected"
	MessageTypePromotionPrompt MessageType = "promotionPrompt"
	MessageTypeSnapshot        MessageType = "snapshot"
	MessageTypeRoster          MessageType = "roster"
	MessageTypeGameOver        MessageType = "gameOver"
	MessageTypeMatchFound      MessageType = "matchFound"
	MessageTypeError           MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage wraps a payload struct into an envelope of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
