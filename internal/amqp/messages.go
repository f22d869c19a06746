package amqp

import (
	"encoding/json"
	"time"
)

// ActivityMessage is the wire form of one activity entry.
type ActivityMessage struct {
	ID          string         `json:"id"`
	BudgetID    string         `json:"budget_id"`
	Module      string         `json:"module"`
	Action      string         `json:"action"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// ToJSON converts the message to JSON bytes.
func (m *ActivityMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ActivityMessageFromJSON decodes a message.
func ActivityMessageFromJSON(data []byte) (*ActivityMessage, error) {
	var msg ActivityMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
