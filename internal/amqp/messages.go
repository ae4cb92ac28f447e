package amqp

import (
	"encoding/json"
	"time"
)

// TransactionRecordedMessage tells the mirror worker a ledger transaction
// was written. It carries only the ID and version; the worker fetches the
// full record from storage so the queue never holds stale copies.
type TransactionRecordedMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionRecordedMessage creates a new mirror event for a
// just-written transaction.
func NewTransactionRecordedMessage(id, version int64) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionRecordedFromJSON creates a message from JSON bytes
func TransactionRecordedFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
