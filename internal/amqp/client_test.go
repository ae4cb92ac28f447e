package amqp

import (
	"testing"
	"time"
)

func TestNewTransactionRecordedMessage(t *testing.T) {
	msg := NewTransactionRecordedMessage(12345, 2)

	if msg.ID != 12345 {
		t.Errorf("ID = %v, want 12345", msg.ID)
	}
	if msg.Version != 2 {
		t.Errorf("Version = %v, want 2", msg.Version)
	}
	if msg.Timestamp.IsZero() {
		t.Error("Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("Timestamp should be recent")
	}
}

func TestTransactionRecordedMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &TransactionRecordedMessage{
		ID:        12345,
		Version:   2,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := TransactionRecordedFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("TransactionRecordedFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Version != msg.Version {
		t.Errorf("Parsed Version = %v, want %v", parsedMsg.Version, msg.Version)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestTransactionRecordedMessage_InvalidJSON(t *testing.T) {
	invalidJSON := []byte(`{"id": "not_a_number", "version": 1}`)

	if _, err := TransactionRecordedFromJSON(invalidJSON); err == nil {
		t.Error("TransactionRecordedFromJSON() should fail with invalid JSON")
	}
}
