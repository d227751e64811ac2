package amqp

import (
	"encoding/json"
	"time"
)

// Export reasons carried on summary export messages.
const (
	ReasonManual   = "manual"
	ReasonRollover = "rollover"
	ReasonSchedule = "schedule"
)

// SummaryExportMessage asks the export worker to recompute and export
// one month's summary. It carries only the month and the trigger; the
// worker reads the entities from the store.
type SummaryExportMessage struct {
	Month     string    `json:"month"` // 2006-01
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSummaryExportMessage creates an export request for a month.
func NewSummaryExportMessage(month, reason string) *SummaryExportMessage {
	return &SummaryExportMessage{
		Month:     month,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SummaryExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SummaryExportMessageFromJSON creates a message from JSON bytes
func SummaryExportMessageFromJSON(data []byte) (*SummaryExportMessage, error) {
	var msg SummaryExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
