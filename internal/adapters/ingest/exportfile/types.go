package exportfile

import "time"

// MessageExport is one line of a message export file
type MessageExport struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Sender    string    `json:"sender"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
}
