package president

import "time"

// President is the council president who judges a reconciliation record.
type President struct {
	PresidentID string    `json:"presidentId" dynamodbav:"presidentId"`
	Name        string    `json:"name" dynamodbav:"name"`
	CreatedAt   time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// CreatePresidentRequest represents the data needed to register a president
type CreatePresidentRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}
