package servant

import "time"

// Servant is the civil servant who received the advances.
type Servant struct {
	ServantID string    `json:"servantId" dynamodbav:"servantId"`
	Name      string    `json:"name" dynamodbav:"name"`
	RoleName  string    `json:"roleName" dynamodbav:"roleName"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
}

// CreateServantRequest represents the data needed to register a servant
type CreateServantRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	RoleName string `json:"roleName" validate:"required,max=120"`
}
