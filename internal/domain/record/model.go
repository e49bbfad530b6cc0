package record

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

// AdvanceCategory tells which expense an advance pays for
type AdvanceCategory string

const (
	AdvancePerDiem      AdvanceCategory = "per_diem"
	AdvanceTravelTicket AdvanceCategory = "travel_ticket"
)

// TicketDirection is the leg of the trip a ticket covers
type TicketDirection string

const (
	DirectionOutbound TicketDirection = "outbound"
	DirectionReturn   TicketDirection = "return"
)

// Record ("prestação de contas") ties a servant's advances to the expenses that justify them.
type Record struct {
	RecordID    string    `json:"recordId"`
	ServantID   string    `json:"servantId"`
	PresidentID string    `json:"presidentId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Advance is money paid to the servant before the trip.
type Advance struct {
	RecordID         string          `json:"recordId"`
	Category         AdvanceCategory  `json:"category"`
	Number           string          `json:"number"`
	CommitmentNumber string          `json:"commitmentNumber"`
	Amount           decimal.Decimal `json:"amount"`
	Date             string          `json:"date"` // YYYY-MM-DD
	CreatedAt        time.Time       `json:"createdAt"`
}

// DailyCount holds the number of per-diem days and meals, in and out of the home state.
type DailyCount struct {
	RecordID        string    `json:"recordId"`
	DaysInState     int       `json:"daysInState"`
	MealsInState    int       `json:"mealsInState"`
	DaysOutOfState  int       `json:"daysOutOfState"`
	MealsOutOfState int       `json:"mealsOutOfState"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Document is a receipt attached to the record.
type Document struct {
	DocumentID  string          `json:"documentId"`
	RecordID    string          `json:"recordId"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        string          `json:"date,omitempty"` // YYYY-MM-DD
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// TicketExpense is a bus or plane ticket paid with the travel-ticket advance.
type TicketExpense struct {
	TicketID  string          `json:"ticketId"`
	RecordID  string          `json:"recordId"`
	Ticket    string          `json:"ticket"` // BP-e number
	Amount    decimal.Decimal `json:"amount"`
	Direction TicketDirection `json:"direction"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Snapshot is everything stored under one record, read in a single query.
type Snapshot struct {
	Record     Record          `json:"record"`
	Advances   []Advance       `json:"advances"`
	DailyCount *DailyCount     `json:"dailyCount,omitempty"`
	Documents  []Document      `json:"documents"`
	Tickets    []TicketExpense `json:"tickets"`
}

// Detail is a snapshot joined with the people it references.
type Detail struct {
	Snapshot
	Servant   *servant.Servant     `json:"servant"`
	President *president.President `json:"president"`
}

// CreateRecordRequest represents the data needed to open a record
type CreateRecordRequest struct {
	ServantID   string `json:"servantId" validate:"required"`
	PresidentID string `json:"presidentId" validate:"required"`
}

// CreateAdvanceRequest represents the data needed to register an advance
type CreateAdvanceRequest struct {
	Category         AdvanceCategory  `json:"category" validate:"required,oneof=per_diem travel_ticket"`
	Number           string           `json:"number" validate:"required,max=60"`
	CommitmentNumber string           `json:"commitmentNumber" validate:"required,max=60"`
	Amount           *decimal.Decimal `json:"amount" validate:"required,decimal_gte0"`
	Date             string           `json:"date" validate:"required,isodate"`
}

// DailyCountRequest carries the four counts; absent counts default to zero.
type DailyCountRequest struct {
	DaysInState     int `json:"daysInState" validate:"gte=0"`
	MealsInState    int `json:"mealsInState" validate:"gte=0"`
	DaysOutOfState  int `json:"daysOutOfState" validate:"gte=0"`
	MealsOutOfState int `json:"mealsOutOfState" validate:"gte=0"`
}

// CreateDocumentRequest represents the data needed to attach a receipt
type CreateDocumentRequest struct {
	Type        string          `json:"type" validate:"required,max=60"`
	Description string          `json:"description" validate:"required,max=500"`
	Date        string          `json:"date" validate:"omitempty,isodate"`
	Amount      decimal.Decimal `json:"amount" validate:"decimal_gte0"`
}

// CreateTicketRequest represents the data needed to register a ticket
type CreateTicketRequest struct {
	Ticket    string           `json:"ticket" validate:"required,max=60"`
	Amount    *decimal.Decimal `json:"amount" validate:"required,decimal_gte0"`
	Direction TicketDirection  `json:"direction" validate:"required,oneof=outbound return"`
}
