package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
)

// Breakdown keys, one per line item
const (
	LineDaysInState     = "days_in_state"
	LineDaysOutOfState  = "days_out_of_state"
	LineMealsInState    = "meals_in_state"
	LineMealsOutOfState = "meals_out_of_state"
)

// LineOrder is the presentation order of breakdown lines.
var LineOrder = []string{LineDaysInState, LineDaysOutOfState, LineMealsInState, LineMealsOutOfState}

// RoleRate is the per-diem rate pair of a role, copied out of the role table.
type RoleRate struct {
	RoleName       string          `json:"role_name"`
	RateInState    decimal.Decimal `json:"rate_in_state"`
	RateOutOfState decimal.Decimal `json:"rate_out_of_state"`
}

// DailyCount holds the day and meal counts of one reconciliation record.
// Zero is the default for every count.
type DailyCount struct {
	DaysInState     int `json:"days_in_state" yaml:"days_in_state"`
	MealsInState    int `json:"meals_in_state" yaml:"meals_in_state"`
	DaysOutOfState  int `json:"days_out_of_state" yaml:"days_out_of_state"`
	MealsOutOfState int `json:"meals_out_of_state" yaml:"meals_out_of_state"`
}

// AdvanceRecord is the engine's copy of an advance.
type AdvanceRecord struct {
	RecordID         string                 `json:"record_id"`
	Category         record.AdvanceCategory `json:"category"`
	Amount           decimal.Decimal        `json:"amount"`
	Date             string                 `json:"date"`
	Number           string                 `json:"number"`
	CommitmentNumber string                 `json:"commitment_number"`
}

// LineItem is one row of the breakdown.
type LineItem struct {
	Quantity  int             `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// TotalsResult is the per-diem reconciliation of a record. It is never persisted.
//
// Difference is GrandTotal - AdvanceAmount and keeps its sign. A negative
// difference means the advance exceeded the expenses.
type TotalsResult struct {
	TotalDaysAmount  decimal.Decimal     `json:"total_days_amount"`
	TotalMealsAmount decimal.Decimal     `json:"total_meals_amount"`
	GrandTotal       decimal.Decimal     `json:"grand_total"`
	AdvanceAmount    decimal.Decimal     `json:"advance_amount"`
	Difference       decimal.Decimal     `json:"difference"`
	Breakdown        map[string]LineItem `json:"breakdown"`
}

// TicketExpense is the engine's copy of a travel ticket.
type TicketExpense struct {
	Ticket    string                 `json:"ticket"`
	Amount    decimal.Decimal        `json:"amount"`
	Direction record.TicketDirection `json:"direction"`
}

// TicketSummary reconciles the travel-ticket advance against the tickets bought.
type TicketSummary struct {
	AdvanceAmount  decimal.Decimal `json:"advance_amount"`
	TotalTickets   decimal.Decimal `json:"total_tickets"`
	Difference     decimal.Decimal `json:"difference"`
	AmountToReturn decimal.Decimal `json:"amount_to_return"`
	TicketCount    int             `json:"ticket_count"`
}
