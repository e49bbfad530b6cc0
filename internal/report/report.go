package report

import (
	"strings"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
)

// Kind names a report
type Kind string

const (
	KindPerDiem      Kind = "per_diem"
	KindTravelTicket Kind = "travel_ticket"
	KindOpinion      Kind = "opinion"
)

// Kinds lists every report kind
var Kinds = []Kind{KindPerDiem, KindTravelTicket, KindOpinion}

// ParseKind validates a report kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", errors.NewValidationError("invalid report kind").
		WithDetail("kind", "must be one of: per_diem travel_ticket opinion")
}

// PersonView identifies the servant or the president on a report
type PersonView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	RoleName string `json:"role_name,omitempty"`
}

// RoleView shows the rates the totals were computed with
type RoleView struct {
	Name           string `json:"name"`
	RateInState    Money  `json:"rate_in_state"`
	RateOutOfState Money  `json:"rate_out_of_state"`
}

// AdvanceView shows one advance
type AdvanceView struct {
	Number           string `json:"number"`
	CommitmentNumber string `json:"commitment_number"`
	Date             string `json:"date"`
	Amount           Money  `json:"amount"`
}

// DocumentView shows one receipt
type DocumentView struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date,omitempty"`
	Amount      Money  `json:"amount"`
}

// TicketView shows one travel ticket
type TicketView struct {
	Ticket    string `json:"ticket"`
	Direction string `json:"direction"`
	Amount    Money  `json:"amount"`
}

// Report is the data contract behind each printed document. Which fields are
// filled depends on the kind.
type Report struct {
	Kind      Kind        `json:"kind"`
	RecordID  string      `json:"record_id"`
	Servant   PersonView  `json:"servant"`
	President *PersonView `json:"president,omitempty"`
	Role      *RoleView   `json:"role,omitempty"`

	Advance *AdvanceView `json:"advance,omitempty"`

	Totals    *TotalsView    `json:"totals,omitempty"`
	Documents []DocumentView `json:"documents,omitempty"`

	Tickets       []TicketView       `json:"tickets,omitempty"`
	TicketSummary *TicketSummaryView `json:"ticket_summary,omitempty"`

	RequiresBoardMemberSignature *bool `json:"requires_board_member_signature,omitempty"`
}

// Input is everything a report is built from
type Input struct {
	Reconciliation *reconciliation.Reconciliation
	President      *president.President
}

// Build assembles the report of the given kind. The opinion needs a president.
func Build(kind Kind, in Input, f *Formatter) (*Report, error) {
	rec := in.Reconciliation
	if rec == nil || rec.Snapshot == nil || rec.Servant == nil {
		return nil, errors.NewInvalidInputError("reconciliation is incomplete", nil)
	}

	r := &Report{
		Kind:     kind,
		RecordID: rec.Snapshot.Record.RecordID,
		Servant: PersonView{
			ID:       rec.Servant.ServantID,
			Name:     rec.Servant.Name,
			RoleName: rec.Servant.RoleName,
		},
	}

	switch kind {
	case KindPerDiem:
		r.Role = roleView(rec, f)
		r.Advance = advanceView(rec.PerDiemAdvance, f)
		totals := NewTotalsView(rec.Totals, f)
		r.Totals = &totals
		r.Documents = documentViews(rec.Snapshot.Documents, f)

	case KindTravelTicket:
		r.Advance = advanceView(rec.TicketAdvance, f)
		r.Tickets = ticketViews(rec.Snapshot.Tickets, f)
		summary := NewTicketSummaryView(rec.Tickets, f)
		r.TicketSummary = &summary

	case KindOpinion:
		if in.President == nil {
			return nil, errors.NewInvalidInputError("opinion requires the record's president", nil)
		}
		r.President = &PersonView{ID: in.President.PresidentID, Name: in.President.Name}
		r.Role = roleView(rec, f)
		r.Advance = advanceView(rec.PerDiemAdvance, f)
		totals := NewTotalsView(rec.Totals, f)
		r.Totals = &totals
		sign := RequiresBoardMemberSignature(rec.Servant.Name, in.President.Name)
		r.RequiresBoardMemberSignature = &sign

	default:
		return nil, errors.NewValidationError("invalid report kind").WithDetail("kind", "unknown kind "+string(kind))
	}

	return r, nil
}

// RequiresBoardMemberSignature reports whether the president would be judging
// their own record, in which case another board member signs the opinion.
func RequiresBoardMemberSignature(servantName, presidentName string) bool {
	return strings.EqualFold(strings.TrimSpace(servantName), strings.TrimSpace(presidentName))
}

func roleView(rec *reconciliation.Reconciliation, f *Formatter) *RoleView {
	if rec.Role == nil {
		return nil
	}
	return &RoleView{
		Name:           rec.Role.Name,
		RateInState:    f.NewMoney(rec.Role.RateInState),
		RateOutOfState: f.NewMoney(rec.Role.RateOutOfState),
	}
}

func advanceView(a *reconciliation.AdvanceRecord, f *Formatter) *AdvanceView {
	if a == nil {
		return nil
	}
	return &AdvanceView{
		Number:           a.Number,
		CommitmentNumber: a.CommitmentNumber,
		Date:             a.Date,
		Amount:           f.NewMoney(a.Amount),
	}
}

func documentViews(docs []record.Document, f *Formatter) []DocumentView {
	views := make([]DocumentView, 0, len(docs))
	for _, d := range docs {
		views = append(views, DocumentView{
			Type:        d.Type,
			Description: d.Description,
			Date:        d.Date,
			Amount:      f.NewMoney(d.Amount),
		})
	}
	return views
}

func ticketViews(tickets []record.TicketExpense, f *Formatter) []TicketView {
	views := make([]TicketView, 0, len(tickets))
	for _, t := range tickets {
		views = append(views, TicketView{
			Ticket:    t.Ticket,
			Direction: string(t.Direction),
			Amount:    f.NewMoney(t.Amount),
		})
	}
	return views
}
