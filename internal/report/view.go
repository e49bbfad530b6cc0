package report

import (
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
)

var lineLabels = map[string]string{
	reconciliation.LineDaysInState:     "Diárias no estado",
	reconciliation.LineDaysOutOfState:  "Diárias fora do estado",
	reconciliation.LineMealsInState:    "Refeições no estado",
	reconciliation.LineMealsOutOfState: "Refeições fora do estado",
}

// LineView is one breakdown row ready for display
type LineView struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Quantity  int    `json:"quantity"`
	UnitValue Money  `json:"unit_value"`
	LineTotal Money  `json:"line_total"`
}

// TotalsView is the presentation form of a reconciliation.TotalsResult.
// Lines follow reconciliation.LineOrder and are empty when the totals are.
type TotalsView struct {
	TotalDaysAmount  Money      `json:"total_days_amount"`
	TotalMealsAmount Money      `json:"total_meals_amount"`
	GrandTotal       Money      `json:"grand_total"`
	AdvanceAmount    Money      `json:"advance_amount"`
	Difference       Money      `json:"difference"`
	Lines            []LineView `json:"lines"`
}

// NewTotalsView formats a totals result
func NewTotalsView(t reconciliation.TotalsResult, f *Formatter) TotalsView {
	v := TotalsView{
		TotalDaysAmount:  f.NewMoney(t.TotalDaysAmount),
		TotalMealsAmount: f.NewMoney(t.TotalMealsAmount),
		GrandTotal:       f.NewMoney(t.GrandTotal),
		AdvanceAmount:    f.NewMoney(t.AdvanceAmount),
		Difference:       f.NewMoney(t.Difference),
		Lines:            make([]LineView, 0, len(t.Breakdown)),
	}
	for _, key := range reconciliation.LineOrder {
		item, ok := t.Breakdown[key]
		if !ok {
			continue
		}
		v.Lines = append(v.Lines, LineView{
			Key:       key,
			Label:     lineLabels[key],
			Quantity:  item.Quantity,
			UnitValue: f.NewMoney(item.UnitValue),
			LineTotal: f.NewMoney(item.LineTotal),
		})
	}
	return v
}

// TicketSummaryView is the presentation form of a reconciliation.TicketSummary
type TicketSummaryView struct {
	AdvanceAmount  Money `json:"advance_amount"`
	TotalTickets   Money `json:"total_tickets"`
	Difference     Money `json:"difference"`
	AmountToReturn Money `json:"amount_to_return"`
	TicketCount    int   `json:"ticket_count"`
}

// NewTicketSummaryView formats a ticket summary
func NewTicketSummaryView(s reconciliation.TicketSummary, f *Formatter) TicketSummaryView {
	return TicketSummaryView{
		AdvanceAmount:  f.NewMoney(s.AdvanceAmount),
		TotalTickets:   f.NewMoney(s.TotalTickets),
		Difference:     f.NewMoney(s.Difference),
		AmountToReturn: f.NewMoney(s.AmountToReturn),
		TicketCount:    s.TicketCount,
	}
}
