package reconciliation

import (
	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
)

// MealFactor is the share of the per-diem rate paid for one meal.
var MealFactor = decimal.RequireFromString("0.15")

// ComputeTotals reconciles per-diem entitlements against the per-diem advance.
//
// A nil roleRate or dailyCount yields the zero result with an empty breakdown.
// A nil advance counts as zero. Counts are used as given, negative ones included.
// Nothing is rounded here; rounding belongs to presentation.
func ComputeTotals(roleRate *RoleRate, dailyCount *DailyCount, perDiemAdvance *AdvanceRecord) TotalsResult {
	if roleRate == nil || dailyCount == nil {
		return zeroTotals()
	}

	mealInState := roleRate.RateInState.Mul(MealFactor)
	mealOutOfState := roleRate.RateOutOfState.Mul(MealFactor)

	breakdown := map[string]LineItem{
		LineDaysInState:     line(dailyCount.DaysInState, roleRate.RateInState),
		LineDaysOutOfState:  line(dailyCount.DaysOutOfState, roleRate.RateOutOfState),
		LineMealsInState:    line(dailyCount.MealsInState, mealInState),
		LineMealsOutOfState: line(dailyCount.MealsOutOfState, mealOutOfState),
	}

	totalDays := breakdown[LineDaysInState].LineTotal.Add(breakdown[LineDaysOutOfState].LineTotal)
	totalMeals := breakdown[LineMealsInState].LineTotal.Add(breakdown[LineMealsOutOfState].LineTotal)
	grandTotal := totalDays.Add(totalMeals)

	advance := decimal.Zero
	if perDiemAdvance != nil {
		advance = perDiemAdvance.Amount
	}

	return TotalsResult{
		TotalDaysAmount:  totalDays,
		TotalMealsAmount: totalMeals,
		GrandTotal:       grandTotal,
		AdvanceAmount:    advance,
		Difference:       grandTotal.Sub(advance),
		Breakdown:        breakdown,
	}
}

func line(quantity int, unit decimal.Decimal) LineItem {
	return LineItem{
		Quantity:  quantity,
		UnitValue: unit,
		LineTotal: unit.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

func zeroTotals() TotalsResult {
	return TotalsResult{
		TotalDaysAmount:  decimal.Zero,
		TotalMealsAmount: decimal.Zero,
		GrandTotal:       decimal.Zero,
		AdvanceAmount:    decimal.Zero,
		Difference:       decimal.Zero,
		Breakdown:        map[string]LineItem{},
	}
}

// ComputeTicketSummary reconciles the travel-ticket advance against the tickets.
// AmountToReturn is the unspent part of the advance and is never negative.
func ComputeTicketSummary(ticketAdvance *AdvanceRecord, tickets []TicketExpense) TicketSummary {
	total := decimal.Zero
	for _, t := range tickets {
		total = total.Add(t.Amount)
	}

	advance := decimal.Zero
	if ticketAdvance != nil {
		advance = ticketAdvance.Amount
	}

	difference := advance.Sub(total)
	toReturn := decimal.Zero
	if difference.IsPositive() {
		toReturn = difference
	}

	return TicketSummary{
		AdvanceAmount:  advance,
		TotalTickets:   total,
		Difference:     difference,
		AmountToReturn: toReturn,
		TicketCount:    len(tickets),
	}
}

// SelectAdvance returns the advance of the given category, or nil.
// Persistence keeps at most one advance per category, so the first match is the only one.
func SelectAdvance(advances []record.Advance, category record.AdvanceCategory) *AdvanceRecord {
	for _, a := range advances {
		if a.Category == category {
			return &AdvanceRecord{
				RecordID:         a.RecordID,
				Category:         a.Category,
				Amount:           a.Amount,
				Date:             a.Date,
				Number:           a.Number,
				CommitmentNumber: a.CommitmentNumber,
			}
		}
	}
	return nil
}
