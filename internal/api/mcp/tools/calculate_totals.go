package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

// CalculateTotalsTool runs the per-diem computation on raw inputs, with nothing stored
type CalculateTotalsTool struct {
	formatter *report.Formatter
	validator validator.Validator
}

func NewCalculateTotalsTool(formatter *report.Formatter) *CalculateTotalsTool {
	return &CalculateTotalsTool{formatter: formatter, validator: validator.New()}
}

func (t *CalculateTotalsTool) GetName() string {
	return "calculate-totals"
}

func (t *CalculateTotalsTool) GetDescription() string {
	return "Calculates per-diem totals from role rates, day and meal counts and an optional advance. Meals are worth 15% of the daily rate."
}

func (t *CalculateTotalsTool) GetInputSchema() mcp.JSONSchema {
	count := func(desc string) map[string]interface{} {
		return map[string]interface{}{
			"type":        "integer",
			"description": desc,
			"default":     0,
		}
	}
	return mcp.JSONSchema{
		Type: "object",
		Properties: map[string]interface{}{
			"rateInState": map[string]string{
				"type":        "string",
				"description": "Daily rate inside the home state, as a decimal string",
			},
			"rateOutOfState": map[string]string{
				"type":        "string",
				"description": "Daily rate outside the home state, as a decimal string",
			},
			"daysInState":     count("Per-diem days inside the home state"),
			"mealsInState":    count("Meals inside the home state"),
			"daysOutOfState":  count("Per-diem days outside the home state"),
			"mealsOutOfState": count("Meals outside the home state"),
			"advance": map[string]string{
				"type":        "string",
				"description": "Per-diem advance already paid, as a decimal string",
				"default":     "0",
			},
		},
		Required: []string{"rateInState", "rateOutOfState"},
	}
}

// calculateTotalsArgs are the raw tool arguments. Amounts stay strings so a
// malformed number is reported by field instead of failing the whole decode.
type calculateTotalsArgs struct {
	RateInState     string `json:"rateInState" validate:"required,decimal_gte0"`
	RateOutOfState  string `json:"rateOutOfState" validate:"required,decimal_gte0"`
	DaysInState     int    `json:"daysInState" validate:"gte=0"`
	MealsInState    int    `json:"mealsInState" validate:"gte=0"`
	DaysOutOfState  int    `json:"daysOutOfState" validate:"gte=0"`
	MealsOutOfState int    `json:"mealsOutOfState" validate:"gte=0"`
	Advance         string `json:"advance,omitempty" validate:"omitempty,decimal_gte0"`
}

func (t *CalculateTotalsTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	var args calculateTotalsArgs
	if err := json.Unmarshal(arguments, &args); err != nil {
		return errorResult("Error parsing arguments: %v", err), nil
	}
	if err := t.validator.Validate(&args); err != nil {
		return validationResult(err), nil
	}

	var advance *reconciliation.AdvanceRecord
	if args.Advance != "" {
		advance = &reconciliation.AdvanceRecord{Amount: decimal.RequireFromString(strings.TrimSpace(args.Advance))}
	}

	totals := reconciliation.ComputeTotals(
		&reconciliation.RoleRate{
			RateInState:    decimal.RequireFromString(strings.TrimSpace(args.RateInState)),
			RateOutOfState: decimal.RequireFromString(strings.TrimSpace(args.RateOutOfState)),
		},
		&reconciliation.DailyCount{
			DaysInState:     args.DaysInState,
			MealsInState:    args.MealsInState,
			DaysOutOfState:  args.DaysOutOfState,
			MealsOutOfState: args.MealsOutOfState,
		},
		advance,
	)
	return jsonResult("Per-diem totals:", report.NewTotalsView(totals, t.formatter)), nil
}

// validationResult lists each rejected argument on its own line
func validationResult(err error) *mcp.CallToolResult {
	appErr := errors.AsAppError(err)
	if len(appErr.Details) == 0 {
		return errorResult("Invalid arguments: %v", err)
	}
	fields := make([]string, 0, len(appErr.Details))
	for field := range appErr.Details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("Invalid arguments:")
	for _, field := range fields {
		fmt.Fprintf(&b, "\n- %s %v", field, appErr.Details[field])
	}
	return errorResult("%s", b.String())
}
