package tools

import (
	"context"
	"encoding/json"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
)

// Reporter computes the formatted reconciliation views of a stored record
type Reporter interface {
	Totals(ctx context.Context, recordID string) (*report.TotalsView, error)
	TicketSummary(ctx context.Context, recordID string) (*report.TicketSummaryView, error)
}

// ComputeReconciliationTotalsTool reconciles the per-diem advance of a stored record
type ComputeReconciliationTotalsTool struct {
	reports Reporter
}

func NewComputeReconciliationTotalsTool(reports Reporter) *ComputeReconciliationTotalsTool {
	return &ComputeReconciliationTotalsTool{reports: reports}
}

func (t *ComputeReconciliationTotalsTool) GetName() string {
	return "compute-reconciliation-totals"
}

func (t *ComputeReconciliationTotalsTool) GetDescription() string {
	return "Computes the per-diem totals of a stored record from its servant's role rates, the daily count and the per-diem advance"
}

func (t *ComputeReconciliationTotalsTool) GetInputSchema() mcp.JSONSchema {
	return recordIDSchema()
}

func (t *ComputeReconciliationTotalsTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	recordID, bad := parseRecordID(arguments)
	if bad != nil {
		return bad, nil
	}

	totals, err := t.reports.Totals(ctx, recordID)
	if err != nil {
		return errorResult("Error computing totals: %v", err), nil
	}
	return jsonResult("Per-diem totals for record "+recordID+":", totals), nil
}

// GetTicketSummaryTool reconciles the travel-ticket advance of a stored record
type GetTicketSummaryTool struct {
	reports Reporter
}

func NewGetTicketSummaryTool(reports Reporter) *GetTicketSummaryTool {
	return &GetTicketSummaryTool{reports: reports}
}

func (t *GetTicketSummaryTool) GetName() string {
	return "get-ticket-summary"
}

func (t *GetTicketSummaryTool) GetDescription() string {
	return "Sums the travel tickets of a stored record and reports the amount to return from the travel-ticket advance"
}

func (t *GetTicketSummaryTool) GetInputSchema() mcp.JSONSchema {
	return recordIDSchema()
}

func (t *GetTicketSummaryTool) Execute(ctx context.Context, arguments json.RawMessage) (*mcp.CallToolResult, error) {
	recordID, bad := parseRecordID(arguments)
	if bad != nil {
		return bad, nil
	}

	summary, err := t.reports.TicketSummary(ctx, recordID)
	if err != nil {
		return errorResult("Error computing ticket summary: %v", err), nil
	}
	return jsonResult("Ticket summary for record "+recordID+":", summary), nil
}
