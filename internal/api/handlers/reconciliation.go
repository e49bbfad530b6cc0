package handlers

import (
	"context"
	"log/slog"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/api/response"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
)

// ReconciliationHandler serves computed totals and reports
type ReconciliationHandler struct {
	reports *report.Service
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(reports *report.Service) *ReconciliationHandler {
	return &ReconciliationHandler{reports: reports}
}

// Totals handles GET /records/{id}/totals
func (h *ReconciliationHandler) Totals(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	totals, err := h.reports.Totals(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(totals, requestID(request)), nil
}

// TicketSummary handles GET /records/{id}/ticket-summary
func (h *ReconciliationHandler) TicketSummary(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	summary, err := h.reports.TicketSummary(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(summary, requestID(request)), nil
}

// Report handles GET /records/{id}/reports/{kind}. With ?format=xlsx the
// workbook is returned as a base64 attachment.
func (h *ReconciliationHandler) Report(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	kind, err := report.ParseKind(pathParam(request, "kind"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	format := strings.ToLower(request.QueryStringParameters["format"])
	if format != "" && format != "json" && format != "xlsx" {
		return events.APIGatewayProxyResponse{}, errors.NewValidationError("format must be json or xlsx").
			WithDetail("format", format)
	}

	r, err := h.reports.Generate(ctx, pathParam(request, "id"), kind)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}

	if format == "xlsx" {
		data, err := report.XLSX(r)
		if err != nil {
			return events.APIGatewayProxyResponse{}, errors.NewInternalError("failed to render workbook", err)
		}
		logger.Info("report exported", "recordId", r.RecordID, "kind", string(kind), "bytes", len(data))
		return response.Attachment(data, report.ContentTypeXLSX, report.Filename(r)), nil
	}
	return response.OK(r, requestID(request)), nil
}
