package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/api/response"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
)

// RecordHandler handles /records and the inputs attached to a record
type RecordHandler struct {
	service *record.Service
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(service *record.Service) *RecordHandler {
	return &RecordHandler{service: service}
}

// List handles GET /records
func (h *RecordHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	records, err := h.service.ListRecords(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(records, requestID(request)), nil
}

// Create handles POST /records
func (h *RecordHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.CreateRecordRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	rec, err := h.service.CreateRecord(ctx, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	logger.Info("record created", "recordId", rec.RecordID)
	return response.Created(rec, requestID(request)), nil
}

// Get handles GET /records/{id}
func (h *RecordHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	detail, err := h.service.GetRecord(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(detail, requestID(request)), nil
}

// ListAdvances handles GET /records/{id}/advances
func (h *RecordHandler) ListAdvances(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	advances, err := h.service.ListAdvances(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(advances, requestID(request)), nil
}

// AddAdvance handles POST /records/{id}/advances
func (h *RecordHandler) AddAdvance(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.CreateAdvanceRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	adv, err := h.service.AddAdvance(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(adv, requestID(request)), nil
}

// GetDailyCount handles GET /records/{id}/daily-count
func (h *RecordHandler) GetDailyCount(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	dc, err := h.service.GetDailyCount(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(dc, requestID(request)), nil
}

// CreateDailyCount handles POST /records/{id}/daily-count
func (h *RecordHandler) CreateDailyCount(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.DailyCountRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	dc, err := h.service.CreateDailyCount(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(dc, requestID(request)), nil
}

// PutDailyCount handles PUT /records/{id}/daily-count
func (h *RecordHandler) PutDailyCount(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.DailyCountRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	dc, err := h.service.UpsertDailyCount(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(dc, requestID(request)), nil
}

// ListDocuments handles GET /records/{id}/documents
func (h *RecordHandler) ListDocuments(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	docs, err := h.service.ListDocuments(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(docs, requestID(request)), nil
}

// AddDocument handles POST /records/{id}/documents
func (h *RecordHandler) AddDocument(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.CreateDocumentRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	doc, err := h.service.AddDocument(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(doc, requestID(request)), nil
}

// DeleteDocument handles DELETE /records/{id}/documents/{docId}
func (h *RecordHandler) DeleteDocument(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.DeleteDocument(ctx, pathParam(request, "id"), pathParam(request, "docId")); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}

// ListTickets handles GET /records/{id}/tickets
func (h *RecordHandler) ListTickets(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	tickets, err := h.service.ListTickets(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(tickets, requestID(request)), nil
}

// AddTicket handles POST /records/{id}/tickets
func (h *RecordHandler) AddTicket(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req record.CreateTicketRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	t, err := h.service.AddTicket(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(t, requestID(request)), nil
}

// DeleteTicket handles DELETE /records/{id}/tickets/{ticketId}
func (h *RecordHandler) DeleteTicket(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if err := h.service.DeleteTicket(ctx, pathParam(request, "id"), pathParam(request, "ticketId")); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.NoContent(), nil
}
