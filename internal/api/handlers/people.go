package handlers

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/api/response"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

// RoleHandler handles /roles
type RoleHandler struct {
	service *role.Service
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(service *role.Service) *RoleHandler {
	return &RoleHandler{service: service}
}

// List handles GET /roles
func (h *RoleHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	roles, err := h.service.ListRoles(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(roles, requestID(request)), nil
}

// Create handles POST /roles
func (h *RoleHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req role.CreateRoleRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	r, err := h.service.CreateRole(ctx, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(r, requestID(request)), nil
}

// Get handles GET /roles/{id}
func (h *RoleHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	r, err := h.service.GetRole(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(r, requestID(request)), nil
}

// Update handles PUT /roles/{id}
func (h *RoleHandler) Update(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req role.UpdateRoleRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	r, err := h.service.UpdateRole(ctx, pathParam(request, "id"), &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(r, requestID(request)), nil
}

// ServantHandler handles /servants
type ServantHandler struct {
	service *servant.Service
}

// NewServantHandler creates a new servant handler
func NewServantHandler(service *servant.Service) *ServantHandler {
	return &ServantHandler{service: service}
}

// List handles GET /servants
func (h *ServantHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	servants, err := h.service.ListServants(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(servants, requestID(request)), nil
}

// Create handles POST /servants
func (h *ServantHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req servant.CreateServantRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	s, err := h.service.CreateServant(ctx, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(s, requestID(request)), nil
}

// Get handles GET /servants/{id}
func (h *ServantHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	s, err := h.service.GetServant(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(s, requestID(request)), nil
}

// PresidentHandler handles /presidents
type PresidentHandler struct {
	service *president.Service
}

// NewPresidentHandler creates a new president handler
func NewPresidentHandler(service *president.Service) *PresidentHandler {
	return &PresidentHandler{service: service}
}

// List handles GET /presidents
func (h *PresidentHandler) List(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	presidents, err := h.service.ListPresidents(ctx)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(presidents, requestID(request)), nil
}

// Create handles POST /presidents
func (h *PresidentHandler) Create(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req president.CreatePresidentRequest
	if err := decodeBody(request, &req); err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	p, err := h.service.CreatePresident(ctx, &req)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.Created(p, requestID(request)), nil
}

// Get handles GET /presidents/{id}
func (h *PresidentHandler) Get(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	p, err := h.service.GetPresident(ctx, pathParam(request, "id"))
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return response.OK(p, requestID(request)), nil
}
