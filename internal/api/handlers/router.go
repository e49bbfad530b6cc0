package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"github.com/hirosato/prestacao-contas/backend/internal/api/response"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
	"github.com/hirosato/prestacao-contas/backend/internal/report"
)

// Services groups the domain services the API exposes
type Services struct {
	Roles      *role.Service
	Servants   *servant.Service
	Presidents *president.Service
	Records    *record.Service
	Reports    *report.Service
}

// Router dispatches API Gateway requests to handlers
type Router struct {
	roles          *RoleHandler
	servants       *ServantHandler
	presidents     *PresidentHandler
	records        *RecordHandler
	reconciliation *ReconciliationHandler
}

// NewRouter creates a router over the given services
func NewRouter(services Services) *Router {
	return &Router{
		roles:          NewRoleHandler(services.Roles),
		servants:       NewServantHandler(services.Servants),
		presidents:     NewPresidentHandler(services.Presidents),
		records:        NewRecordHandler(services.Records),
		reconciliation: NewReconciliationHandler(services.Reports),
	}
}

type route map[string]func(context.Context, *slog.Logger, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

func splitPath(path string) []string {
	path = strings.TrimPrefix(path, "/api")
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Handle routes the request by method and path
func (r *Router) Handle(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    response.DefaultHeaders(),
		}, nil
	}

	segments := splitPath(request.Path)
	params := make(map[string]string, len(request.PathParameters)+2)
	for k, v := range request.PathParameters {
		params[k] = v
	}
	request.PathParameters = params

	routes := r.match(segments, params)
	if routes == nil {
		return response.NotFound("Endpoint not found", requestID(request)), nil
	}
	h, ok := routes[request.HTTPMethod]
	if !ok {
		return response.MethodNotAllowed(request.HTTPMethod, request.Path, requestID(request)), nil
	}
	return h(ctx, logger, request)
}

// match resolves the path to the handlers it accepts, filling params
func (r *Router) match(segments []string, params map[string]string) route {
	switch len(segments) {
	case 1:
		switch segments[0] {
		case "health":
			return route{http.MethodGet: health}
		case "roles":
			return route{http.MethodGet: r.roles.List, http.MethodPost: r.roles.Create}
		case "servants":
			return route{http.MethodGet: r.servants.List, http.MethodPost: r.servants.Create}
		case "presidents":
			return route{http.MethodGet: r.presidents.List, http.MethodPost: r.presidents.Create}
		case "records":
			return route{http.MethodGet: r.records.List, http.MethodPost: r.records.Create}
		}
	case 2:
		params["id"] = segments[1]
		switch segments[0] {
		case "roles":
			return route{http.MethodGet: r.roles.Get, http.MethodPut: r.roles.Update}
		case "servants":
			return route{http.MethodGet: r.servants.Get}
		case "presidents":
			return route{http.MethodGet: r.presidents.Get}
		case "records":
			return route{http.MethodGet: r.records.Get}
		}
	case 3:
		if segments[0] != "records" {
			return nil
		}
		params["id"] = segments[1]
		switch segments[2] {
		case "advances":
			return route{http.MethodGet: r.records.ListAdvances, http.MethodPost: r.records.AddAdvance}
		case "daily-count":
			return route{
				http.MethodGet:  r.records.GetDailyCount,
				http.MethodPost: r.records.CreateDailyCount,
				http.MethodPut:  r.records.PutDailyCount,
			}
		case "documents":
			return route{http.MethodGet: r.records.ListDocuments, http.MethodPost: r.records.AddDocument}
		case "tickets":
			return route{http.MethodGet: r.records.ListTickets, http.MethodPost: r.records.AddTicket}
		case "totals":
			return route{http.MethodGet: r.reconciliation.Totals}
		case "ticket-summary":
			return route{http.MethodGet: r.reconciliation.TicketSummary}
		}
	case 4:
		if segments[0] != "records" {
			return nil
		}
		params["id"] = segments[1]
		switch segments[2] {
		case "documents":
			params["docId"] = segments[3]
			return route{http.MethodDelete: r.records.DeleteDocument}
		case "tickets":
			params["ticketId"] = segments[3]
			return route{http.MethodDelete: r.records.DeleteTicket}
		case "reports":
			params["kind"] = segments[3]
			return route{http.MethodGet: r.reconciliation.Report}
		}
	}
	return nil
}

func health(ctx context.Context, logger *slog.Logger, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return response.OK(map[string]string{"status": "ok"}, requestID(request)), nil
}
