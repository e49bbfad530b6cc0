package reconciliation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

var tracer = otel.Tracer("prestacao-contas/reconciliation")

// SnapshotReader reads a record with all of its children
type SnapshotReader interface {
	GetSnapshot(ctx context.Context, recordID string) (*record.Snapshot, error)
}

// ServantReader reads the servant of a record
type ServantReader interface {
	GetServant(ctx context.Context, servantID string) (*servant.Servant, error)
}

// RoleReader finds a role by its exact name
type RoleReader interface {
	GetRoleByName(ctx context.Context, name string) (*role.Role, error)
}

// Reconciliation is the full outcome for one record, with the inputs that produced it.
type Reconciliation struct {
	Snapshot       *record.Snapshot
	Servant        *servant.Servant
	Role           *role.Role // nil when the servant's role is unknown
	PerDiemAdvance *AdvanceRecord
	TicketAdvance  *AdvanceRecord
	Totals         TotalsResult
	Tickets        TicketSummary
}

// Service gathers the engine inputs from storage and runs the engine
type Service struct {
	records  SnapshotReader
	servants ServantReader
	roles    RoleReader
}

// NewService creates a new reconciliation service
func NewService(records SnapshotReader, servants ServantReader, roles RoleReader) *Service {
	return &Service{
		records:  records,
		servants: servants,
		roles:    roles,
	}
}

// ComputeForRecord returns the per-diem totals of a record
func (s *Service) ComputeForRecord(ctx context.Context, recordID string) (*TotalsResult, error) {
	rec, err := s.Reconcile(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return &rec.Totals, nil
}

// ComputeTicketsForRecord returns the travel-ticket summary of a record
func (s *Service) ComputeTicketsForRecord(ctx context.Context, recordID string) (*TicketSummary, error) {
	rec, err := s.Reconcile(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return &rec.Tickets, nil
}

// Reconcile loads one consistent snapshot of the record and computes both
// reconciliations from it. A role that cannot be found is treated as absent,
// which makes the per-diem totals zero.
func (s *Service) Reconcile(ctx context.Context, recordID string) (_ *Reconciliation, err error) {
	ctx, span := tracer.Start(ctx, "reconciliation.Reconcile",
		trace.WithAttributes(attribute.String("record.id", recordID)))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	snapshot, err := s.records.GetSnapshot(ctx, recordID)
	if err != nil {
		return nil, err
	}

	sv, err := s.servants.GetServant(ctx, snapshot.Record.ServantID)
	if err != nil {
		return nil, err
	}

	var rate *RoleRate
	r, err := s.roles.GetRoleByName(ctx, sv.RoleName)
	switch {
	case err == nil:
		rate = &RoleRate{
			RoleName:       r.Name,
			RateInState:    r.RateInState,
			RateOutOfState: r.RateOutOfState,
		}
	case errors.IsNotFound(err):
		r = nil
		span.AddEvent("role not found", trace.WithAttributes(attribute.String("role.name", sv.RoleName)))
	default:
		return nil, err
	}

	var count *DailyCount
	if snapshot.DailyCount != nil {
		count = &DailyCount{
			DaysInState:     snapshot.DailyCount.DaysInState,
			MealsInState:    snapshot.DailyCount.MealsInState,
			DaysOutOfState:  snapshot.DailyCount.DaysOutOfState,
			MealsOutOfState: snapshot.DailyCount.MealsOutOfState,
		}
	}

	perDiem := SelectAdvance(snapshot.Advances, record.AdvancePerDiem)
	ticketAdvance := SelectAdvance(snapshot.Advances, record.AdvanceTravelTicket)

	tickets := make([]TicketExpense, 0, len(snapshot.Tickets))
	for _, t := range snapshot.Tickets {
		tickets = append(tickets, TicketExpense{Ticket: t.Ticket, Amount: t.Amount, Direction: t.Direction})
	}

	totals := ComputeTotals(rate, count, perDiem)
	span.SetAttributes(
		attribute.String("totals.grand_total", totals.GrandTotal.String()),
		attribute.String("totals.difference", totals.Difference.String()),
	)

	return &Reconciliation{
		Snapshot:       snapshot,
		Servant:        sv,
		Role:           r,
		PerDiemAdvance: perDiem,
		TicketAdvance:  ticketAdvance,
		Totals:         totals,
		Tickets:        ComputeTicketSummary(ticketAdvance, tickets),
	}, nil
}
