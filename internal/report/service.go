package report

import (
	"context"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
)

// Reconciler computes the reconciliation of a stored record
type Reconciler interface {
	Reconcile(ctx context.Context, recordID string) (*reconciliation.Reconciliation, error)
}

// PresidentGetter looks up the president of a record
type PresidentGetter interface {
	GetPresident(ctx context.Context, presidentID string) (*president.President, error)
}

// Service builds reports for stored records
type Service struct {
	reconciler Reconciler
	presidents PresidentGetter
	formatter  *Formatter
}

// NewService creates a new report service
func NewService(reconciler Reconciler, presidents PresidentGetter, formatter *Formatter) *Service {
	return &Service{
		reconciler: reconciler,
		presidents: presidents,
		formatter:  formatter,
	}
}

// Formatter returns the formatter reports are rendered with
func (s *Service) Formatter() *Formatter {
	return s.formatter
}

// Generate builds the report of the given kind for a record
func (s *Service) Generate(ctx context.Context, recordID string, kind Kind) (*Report, error) {
	rec, err := s.reconciler.Reconcile(ctx, recordID)
	if err != nil {
		return nil, err
	}

	in := Input{Reconciliation: rec}
	if kind == KindOpinion {
		in.President, err = s.presidents.GetPresident(ctx, rec.Snapshot.Record.PresidentID)
		if err != nil {
			return nil, err
		}
	}
	return Build(kind, in, s.formatter)
}

// Totals returns the formatted per-diem totals of a record
func (s *Service) Totals(ctx context.Context, recordID string) (*TotalsView, error) {
	rec, err := s.reconciler.Reconcile(ctx, recordID)
	if err != nil {
		return nil, err
	}
	v := NewTotalsView(rec.Totals, s.formatter)
	return &v, nil
}

// TicketSummary returns the formatted ticket summary of a record
func (s *Service) TicketSummary(ctx context.Context, recordID string) (*TicketSummaryView, error) {
	rec, err := s.reconciler.Reconcile(ctx, recordID)
	if err != nil {
		return nil, err
	}
	v := NewTicketSummaryView(rec.Tickets, s.formatter)
	return &v, nil
}
