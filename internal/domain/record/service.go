package record

import (
	"context"
	"strings"
	"time"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
	"github.com/hirosato/prestacao-contas/backend/pkg/validator"
)

// ServantGetter looks up the servant a record belongs to
type ServantGetter interface {
	GetServant(ctx context.Context, servantID string) (*servant.Servant, error)
}

// PresidentGetter looks up the president who judges a record
type PresidentGetter interface {
	GetPresident(ctx context.Context, presidentID string) (*president.President, error)
}

// Service provides reconciliation-record business logic
type Service struct {
	repo       Repository
	servants   ServantGetter
	presidents PresidentGetter
	validator  validator.Validator
}

// NewService creates a new record service
func NewService(repo Repository, servants ServantGetter, presidents PresidentGetter, v validator.Validator) *Service {
	return &Service{
		repo:       repo,
		servants:   servants,
		presidents: presidents,
		validator:  v,
	}
}

// CreateRecord opens a record for an existing servant and president
func (s *Service) CreateRecord(ctx context.Context, req *CreateRecordRequest) (*Record, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.servants.GetServant(ctx, req.ServantID); err != nil {
		return nil, err
	}
	if _, err := s.presidents.GetPresident(ctx, req.PresidentID); err != nil {
		return nil, err
	}

	r := &Record{
		ServantID:   req.ServantID,
		PresidentID: req.PresidentID,
	}
	if err := s.repo.CreateRecord(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListRecords returns every record, newest first
func (s *Service) ListRecords(ctx context.Context) ([]Record, error) {
	return s.repo.ListRecords(ctx)
}

// GetSnapshot returns the record with all of its children
func (s *Service) GetSnapshot(ctx context.Context, recordID string) (*Snapshot, error) {
	return s.repo.GetSnapshot(ctx, recordID)
}

// GetRecord returns the record detail: its children plus servant and president.
func (s *Service) GetRecord(ctx context.Context, recordID string) (*Detail, error) {
	snapshot, err := s.repo.GetSnapshot(ctx, recordID)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Snapshot: *snapshot}
	detail.Servant, err = s.servants.GetServant(ctx, snapshot.Record.ServantID)
	if err != nil {
		return nil, err
	}
	detail.President, err = s.presidents.GetPresident(ctx, snapshot.Record.PresidentID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// AddAdvance registers the advance of one category. A record holds at most one
// advance per category.
func (s *Service) AddAdvance(ctx context.Context, recordID string, req *CreateAdvanceRequest) (*Advance, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}

	a := &Advance{
		RecordID:         recordID,
		Category:         req.Category,
		Number:           strings.TrimSpace(req.Number),
		CommitmentNumber: strings.TrimSpace(req.CommitmentNumber),
		Amount:           *req.Amount,
		Date:             req.Date,
	}
	if err := s.repo.CreateAdvance(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// ListAdvances returns the advances of a record
func (s *Service) ListAdvances(ctx context.Context, recordID string) ([]Advance, error) {
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListAdvances(ctx, recordID)
}

// CreateDailyCount stores the first count of a record
func (s *Service) CreateDailyCount(ctx context.Context, recordID string, req *DailyCountRequest) (*DailyCount, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}

	d := newDailyCount(recordID, req)
	if err := s.repo.CreateDailyCount(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// GetDailyCount returns the count of a record
func (s *Service) GetDailyCount(ctx context.Context, recordID string) (*DailyCount, error) {
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}
	return s.repo.GetDailyCount(ctx, recordID)
}

// UpsertDailyCount creates or replaces the count of a record, keeping the original CreatedAt.
func (s *Service) UpsertDailyCount(ctx context.Context, recordID string, req *DailyCountRequest) (*DailyCount, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}

	d := newDailyCount(recordID, req)
	existing, err := s.repo.GetDailyCount(ctx, recordID)
	switch {
	case err == nil:
		d.CreatedAt = existing.CreatedAt
	case errors.IsNotFound(err):
	default:
		return nil, err
	}

	if err := s.repo.PutDailyCount(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func newDailyCount(recordID string, req *DailyCountRequest) *DailyCount {
	now := time.Now().UTC()
	return &DailyCount{
		RecordID:        recordID,
		DaysInState:     req.DaysInState,
		MealsInState:    req.MealsInState,
		DaysOutOfState:  req.DaysOutOfState,
		MealsOutOfState: req.MealsOutOfState,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AddDocument attaches a receipt to a record
func (s *Service) AddDocument(ctx context.Context, recordID string, req *CreateDocumentRequest) (*Document, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}

	d := &Document{
		RecordID:    recordID,
		Type:        strings.TrimSpace(req.Type),
		Description: strings.TrimSpace(req.Description),
		Date:        req.Date,
		Amount:      req.Amount,
	}
	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// ListDocuments returns the receipts of a record
func (s *Service) ListDocuments(ctx context.Context, recordID string) ([]Document, error) {
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListDocuments(ctx, recordID)
}

// DeleteDocument removes a receipt
func (s *Service) DeleteDocument(ctx context.Context, recordID, documentID string) error {
	return s.repo.DeleteDocument(ctx, recordID, documentID)
}

// AddTicket registers a ticket bought with the travel-ticket advance
func (s *Service) AddTicket(ctx context.Context, recordID string, req *CreateTicketRequest) (*TicketExpense, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}

	t := &TicketExpense{
		RecordID:  recordID,
		Ticket:    strings.TrimSpace(req.Ticket),
		Amount:    *req.Amount,
		Direction: req.Direction,
	}
	if err := s.repo.CreateTicket(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ListTickets returns the tickets of a record
func (s *Service) ListTickets(ctx context.Context, recordID string) ([]TicketExpense, error) {
	if err := s.ensureRecord(ctx, recordID); err != nil {
		return nil, err
	}
	return s.repo.ListTickets(ctx, recordID)
}

// DeleteTicket removes a ticket
func (s *Service) DeleteTicket(ctx context.Context, recordID, ticketID string) error {
	return s.repo.DeleteTicket(ctx, recordID, ticketID)
}

func (s *Service) ensureRecord(ctx context.Context, recordID string) error {
	if strings.TrimSpace(recordID) == "" {
		return errors.NewValidationError("record ID is required")
	}
	_, err := s.repo.GetRecord(ctx, recordID)
	return err
}
