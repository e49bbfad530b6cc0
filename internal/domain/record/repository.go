package record

import "context"

// Repository defines the interface for reconciliation record data operations.
// Children (advances, daily count, documents, tickets) live under their record.
type Repository interface {
	CreateRecord(ctx context.Context, r *Record) error
	GetRecord(ctx context.Context, recordID string) (*Record, error)
	ListRecords(ctx context.Context) ([]Record, error)

	// GetSnapshot reads the record and all of its children at once
	GetSnapshot(ctx context.Context, recordID string) (*Snapshot, error)

	// CreateAdvance fails with CONFLICT when the record already has an advance of that category
	CreateAdvance(ctx context.Context, a *Advance) error
	ListAdvances(ctx context.Context, recordID string) ([]Advance, error)

	// CreateDailyCount fails with CONFLICT when a count exists; PutDailyCount overwrites
	CreateDailyCount(ctx context.Context, d *DailyCount) error
	PutDailyCount(ctx context.Context, d *DailyCount) error
	GetDailyCount(ctx context.Context, recordID string) (*DailyCount, error)

	CreateDocument(ctx context.Context, d *Document) error
	ListDocuments(ctx context.Context, recordID string) ([]Document, error)
	DeleteDocument(ctx context.Context, recordID, documentID string) error

	CreateTicket(ctx context.Context, t *TicketExpense) error
	ListTickets(ctx context.Context, recordID string) ([]TicketExpense, error)
	DeleteTicket(ctx context.Context, recordID, ticketID string) error
}
