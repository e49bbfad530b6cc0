package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	ulid "github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"

	commonErrors "github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/platform/dynamodb/client"
)

// DynamoDBRecordRepository implements the record.Repository interface.
// A record and all of its children share the partition RECORD#<id>:
//
//	SK RECORD              the record itself (GSI1PK RECORD for listing)
//	SK ADVANCE#<category>  at most one advance per category
//	SK DAILY_COUNT         the day and meal counts
//	SK DOCUMENT#<ulid>     receipts
//	SK TICKET#<ulid>       travel tickets
type DynamoDBRecordRepository struct {
	client client.Client
	table  string
	logger *slog.Logger
}

// NewDynamoDBRecordRepository creates a new DynamoDBRecordRepository
func NewDynamoDBRecordRepository(client client.Client, table string, logger *slog.Logger) *DynamoDBRecordRepository {
	return &DynamoDBRecordRepository{
		client: client,
		table:  table,
		logger: logger,
	}
}

// RecordDDB is the stored form of a record
type RecordDDB struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	GSI1PK      string    `dynamodbav:"GSI1PK"`
	GSI1SK      string    `dynamodbav:"GSI1SK"`
	Type        string    `dynamodbav:"Type"`
	RecordID    string    `dynamodbav:"recordId"`
	ServantID   string    `dynamodbav:"servantId"`
	PresidentID string    `dynamodbav:"presidentId"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
}

// AdvanceDDB is the stored form of an advance
type AdvanceDDB struct {
	PK               string    `dynamodbav:"PK"`
	SK               string    `dynamodbav:"SK"`
	Type             string    `dynamodbav:"Type"`
	RecordID         string    `dynamodbav:"recordId"`
	Category         string    `dynamodbav:"category"`
	Number           string    `dynamodbav:"number"`
	CommitmentNumber string    `dynamodbav:"commitmentNumber"`
	Amount           string    `dynamodbav:"amount"`
	Date             string    `dynamodbav:"date"`
	CreatedAt        time.Time `dynamodbav:"createdAt"`
}

// DailyCountDDB is the stored form of a daily count
type DailyCountDDB struct {
	PK              string    `dynamodbav:"PK"`
	SK              string    `dynamodbav:"SK"`
	Type            string    `dynamodbav:"Type"`
	RecordID        string    `dynamodbav:"recordId"`
	DaysInState     int       `dynamodbav:"daysInState"`
	MealsInState    int       `dynamodbav:"mealsInState"`
	DaysOutOfState  int       `dynamodbav:"daysOutOfState"`
	MealsOutOfState int       `dynamodbav:"mealsOutOfState"`
	CreatedAt       time.Time `dynamodbav:"createdAt"`
	UpdatedAt       time.Time `dynamodbav:"updatedAt"`
}

// DocumentDDB is the stored form of a receipt
type DocumentDDB struct {
	PK          string    `dynamodbav:"PK"`
	SK          string    `dynamodbav:"SK"`
	Type        string    `dynamodbav:"Type"`
	DocumentID  string    `dynamodbav:"documentId"`
	RecordID    string    `dynamodbav:"recordId"`
	DocType     string    `dynamodbav:"documentType"`
	Description string    `dynamodbav:"description"`
	Date        string    `dynamodbav:"date,omitempty"`
	Amount      string    `dynamodbav:"amount"`
	CreatedAt   time.Time `dynamodbav:"createdAt"`
}

// TicketDDB is the stored form of a travel ticket
type TicketDDB struct {
	PK        string    `dynamodbav:"PK"`
	SK        string    `dynamodbav:"SK"`
	Type      string    `dynamodbav:"Type"`
	TicketID  string    `dynamodbav:"ticketId"`
	RecordID  string    `dynamodbav:"recordId"`
	Ticket    string    `dynamodbav:"ticket"`
	Amount    string    `dynamodbav:"amount"`
	Direction string    `dynamodbav:"direction"`
	CreatedAt time.Time `dynamodbav:"createdAt"`
}

func recordPK(recordID string) string {
	return fmt.Sprintf("RECORD#%s", recordID)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, commonErrors.NewInternalError("invalid stored amount", err)
	}
	return d, nil
}

func (d RecordDDB) toRecord() record.Record {
	return record.Record{
		RecordID:    d.RecordID,
		ServantID:   d.ServantID,
		PresidentID: d.PresidentID,
		CreatedAt:   d.CreatedAt,
	}
}

func (d AdvanceDDB) toAdvance() (record.Advance, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return record.Advance{}, err
	}
	return record.Advance{
		RecordID:         d.RecordID,
		Category:         record.AdvanceCategory(d.Category),
		Number:           d.Number,
		CommitmentNumber: d.CommitmentNumber,
		Amount:           amount,
		Date:             d.Date,
		CreatedAt:        d.CreatedAt,
	}, nil
}

func (d DailyCountDDB) toDailyCount() *record.DailyCount {
	return &record.DailyCount{
		RecordID:        d.RecordID,
		DaysInState:     d.DaysInState,
		MealsInState:    d.MealsInState,
		DaysOutOfState:  d.DaysOutOfState,
		MealsOutOfState: d.MealsOutOfState,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

func (d DocumentDDB) toDocument() (record.Document, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return record.Document{}, err
	}
	return record.Document{
		DocumentID:  d.DocumentID,
		RecordID:    d.RecordID,
		Type:        d.DocType,
		Description: d.Description,
		Date:        d.Date,
		Amount:      amount,
		CreatedAt:   d.CreatedAt,
	}, nil
}

func (d TicketDDB) toTicket() (record.TicketExpense, error) {
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return record.TicketExpense{}, err
	}
	return record.TicketExpense{
		TicketID:  d.TicketID,
		RecordID:  d.RecordID,
		Ticket:    d.Ticket,
		Amount:    amount,
		Direction: record.TicketDirection(d.Direction),
		CreatedAt: d.CreatedAt,
	}, nil
}

// put writes one item; with onlyNew set an existing item becomes a CONFLICT error.
func (r *DynamoDBRecordRepository) put(ctx context.Context, v interface{}, onlyNew bool, what string) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return commonErrors.NewInternalError("failed to marshal "+what, err)
	}

	input := &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item:      item,
	}
	if onlyNew {
		input.ConditionExpression = aws.String("attribute_not_exists(PK)")
	}

	if _, err := r.client.PutItem(ctx, input); err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewConflictError(what + " already exists")
		}
		return commonErrors.NewInternalError("failed to store "+what, err)
	}
	return nil
}

func (r *DynamoDBRecordRepository) queryPrefix(ctx context.Context, recordID, prefix string) ([]map[string]types.AttributeValue, error) {
	keyCondition := expression.Key("PK").Equal(expression.Value(recordPK(recordID))).
		And(expression.Key("SK").BeginsWith(prefix))
	return queryAll(ctx, r.client, r.table, "", keyCondition, true)
}

func (r *DynamoDBRecordRepository) deleteChild(ctx context.Context, recordID, sk, what string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.table),
		Key:                 keyOf(recordPK(recordID), sk),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionFailed(err) {
			return commonErrors.NewNotFoundError(what + " not found")
		}
		return commonErrors.NewInternalError("failed to delete "+what, err)
	}
	return nil
}

// CreateRecord stores a new record, assigning its ID
func (r *DynamoDBRecordRepository) CreateRecord(ctx context.Context, rec *record.Record) error {
	if rec.RecordID == "" {
		rec.RecordID = ulid.Make().String()
	}
	rec.CreatedAt = time.Now().UTC()

	err := r.put(ctx, RecordDDB{
		PK:          recordPK(rec.RecordID),
		SK:          "RECORD",
		GSI1PK:      "RECORD",
		GSI1SK:      recordPK(rec.RecordID),
		Type:        typeRecord,
		RecordID:    rec.RecordID,
		ServantID:   rec.ServantID,
		PresidentID: rec.PresidentID,
		CreatedAt:   rec.CreatedAt,
	}, true, "record")
	if err != nil {
		return err
	}

	r.logger.Info("record created", "recordId", rec.RecordID, "servantId", rec.ServantID)
	return nil
}

// GetRecord retrieves a record without its children
func (r *DynamoDBRecordRepository) GetRecord(ctx context.Context, recordID string) (*record.Record, error) {
	item, err := getItem(ctx, r.client, r.table, recordPK(recordID), "RECORD", "record not found")
	if err != nil {
		return nil, err
	}

	var d RecordDDB
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal record", err)
	}
	rec := d.toRecord()
	return &rec, nil
}

// ListRecords returns every record, newest first
func (r *DynamoDBRecordRepository) ListRecords(ctx context.Context) ([]record.Record, error) {
	items, err := queryAll(ctx, r.client, r.table, "GSI1",
		expression.Key("GSI1PK").Equal(expression.Value("RECORD")), false)
	if err != nil {
		return nil, err
	}

	var stored []RecordDDB
	if err := attributevalue.UnmarshalListOfMaps(items, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal records", err)
	}

	records := make([]record.Record, 0, len(stored))
	for _, d := range stored {
		records = append(records, d.toRecord())
	}
	return records, nil
}

// GetSnapshot reads the whole partition of a record in one query
func (r *DynamoDBRecordRepository) GetSnapshot(ctx context.Context, recordID string) (*record.Snapshot, error) {
	items, err := queryAll(ctx, r.client, r.table, "",
		expression.Key("PK").Equal(expression.Value(recordPK(recordID))), true)
	if err != nil {
		return nil, err
	}

	snapshot := &record.Snapshot{
		Advances:  []record.Advance{},
		Documents: []record.Document{},
		Tickets:   []record.TicketExpense{},
	}
	found := false

	for _, item := range items {
		itemType := typeOf(item)
		switch itemType {
		case typeRecord:
			var d RecordDDB
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal record", err)
			}
			snapshot.Record = d.toRecord()
			found = true
		case typeAdvance:
			var d AdvanceDDB
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal advance", err)
			}
			a, err := d.toAdvance()
			if err != nil {
				return nil, err
			}
			snapshot.Advances = append(snapshot.Advances, a)
		case typeCount:
			var d DailyCountDDB
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal daily count", err)
			}
			snapshot.DailyCount = d.toDailyCount()
		case typeDocument:
			var d DocumentDDB
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal document", err)
			}
			doc, err := d.toDocument()
			if err != nil {
				return nil, err
			}
			snapshot.Documents = append(snapshot.Documents, doc)
		case typeTicket:
			var d TicketDDB
			if err := attributevalue.UnmarshalMap(item, &d); err != nil {
				return nil, commonErrors.NewInternalError("failed to unmarshal ticket", err)
			}
			t, err := d.toTicket()
			if err != nil {
				return nil, err
			}
			snapshot.Tickets = append(snapshot.Tickets, t)
		default:
			r.logger.Warn("unexpected item in record partition", "recordId", recordID, "type", itemType)
		}
	}

	if !found {
		return nil, commonErrors.NewNotFoundError("record not found")
	}
	return snapshot, nil
}

func typeOf(item map[string]types.AttributeValue) string {
	if v, ok := item["Type"].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

// CreateAdvance stores the advance of one category
func (r *DynamoDBRecordRepository) CreateAdvance(ctx context.Context, a *record.Advance) error {
	a.CreatedAt = time.Now().UTC()

	err := r.put(ctx, AdvanceDDB{
		PK:               recordPK(a.RecordID),
		SK:               fmt.Sprintf("ADVANCE#%s", a.Category),
		Type:             typeAdvance,
		RecordID:         a.RecordID,
		Category:         string(a.Category),
		Number:           a.Number,
		CommitmentNumber: a.CommitmentNumber,
		Amount:           a.Amount.String(),
		Date:             a.Date,
		CreatedAt:        a.CreatedAt,
	}, true, fmt.Sprintf("%s advance", a.Category))
	return err
}

// ListAdvances returns the advances of a record
func (r *DynamoDBRecordRepository) ListAdvances(ctx context.Context, recordID string) ([]record.Advance, error) {
	items, err := r.queryPrefix(ctx, recordID, "ADVANCE#")
	if err != nil {
		return nil, err
	}

	var stored []AdvanceDDB
	if err := attributevalue.UnmarshalListOfMaps(items, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal advances", err)
	}

	advances := make([]record.Advance, 0, len(stored))
	for _, d := range stored {
		a, err := d.toAdvance()
		if err != nil {
			return nil, err
		}
		advances = append(advances, a)
	}
	return advances, nil
}

func toDailyCountDDB(d *record.DailyCount) DailyCountDDB {
	return DailyCountDDB{
		PK:              recordPK(d.RecordID),
		SK:              "DAILY_COUNT",
		Type:            typeCount,
		RecordID:        d.RecordID,
		DaysInState:     d.DaysInState,
		MealsInState:    d.MealsInState,
		DaysOutOfState:  d.DaysOutOfState,
		MealsOutOfState: d.MealsOutOfState,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// CreateDailyCount stores the first count of a record
func (r *DynamoDBRecordRepository) CreateDailyCount(ctx context.Context, d *record.DailyCount) error {
	return r.put(ctx, toDailyCountDDB(d), true, "daily count")
}

// PutDailyCount creates or overwrites the count of a record
func (r *DynamoDBRecordRepository) PutDailyCount(ctx context.Context, d *record.DailyCount) error {
	return r.put(ctx, toDailyCountDDB(d), false, "daily count")
}

// GetDailyCount retrieves the count of a record
func (r *DynamoDBRecordRepository) GetDailyCount(ctx context.Context, recordID string) (*record.DailyCount, error) {
	item, err := getItem(ctx, r.client, r.table, recordPK(recordID), "DAILY_COUNT", "daily count not found")
	if err != nil {
		return nil, err
	}

	var d DailyCountDDB
	if err := attributevalue.UnmarshalMap(item, &d); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal daily count", err)
	}
	return d.toDailyCount(), nil
}

// CreateDocument stores a receipt, assigning its ID
func (r *DynamoDBRecordRepository) CreateDocument(ctx context.Context, d *record.Document) error {
	if d.DocumentID == "" {
		d.DocumentID = ulid.Make().String()
	}
	d.CreatedAt = time.Now().UTC()

	return r.put(ctx, DocumentDDB{
		PK:          recordPK(d.RecordID),
		SK:          fmt.Sprintf("DOCUMENT#%s", d.DocumentID),
		Type:        typeDocument,
		DocumentID:  d.DocumentID,
		RecordID:    d.RecordID,
		DocType:     d.Type,
		Description: d.Description,
		Date:        d.Date,
		Amount:      d.Amount.String(),
		CreatedAt:   d.CreatedAt,
	}, true, "document")
}

// ListDocuments returns the receipts of a record in creation order
func (r *DynamoDBRecordRepository) ListDocuments(ctx context.Context, recordID string) ([]record.Document, error) {
	items, err := r.queryPrefix(ctx, recordID, "DOCUMENT#")
	if err != nil {
		return nil, err
	}

	var stored []DocumentDDB
	if err := attributevalue.UnmarshalListOfMaps(items, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal documents", err)
	}

	docs := make([]record.Document, 0, len(stored))
	for _, d := range stored {
		doc, err := d.toDocument()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// DeleteDocument removes a receipt
func (r *DynamoDBRecordRepository) DeleteDocument(ctx context.Context, recordID, documentID string) error {
	return r.deleteChild(ctx, recordID, fmt.Sprintf("DOCUMENT#%s", documentID), "document")
}

// CreateTicket stores a travel ticket, assigning its ID
func (r *DynamoDBRecordRepository) CreateTicket(ctx context.Context, t *record.TicketExpense) error {
	if t.TicketID == "" {
		t.TicketID = ulid.Make().String()
	}
	t.CreatedAt = time.Now().UTC()

	return r.put(ctx, TicketDDB{
		PK:        recordPK(t.RecordID),
		SK:        fmt.Sprintf("TICKET#%s", t.TicketID),
		Type:      typeTicket,
		TicketID:  t.TicketID,
		RecordID:  t.RecordID,
		Ticket:    t.Ticket,
		Amount:    t.Amount.String(),
		Direction: string(t.Direction),
		CreatedAt: t.CreatedAt,
	}, true, "ticket")
}

// ListTickets returns the tickets of a record in creation order
func (r *DynamoDBRecordRepository) ListTickets(ctx context.Context, recordID string) ([]record.TicketExpense, error) {
	items, err := r.queryPrefix(ctx, recordID, "TICKET#")
	if err != nil {
		return nil, err
	}

	var stored []TicketDDB
	if err := attributevalue.UnmarshalListOfMaps(items, &stored); err != nil {
		return nil, commonErrors.NewInternalError("failed to unmarshal tickets", err)
	}

	tickets := make([]record.TicketExpense, 0, len(stored))
	for _, d := range stored {
		t, err := d.toTicket()
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

// DeleteTicket removes a travel ticket
func (r *DynamoDBRecordRepository) DeleteTicket(ctx context.Context, recordID, ticketID string) error {
	return r.deleteChild(ctx, recordID, fmt.Sprintf("TICKET#%s", ticketID), "ticket")
}
