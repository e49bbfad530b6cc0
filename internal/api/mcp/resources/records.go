package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
)

const recordsURI = "prestacao://records"

// RecordReader is the part of the record service the resource needs
type RecordReader interface {
	ListRecords(ctx context.Context) ([]record.Record, error)
	GetRecord(ctx context.Context, recordID string) (*record.Detail, error)
}

// RecordsResource lists reconciliation records. prestacao://records/{recordId}
// returns one record with its advances, daily count, documents and tickets.
type RecordsResource struct {
	records RecordReader
}

func NewRecordsResource(records RecordReader) *RecordsResource {
	return &RecordsResource{records: records}
}

func (r *RecordsResource) GetURI() string {
	return recordsURI
}

func (r *RecordsResource) GetName() string {
	return "Reconciliation Records"
}

func (r *RecordsResource) GetDescription() string {
	return "Reconciliation records, newest first. Use " + recordsURI + "/{recordId} for one record with all of its inputs"
}

func (r *RecordsResource) GetMimeType() string {
	return "application/json"
}

func (r *RecordsResource) Read(ctx context.Context) (*mcp.ReadResourceResult, error) {
	records, err := r.records.ListRecords(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(recordsURI, r.GetMimeType(), records)
}

func (r *RecordsResource) ReadURI(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	recordID := strings.TrimPrefix(uri, recordsURI+"/")
	if recordID == "" || strings.Contains(recordID, "/") {
		return nil, fmt.Errorf("invalid record URI: %s", uri)
	}

	detail, err := r.records.GetRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	return jsonContents(uri, r.GetMimeType(), detail)
}

func jsonContents(uri, mimeType string, v interface{}) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []mcp.ResourceContent{
			{
				URI:      uri,
				MimeType: mimeType,
				Text:     string(data),
			},
		},
	}, nil
}
