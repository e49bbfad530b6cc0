package prompts

import (
	"context"
	"fmt"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/mcp"
)

// ReviewReconciliationPrompt asks the model to audit one record before it is signed
type ReviewReconciliationPrompt struct{}

func (p *ReviewReconciliationPrompt) GetName() string {
	return "review-reconciliation"
}

func (p *ReviewReconciliationPrompt) GetDescription() string {
	return "Review a reconciliation record: check the totals, the tickets and the supporting documents"
}

func (p *ReviewReconciliationPrompt) GetArguments() []mcp.PromptArgument {
	return []mcp.PromptArgument{
		{
			Name:        "recordId",
			Description: "The record to review",
			Required:    true,
		},
		{
			Name:        "focus",
			Description: "What to look at first (e.g. 'tickets', 'documents')",
			Required:    false,
		},
	}
}

func (p *ReviewReconciliationPrompt) GetPrompt(ctx context.Context, arguments map[string]string) (*mcp.GetPromptResult, error) {
	recordID := arguments["recordId"]
	if recordID == "" {
		return nil, fmt.Errorf("recordId argument is required")
	}

	focus := "the whole record"
	if f := arguments["focus"]; f != "" {
		focus = f
	}

	messages := []mcp.PromptMessage{
		{
			Role: "user",
			Content: mcp.PromptContent{
				Type: "text",
				Text: fmt.Sprintf(`Review the travel allowance reconciliation of record %s, focusing on %s.

Check that:
1. The per-diem totals match the role rates and the daily count (meals are 15%% of the daily rate)
2. A negative difference is returned by the servant, a positive one is owed to them
3. The tickets add up and any unused travel-ticket advance is returned
4. Every expense has a supporting document

Use the compute-reconciliation-totals and get-ticket-summary tools for the figures.`, recordID, focus),
			},
		},
		{
			Role: "user",
			Content: mcp.PromptContent{
				Type: "resource",
				Resource: &mcp.PromptResource{
					URI:      "prestacao://records/" + recordID,
					MimeType: "application/json",
					Text:     "The record with its advances, daily count, documents and tickets",
				},
			},
		},
	}

	return &mcp.GetPromptResult{
		Description: "Review of record " + recordID,
		Messages:    messages,
	}, nil
}
