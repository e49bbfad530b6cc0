package report

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/president"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/reconciliation"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleReconciliation() *reconciliation.Reconciliation {
	snapshot := &record.Snapshot{
		Record: record.Record{RecordID: "rec-1", ServantID: "srv-1", PresidentID: "pre-1"},
		Advances: []record.Advance{
			{Category: record.AdvancePerDiem, Number: "ADI-1", CommitmentNumber: "EMP-1", Amount: d("400"), Date: "2024-03-01"},
			{Category: record.AdvanceTravelTicket, Number: "ADI-2", CommitmentNumber: "EMP-2", Amount: d("250"), Date: "2024-03-01"},
		},
		DailyCount: &record.DailyCount{DaysInState: 3, MealsInState: 2},
		Documents: []record.Document{
			{Type: "Nota fiscal", Description: "Hotel", Date: "2024-03-02", Amount: d("180")},
		},
		Tickets: []record.TicketExpense{
			{Ticket: "BPE-1", Amount: d("110"), Direction: record.DirectionOutbound},
			{Ticket: "BPE-2", Amount: d("90"), Direction: record.DirectionReturn},
		},
	}
	rate := &reconciliation.RoleRate{RoleName: "Assessor", RateInState: d("100"), RateOutOfState: d("150")}
	perDiem := reconciliation.SelectAdvance(snapshot.Advances, record.AdvancePerDiem)
	ticketAdvance := reconciliation.SelectAdvance(snapshot.Advances, record.AdvanceTravelTicket)

	return &reconciliation.Reconciliation{
		Snapshot:       snapshot,
		Servant:        &servant.Servant{ServantID: "srv-1", Name: "Maria Souza", RoleName: "Assessor"},
		Role:           &role.Role{Name: "Assessor", RateInState: d("100"), RateOutOfState: d("150")},
		PerDiemAdvance: perDiem,
		TicketAdvance:  ticketAdvance,
		Totals:         reconciliation.ComputeTotals(rate, &reconciliation.DailyCount{DaysInState: 3, MealsInState: 2}, perDiem),
		Tickets: reconciliation.ComputeTicketSummary(ticketAdvance, []reconciliation.TicketExpense{
			{Ticket: "BPE-1", Amount: d("110")},
			{Ticket: "BPE-2", Amount: d("90")},
		}),
	}
}

func TestBuild_PerDiem(t *testing.T) {
	r, err := Build(KindPerDiem, Input{Reconciliation: sampleReconciliation()}, MustFormatter("pt-BR"))
	require.NoError(t, err)

	assert.Equal(t, "rec-1", r.RecordID)
	assert.Equal(t, "Maria Souza", r.Servant.Name)
	require.NotNil(t, r.Advance)
	assert.Equal(t, "ADI-1", r.Advance.Number)
	require.NotNil(t, r.Totals)
	assert.Equal(t, "330,00", r.Totals.GrandTotal.Display)
	assert.Equal(t, "-70,00", r.Totals.Difference.Display)
	assert.Equal(t, "-70.00", r.Totals.Difference.Value)
	require.Len(t, r.Totals.Lines, 4)
	assert.Equal(t, reconciliation.LineDaysInState, r.Totals.Lines[0].Key)
	assert.Equal(t, "Diárias no estado", r.Totals.Lines[0].Label)
	assert.Equal(t, "15,00", r.Totals.Lines[2].UnitValue.Display)
	assert.Len(t, r.Documents, 1)
	assert.Nil(t, r.President)
	assert.Nil(t, r.RequiresBoardMemberSignature)
	assert.Empty(t, r.Tickets)
}

func TestBuild_TravelTicket(t *testing.T) {
	r, err := Build(KindTravelTicket, Input{Reconciliation: sampleReconciliation()}, MustFormatter("pt-BR"))
	require.NoError(t, err)

	require.NotNil(t, r.Advance)
	assert.Equal(t, "ADI-2", r.Advance.Number)
	require.Len(t, r.Tickets, 2)
	assert.Equal(t, "outbound", r.Tickets[0].Direction)
	require.NotNil(t, r.TicketSummary)
	assert.Equal(t, "200,00", r.TicketSummary.TotalTickets.Display)
	assert.Equal(t, "50,00", r.TicketSummary.AmountToReturn.Display)
	assert.Nil(t, r.Totals)
}

func TestBuild_Opinion(t *testing.T) {
	rec := sampleReconciliation()

	t.Run("different people", func(t *testing.T) {
		r, err := Build(KindOpinion, Input{Reconciliation: rec, President: &president.President{PresidentID: "pre-1", Name: "Ana Costa"}}, MustFormatter("pt-BR"))
		require.NoError(t, err)
		require.NotNil(t, r.President)
		assert.Equal(t, "Ana Costa", r.President.Name)
		require.NotNil(t, r.RequiresBoardMemberSignature)
		assert.False(t, *r.RequiresBoardMemberSignature)
		assert.Equal(t, "330,00", r.Totals.GrandTotal.Display)

		raw, err := json.Marshal(r)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"requires_board_member_signature":false`)
	})

	t.Run("president judging own record", func(t *testing.T) {
		r, err := Build(KindOpinion, Input{Reconciliation: rec, President: &president.President{Name: "  maria SOUZA "}}, MustFormatter("pt-BR"))
		require.NoError(t, err)
		assert.True(t, *r.RequiresBoardMemberSignature)
	})

	t.Run("president is required", func(t *testing.T) {
		_, err := Build(KindOpinion, Input{Reconciliation: rec}, MustFormatter("pt-BR"))
		require.Error(t, err)
		appErr := errors.AsAppError(err)
		assert.Equal(t, errors.CodeInvalidInput, appErr.Code)
	})
}

func TestBuild_UnknownRole(t *testing.T) {
	rec := sampleReconciliation()
	rec.Role = nil
	rec.Totals = reconciliation.ComputeTotals(nil, nil, rec.PerDiemAdvance)

	r, err := Build(KindPerDiem, Input{Reconciliation: rec}, MustFormatter("pt-BR"))
	require.NoError(t, err)
	assert.Nil(t, r.Role)
	assert.Equal(t, "0,00", r.Totals.GrandTotal.Display)
	assert.Empty(t, r.Totals.Lines)
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("invoice")
	require.Error(t, err)
	appErr := errors.AsAppError(err)
	assert.Equal(t, errors.CodeValidation, appErr.Code)
}

func TestRequiresBoardMemberSignature(t *testing.T) {
	assert.True(t, RequiresBoardMemberSignature("José", "josé"))
	assert.True(t, RequiresBoardMemberSignature(" Ana ", "Ana"))
	assert.False(t, RequiresBoardMemberSignature("Ana", "Ana Maria"))
}

type fakeReconciler struct {
	rec *reconciliation.Reconciliation
}

func (f fakeReconciler) Reconcile(ctx context.Context, recordID string) (*reconciliation.Reconciliation, error) {
	if recordID != f.rec.Snapshot.Record.RecordID {
		return nil, errors.NewNotFoundError("record not found")
	}
	return f.rec, nil
}

type fakePresidents map[string]*president.President

func (f fakePresidents) GetPresident(ctx context.Context, presidentID string) (*president.President, error) {
	if p, ok := f[presidentID]; ok {
		return p, nil
	}
	return nil, errors.NewNotFoundError("president not found")
}

func TestService(t *testing.T) {
	ctx := context.Background()
	svc := NewService(
		fakeReconciler{rec: sampleReconciliation()},
		fakePresidents{"pre-1": {PresidentID: "pre-1", Name: "Ana Costa"}},
		MustFormatter("pt-BR"),
	)

	r, err := svc.Generate(ctx, "rec-1", KindOpinion)
	require.NoError(t, err)
	assert.Equal(t, "Ana Costa", r.President.Name)

	totals, err := svc.Totals(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, "400,00", totals.AdvanceAmount.Display)

	summary, err := svc.TicketSummary(ctx, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TicketCount)

	_, err = svc.Generate(ctx, "missing", KindPerDiem)
	assert.True(t, errors.IsNotFound(err))
}
