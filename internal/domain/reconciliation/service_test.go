package reconciliation

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/record"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/role"
	"github.com/hirosato/prestacao-contas/backend/internal/domain/servant"
)

type fakeStore struct {
	snapshots map[string]*record.Snapshot
	servants  map[string]*servant.Servant
	roles     map[string]*role.Role
	roleErr   error
}

func (f *fakeStore) GetSnapshot(ctx context.Context, recordID string) (*record.Snapshot, error) {
	if s, ok := f.snapshots[recordID]; ok {
		return s, nil
	}
	return nil, errors.NewNotFoundError("record not found")
}

func (f *fakeStore) GetServant(ctx context.Context, servantID string) (*servant.Servant, error) {
	if s, ok := f.servants[servantID]; ok {
		return s, nil
	}
	return nil, errors.NewNotFoundError("servant not found")
}

func (f *fakeStore) GetRoleByName(ctx context.Context, name string) (*role.Role, error) {
	if f.roleErr != nil {
		return nil, f.roleErr
	}
	if r, ok := f.roles[name]; ok {
		return r, nil
	}
	return nil, errors.NewNotFoundError("role not found")
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		snapshots: map[string]*record.Snapshot{
			"rec-1": {
				Record: record.Record{RecordID: "rec-1", ServantID: "srv-1", PresidentID: "pre-1"},
				Advances: []record.Advance{
					{RecordID: "rec-1", Category: record.AdvancePerDiem, Amount: d("400")},
					{RecordID: "rec-1", Category: record.AdvanceTravelTicket, Amount: d("250")},
				},
				DailyCount: &record.DailyCount{RecordID: "rec-1", DaysInState: 3, MealsInState: 2},
				Tickets: []record.TicketExpense{
					{Ticket: "BPE-1", Amount: d("110"), Direction: record.DirectionOutbound},
					{Ticket: "BPE-2", Amount: d("90"), Direction: record.DirectionReturn},
				},
			},
			"rec-orphan": {
				Record: record.Record{RecordID: "rec-orphan", ServantID: "missing"},
			},
			"rec-no-count": {
				Record: record.Record{RecordID: "rec-no-count", ServantID: "srv-1"},
			},
		},
		servants: map[string]*servant.Servant{
			"srv-1": {ServantID: "srv-1", Name: "Maria", RoleName: "Assessor"},
			"srv-2": {ServantID: "srv-2", Name: "João", RoleName: "Cargo Extinto"},
		},
		roles: map[string]*role.Role{
			"Assessor": {RoleID: "role-1", Name: "Assessor", RateInState: d("100"), RateOutOfState: d("150")},
		},
	}
}

func TestService_ComputeForRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("computes from stored inputs", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, store)

		totals, err := svc.ComputeForRecord(ctx, "rec-1")
		require.NoError(t, err)
		assertDecimal(t, "330", totals.GrandTotal)
		assertDecimal(t, "400", totals.AdvanceAmount)
		assertDecimal(t, "-70", totals.Difference)
		assert.Len(t, totals.Breakdown, 4)
	})

	t.Run("unknown role is treated as absent", func(t *testing.T) {
		store := newFakeStore()
		store.snapshots["rec-1"].Record.ServantID = "srv-2"
		svc := NewService(store, store, store)

		rec, err := svc.Reconcile(ctx, "rec-1")
		require.NoError(t, err)
		assert.Nil(t, rec.Role)
		assertZero(t, rec.Totals)
	})

	t.Run("missing daily count gives zero result", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, store)

		totals, err := svc.ComputeForRecord(ctx, "rec-no-count")
		require.NoError(t, err)
		assertZero(t, *totals)
	})

	t.Run("missing record is not found", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, store)

		_, err := svc.ComputeForRecord(ctx, "nope")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("missing servant is not found", func(t *testing.T) {
		store := newFakeStore()
		svc := NewService(store, store, store)

		_, err := svc.ComputeForRecord(ctx, "rec-orphan")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("role lookup failure is propagated", func(t *testing.T) {
		store := newFakeStore()
		store.roleErr = errors.NewInternalError("failed to query role", stderrors.New("boom"))
		svc := NewService(store, store, store)

		_, err := svc.ComputeForRecord(ctx, "rec-1")
		require.Error(t, err)
		assert.False(t, errors.IsNotFound(err))
	})
}

func TestService_ComputeTicketsForRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, store, store)

	summary, err := svc.ComputeTicketsForRecord(context.Background(), "rec-1")
	require.NoError(t, err)
	assertDecimal(t, "250", summary.AdvanceAmount)
	assertDecimal(t, "200", summary.TotalTickets)
	assertDecimal(t, "50", summary.AmountToReturn)
	assert.Equal(t, 2, summary.TicketCount)
}
