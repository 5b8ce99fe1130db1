package selection

import (
	"testing"

	"reinocalc/internal/domain"
	"reinocalc/internal/events"
	"reinocalc/internal/ledger"
	"reinocalc/internal/logger"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	cdb   = domain.NewAssetKey("Renda Fixa", "CDB")
	acoes = domain.NewAssetKey("Renda Variável", "Ações")
	ouro  = domain.NewAssetKey("Internacional", "Ouro")
)

func setup(t *testing.T) (AssetSelection, ledger.AllocationLedger, *[][]domain.AssetKey) {
	t.Helper()
	bus := events.NewBus(logger.Nop())
	notifications := [][]domain.AssetKey{}
	bus.Subscribe(events.SelectionChanged, func(e events.Event) {
		notifications = append(notifications, e.Data.(events.SelectionChangedData).SelectedAssets)
	})

	l := ledger.New(bus, nil, logger.Nop())
	for _, k := range []domain.AssetKey{cdb, acoes, ouro} {
		l.Register(k)
	}
	s := New(l, bus, logger.Nop())
	l.SetEligibility(s)
	return s, l, &notifications
}

func TestSelect(t *testing.T) {
	t.Run("notifies the full ordered set", func(t *testing.T) {
		s, _, notifications := setup(t)

		require.True(t, s.Select(acoes))
		require.True(t, s.Select(cdb))

		require.Equal(t, [][]domain.AssetKey{
			{acoes},
			{acoes, cdb},
		}, *notifications)
		require.Equal(t, 2, s.Count())
	})

	t.Run("is idempotent on normalized key", func(t *testing.T) {
		s, _, notifications := setup(t)

		require.True(t, s.Select(cdb))
		require.False(t, s.Select(domain.NewAssetKey("renda fixa ", " cdb")))

		require.Len(t, *notifications, 1)
		require.True(t, s.IsSelected(domain.NewAssetKey("RENDA FIXA", "CDB")))
	})
}

func TestDeselect(t *testing.T) {
	t.Run("clears the allocation", func(t *testing.T) {
		s, l, _ := setup(t)
		l.SetTotalPatrimony(decimal.NewFromInt(1000))
		s.Select(cdb)
		_, err := l.SetAllocationValue(cdb, decimal.NewFromInt(400))
		require.NoError(t, err)

		require.True(t, s.Deselect(cdb))

		e, err := l.Entry(cdb)
		require.NoError(t, err)
		require.True(t, e.Value.IsZero())
		require.False(t, s.IsSelected(cdb))
	})

	t.Run("absent key is a no-op", func(t *testing.T) {
		s, _, notifications := setup(t)
		require.False(t, s.Deselect(ouro))
		require.Empty(t, *notifications)
	})

	t.Run("key unknown to the ledger is still removed", func(t *testing.T) {
		s, _, _ := setup(t)
		other := domain.NewAssetKey("Outros", "Arte")
		s.Select(other)
		require.True(t, s.Deselect(other))
		require.Equal(t, 0, s.Count())
	})

	t.Run("toggle", func(t *testing.T) {
		s, _, _ := setup(t)
		require.True(t, s.Toggle(ouro, true))
		require.False(t, s.Toggle(ouro, true))
		require.True(t, s.Toggle(ouro, false))
		require.Empty(t, s.Selected())
	})
}

func TestClearAll(t *testing.T) {
	s, l, notifications := setup(t)
	l.SetTotalPatrimony(decimal.NewFromInt(1000))
	s.Select(cdb)
	s.Select(acoes)
	_, err := l.SetAllocationValue(cdb, decimal.NewFromInt(100))
	require.NoError(t, err)
	_, err = l.SetAllocationValue(acoes, decimal.NewFromInt(200))
	require.NoError(t, err)

	s.ClearAll()

	require.Equal(t, 0, s.Count())
	require.True(t, l.GetTotalAllocated().IsZero())
	require.Equal(t, []domain.AssetKey{}, (*notifications)[len(*notifications)-1])
}
