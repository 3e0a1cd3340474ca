package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"oficina-backend/internal/apperr"
	"oficina-backend/internal/models"
	"oficina-backend/internal/store"
	"oficina-backend/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAssignsIDAndListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.Open(t)

	for _, name := range []string{"Ana", "Bruno", "Carla"} {
		c := models.Client{Name: name}
		require.NoError(t, store.Insert(ctx, s, &c))
		assert.NotZero(t, c.ID)
		assert.False(t, c.CreatedAt.IsZero())
	}

	clients, err := store.List[models.Client](ctx, s, store.Query{})
	require.NoError(t, err)
	require.Len(t, clients, 3)
	assert.Equal(t, "Carla", clients[0].Name)
	assert.Equal(t, "Ana", clients[2].Name)
}

func TestListFilterOrderLimit(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.Open(t)

	for i, price := range []int64{30, 10, 20} {
		p := models.Product{Name: []string{"Filtro", "Óleo", "Vela"}[i], Price: decimal.NewFromInt(price)}
		require.NoError(t, store.Insert(ctx, s, &p))
	}

	cheapest, err := store.List[models.Product](ctx, s, store.Query{OrderBy: "price", Ascending: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, cheapest, 2)
	assert.Equal(t, "Óleo", cheapest[0].Name)
	assert.Equal(t, "Vela", cheapest[1].Name)

	vela, err := store.List[models.Product](ctx, s, store.Query{}.Where("name", "Vela"))
	require.NoError(t, err)
	require.Len(t, vela, 1)
	assert.True(t, vela[0].Price.Equal(decimal.NewFromInt(20)))
}

func TestListRangeIsHalfOpen(t *testing.T) {
	ctx := context.Background()
	s, db := storetest.Open(t)

	dates := []time.Time{
		time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 28, 23, 0, 0, 0, time.UTC),
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		require.NoError(t, db.Create(&models.Investment{Description: "x", Amount: decimal.NewFromInt(1), CreatedAt: d}).Error)
	}

	feb, err := store.List[models.Investment](ctx, s, store.Query{}.Between("created_at", dates[0], dates[2]))
	require.NoError(t, err)
	assert.Len(t, feb, 2)
}

func TestInsertRejectsInvalidRecord(t *testing.T) {
	s, _ := storetest.Open(t)

	err := store.Insert(context.Background(), s, &models.Client{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "name")
}

func TestUpdateAndGet(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.Open(t)

	item := models.StockItem{Name: "Pastilha", Quantity: 2, CostPrice: decimal.NewFromInt(50)}
	require.NoError(t, store.Insert(ctx, s, &item))

	require.NoError(t, store.Update[models.StockItem](ctx, s, item.ID, map[string]any{"quantity": 7}))

	got, err := store.Get[models.StockItem](ctx, s, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, "Pastilha", got.Name)
}

func TestUpdateMissingRecordIsNotFound(t *testing.T) {
	s, _ := storetest.Open(t)

	err := store.Update[models.Client](context.Background(), s, 999, map[string]any{"name": "x"})
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = store.Get[models.Client](context.Background(), s, 999)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.Open(t)

	boom := apperr.Conflict("boom")
	err := s.Transaction(ctx, func(tx *store.Store) error {
		c := models.Client{Name: "Temporário"}
		if err := store.Insert(ctx, tx, &c); err != nil {
			return err
		}
		return boom
	})
	require.True(t, errors.Is(err, boom))

	clients, err := store.List[models.Client](ctx, s, store.Query{})
	require.NoError(t, err)
	assert.Empty(t, clients)
}

func TestBudgetLineItemsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := storetest.Open(t)

	c := models.Client{Name: "Ana"}
	require.NoError(t, store.Insert(ctx, s, &c))

	b := models.Budget{
		ClientID: c.ID,
		Status:   models.BudgetStatusPending,
		LineItems: models.LineItems{
			{Type: models.LineItemProduct, RefID: 1, Name: "Filtro", Price: decimal.RequireFromString("35.50")},
			{Type: models.LineItemService, RefID: 2, Name: "Troca de óleo", Price: decimal.NewFromInt(80)},
		},
	}
	require.NoError(t, store.Insert(ctx, s, &b))

	got, err := store.Get[models.Budget](ctx, s, b.ID)
	require.NoError(t, err)
	require.Len(t, got.LineItems, 2)
	assert.Equal(t, models.LineItemService, got.LineItems[1].Type)
	assert.True(t, got.LineItems.Total().Equal(decimal.RequireFromString("115.50")))
}
