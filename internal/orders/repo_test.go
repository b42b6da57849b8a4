package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/storefront/pkg/db/dbtest"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

func TestRepositoryCreateAndFind(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())

	order, err := New(sampleInput())
	require.NoError(t, err)
	number := "SF-000001"
	order.OrderNumber = &number
	require.NoError(t, repo.Create(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusDraft, loaded.Status)
	assert.Equal(t, "Ana Cruz", loaded.Customer.Name)
	require.NotNil(t, loaded.OrderNumber)
	assert.Equal(t, number, *loaded.OrderNumber)
	assert.True(t, loaded.Subtotal.Equal(decimal.RequireFromString("245.5")))
	require.Len(t, loaded.Lines, 2)
	assert.Equal(t, "p1", loaded.Lines[0].ProductID)
	assert.Equal(t, "p2", loaded.Lines[1].ProductID)
	assert.True(t, loaded.Lines[0].LineTotal.Equal(decimal.NewFromInt(200)))

	scoped, err := repo.FindBySessionAndID(ctx, testSession, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, scoped.ID)

	_, err = repo.FindBySessionAndID(ctx, "someone-else-000000000000", order.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositoryLinesSurviveCatalogEdits(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	conn := client.DB()
	repo := NewRepository(conn)

	require.NoError(t, conn.Exec(
		"INSERT INTO products (id, name, size, selling_price, status) VALUES ('p1', 'Whole milk', '1L', 100, 'active')").Error)

	order, err := New(sampleInput())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, conn.Exec(
		"UPDATE products SET name = 'Skim milk', size = '2L', selling_price = 80 WHERE id = 'p1'").Error)

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "Whole milk", loaded.Lines[0].Name)
	assert.Equal(t, "1L", loaded.Lines[0].Size)
	assert.True(t, loaded.Lines[0].Price.Equal(decimal.NewFromInt(100)))
}

func TestRepositoryUpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())

	order, err := New(sampleInput())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, enums.OrderStatusDraft, enums.OrderStatusSubmitted))

	err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusDraft, enums.OrderStatusCancelled)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusSubmitted, loaded.Status)
}

func TestRepositoryRejectsUnknownStatusColumn(t *testing.T) {
	ctx := context.Background()
	client := dbtest.NewSQLite(t)
	repo := NewRepository(client.DB())

	order, err := New(sampleInput())
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, order))

	err = repo.UpdateStatus(ctx, order.ID, enums.OrderStatusDraft, enums.OrderStatus("shipped"))
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())
}
