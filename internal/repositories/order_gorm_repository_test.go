package repositories_test

import (
	"context"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tienda/internal/database/dbtest"
	"tienda/internal/models"
	"tienda/internal/repositories"
)

type snapshot struct {
	orders int64
	lines  int64
	stock  map[uint]int
}

func takeSnapshot(t *testing.T, db *gorm.DB) snapshot {
	t.Helper()
	s := snapshot{stock: map[uint]int{}}
	require.NoError(t, db.Model(&models.Order{}).Count(&s.orders).Error)
	require.NoError(t, db.Model(&models.OrderLine{}).Count(&s.lines).Error)

	var products []models.Product
	require.NoError(t, db.Find(&products).Error)
	for _, p := range products {
		s.stock[p.ID] = p.Stock
	}
	return s
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Price: decimal.RequireFromString("49.95"), Stock: stock}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func newOrder(userID uint, lines ...models.OrderLine) *models.Order {
	return &models.Order{
		UserID: userID,
		Total:  decimal.RequireFromString("99.90"),
		Status: models.OrderStatusPending,
		Lines:  lines,
	}
}

func line(productID uint, qty int) models.OrderLine {
	return models.OrderLine{ProductID: productID, Quantity: qty, UnitPrice: decimal.RequireFromString("49.95")}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func TestGORMOrderRepository_PlaceCommits(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	shirt := seedProduct(t, db, "Polo", 5)
	hat := seedProduct(t, db, "Gorra", 8)

	order := newOrder(42, line(shirt.ID, 2), line(hat.ID, 3))
	require.NoError(t, repo.Place(context.Background(), order))
	assert.NotZero(t, order.ID)

	var stored models.Order
	require.NoError(t, db.Preload("Lines").First(&stored, order.ID).Error)
	assert.Equal(t, uint(42), stored.UserID)
	assert.True(t, decimal.RequireFromString("99.90").Equal(stored.Total))
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.False(t, stored.CreatedAt.IsZero())
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, 2, stored.Lines[0].Quantity)
	assert.True(t, decimal.RequireFromString("49.95").Equal(stored.Lines[0].UnitPrice))

	assert.Equal(t, 3, stockOf(t, db, shirt.ID))
	assert.Equal(t, 5, stockOf(t, db, hat.ID))
}

func TestGORMOrderRepository_PlaceInsufficientStockLeavesStoreUnchanged(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	plenty := seedProduct(t, db, "Polo", 10)
	scarce := seedProduct(t, db, "Gorra", 1)

	before := takeSnapshot(t, db)

	// The first line succeeds inside the transaction and must be undone too.
	err := repo.Place(context.Background(), newOrder(1, line(plenty.ID, 4), line(scarce.ID, 2)))

	var stockErr *models.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "got %v", err)
	assert.Equal(t, scarce.ID, stockErr.ProductID)
	assert.Equal(t, before, takeSnapshot(t, db))
}

func TestGORMOrderRepository_RepeatedFailureNeverPartiallyApplies(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	p := seedProduct(t, db, "Polo", 2)

	before := takeSnapshot(t, db)
	for i := 0; i < 5; i++ {
		err := repo.Place(context.Background(), newOrder(1, line(p.ID, 1), line(p.ID, 2)))
		var stockErr *models.InsufficientStockError
		require.True(t, errors.As(err, &stockErr), "attempt %d: %v", i, err)
		assert.Equal(t, before, takeSnapshot(t, db), "attempt %d", i)
	}
}

func TestGORMOrderRepository_SameProductOnSeveralLines(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		wantErr   bool
		wantStock int
	}{
		{name: "enough for both lines", stock: 10, wantStock: 3},
		{name: "each line fits but not together", stock: 6, wantErr: true, wantStock: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := dbtest.Open(t)
			repo := repositories.NewGORMOrderRepository(db)
			p := seedProduct(t, db, "Polo", tt.stock)

			err := repo.Place(context.Background(), newOrder(1, line(p.ID, 3), line(p.ID, 4)))
			if tt.wantErr {
				var stockErr *models.InsufficientStockError
				assert.True(t, errors.As(err, &stockErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantStock, stockOf(t, db, p.ID))
		})
	}
}

func TestGORMOrderRepository_UnknownProductIsInsufficientStock(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)

	err := repo.Place(context.Background(), newOrder(1, line(999, 1)))
	var stockErr *models.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, uint(999), stockErr.ProductID)
}

func TestGORMOrderRepository_ConstraintFailureRollsBackHeader(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	p := seedProduct(t, db, "Polo", 5)

	before := takeSnapshot(t, db)
	err := repo.Place(context.Background(), newOrder(1, line(p.ID, 0)))
	require.Error(t, err)

	var stockErr *models.InsufficientStockError
	assert.False(t, errors.As(err, &stockErr))
	assert.Equal(t, before, takeSnapshot(t, db))
}

func TestGORMOrderRepository_CancelledContext(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	p := seedProduct(t, db, "Polo", 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	before := takeSnapshot(t, db)
	err := repo.Place(ctx, newOrder(1, line(p.ID, 1)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, before, takeSnapshot(t, db))
}

func TestGORMOrderRepository_ConcurrentOrdersForLastUnits(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	const stock = 4
	p := seedProduct(t, db, "Polo", stock)

	const callers = 2
	errs := make([]error, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = repo.Place(context.Background(), newOrder(uint(i+1), line(p.ID, stock)))
		}(i)
	}
	close(start)
	wg.Wait()

	var committed, rejected int
	for _, err := range errs {
		var stockErr *models.InsufficientStockError
		switch {
		case err == nil:
			committed++
		case errors.As(err, &stockErr):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, committed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 0, stockOf(t, db, p.ID))

	s := takeSnapshot(t, db)
	assert.Equal(t, int64(1), s.orders)
	assert.Equal(t, int64(1), s.lines)
}

func TestGORMOrderRepository_Queries(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()

	customer := models.User{Name: "Ana", Email: "ana@example.com", Password: "x", Role: models.RoleCustomer}
	require.NoError(t, db.Create(&customer).Error)
	p := models.Product{Name: "Polo", Price: decimal.RequireFromString("49.95"), Stock: 10, Images: []string{"a.png", "b.png"}}
	require.NoError(t, db.Create(&p).Error)

	first := newOrder(customer.ID, line(p.ID, 1))
	require.NoError(t, repo.Place(ctx, first))
	second := newOrder(customer.ID, line(p.ID, 2))
	require.NoError(t, repo.Place(ctx, second))
	require.NoError(t, repo.Place(ctx, newOrder(777, line(p.ID, 1))))

	mine, err := repo.ListByUser(ctx, customer.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)

	detail, err := repo.GetDetail(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, detail.Order.ID)
	require.Len(t, detail.Lines, 1)
	assert.Equal(t, "Polo", detail.Lines[0].Name)
	assert.Equal(t, 2, detail.Lines[0].Quantity)
	assert.Equal(t, []string{"a.png", "b.png"}, detail.Lines[0].Images)
	assert.Equal(t, 6, detail.Lines[0].Stock)

	_, err = repo.GetDetail(ctx, 12345)
	assert.ErrorIs(t, err, models.ErrNotFound)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Nil(t, all[0].Customer)
	require.NotNil(t, all[1].Customer)
	assert.Equal(t, "Ana", *all[1].Customer)
}

func TestGORMOrderRepository_UpdateStatus(t *testing.T) {
	db := dbtest.Open(t)
	repo := repositories.NewGORMOrderRepository(db)
	ctx := context.Background()
	p := seedProduct(t, db, "Polo", 10)

	order := newOrder(1, line(p.ID, 3), line(p.ID, 2))
	require.NoError(t, repo.Place(ctx, order))
	require.Equal(t, 5, stockOf(t, db, p.ID))

	active := []models.OrderStatus{models.OrderStatusPending, models.OrderStatusConfirmed}
	require.NoError(t, repo.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, active))
	assert.Equal(t, 10, stockOf(t, db, p.ID))

	// A second cancel must not restock twice.
	err := repo.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, active)
	var transition *models.InvalidTransitionError
	require.True(t, errors.As(err, &transition), "got %v", err)
	assert.Equal(t, models.OrderStatusCancelled, transition.From)
	assert.Equal(t, 10, stockOf(t, db, p.ID))

	err = repo.UpdateStatus(ctx, 4242, models.OrderStatusConfirmed, []models.OrderStatus{models.OrderStatusPending})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
