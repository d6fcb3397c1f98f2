package repositories

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tienda/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Place runs header insert, line inserts and one conditional decrement per
// line inside a single transaction. Lines are applied in the given order, so
// repeated products see the stock already consumed by earlier lines. Any
// error rolls back every write; a decrement matching no row yields
// *models.InsufficientStockError. order.ID is assigned by the insert.
func (r *GORMOrderRepository) Place(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return errors.Wrap(err, "insert order header")
		}

		lines := order.Lines
		for i := range lines {
			lines[i].OrderID = order.ID
		}
		if err := tx.Create(&lines).Error; err != nil {
			return errors.Wrapf(err, "insert lines of order %d", order.ID)
		}

		for _, line := range lines {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", line.Quantity))
			if res.Error != nil {
				return errors.Wrapf(res.Error, "decrement stock of product %d", line.ProductID)
			}
			if res.RowsAffected == 0 {
				return &models.InsufficientStockError{ProductID: line.ProductID}
			}
		}
		return nil
	})
}

// ListByUser returns the orders of a user, newest first, without lines.
func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("id_usuario = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, wrap(err, "list orders of user %d", userID)
	}
	return orders, nil
}

// GetDetail returns an order and its lines joined with the current product data.
func (r *GORMOrderRepository) GetDetail(ctx context.Context, id uint) (*models.OrderDetail, error) {
	db := r.db.WithContext(ctx)

	var detail models.OrderDetail
	if err := db.First(&detail.Order, id).Error; err != nil {
		return nil, wrap(err, "get order %d", id)
	}

	err := db.Table("pedido_detalles AS pd").
		Select("pd.id AS detalle_id, pd.id_producto, pd.cantidad, pd.precio_unitario, " +
			"pr.nombre, COALESCE(pr.imagenes, '[]') AS imagenes, pr.stock").
		Joins("JOIN productos pr ON pr.id = pd.id_producto").
		Where("pd.id_pedido = ?", id).
		Order("pd.id").
		Scan(&detail.Lines).Error
	if err != nil {
		return nil, wrap(err, "get lines of order %d", id)
	}

	for i := range detail.Lines {
		if err := json.Unmarshal([]byte(detail.Lines[i].ImagesJSON), &detail.Lines[i].Images); err != nil || detail.Lines[i].Images == nil {
			detail.Lines[i].Images = []string{}
		}
	}
	if detail.Lines == nil {
		detail.Lines = []models.OrderLineDetail{}
	}
	return &detail, nil
}

// ListAll returns every order with the customer name, newest first.
func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.OrderSummary, error) {
	var out []models.OrderSummary
	err := r.db.WithContext(ctx).
		Table("pedidos AS p").
		Select("p.id, p.id_usuario, p.total, p.fecha, p.estado, u.nombre AS cliente").
		Joins("LEFT JOIN usuarios u ON u.id = p.id_usuario").
		Order("p.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, wrap(err, "list orders")
	}
	return out, nil
}

// UpdateStatus applies a compare-and-set on the order status. Cancelling
// returns every line's quantity to stock in the same transaction.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, to models.OrderStatus, from []models.OrderStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("id = ? AND estado IN ?", id, from).
			UpdateColumn("estado", to)
		if res.Error != nil {
			return errors.Wrapf(res.Error, "update status of order %d", id)
		}
		if res.RowsAffected == 0 {
			var current models.Order
			if err := tx.Select("id", "estado").First(&current, id).Error; err != nil {
				return wrap(err, "get order %d", id)
			}
			return &models.InvalidTransitionError{From: current.Status, To: to}
		}

		if to != models.OrderStatusCancelled {
			return nil
		}

		var lines []models.OrderLine
		if err := tx.Where("id_pedido = ?", id).Order("id").Find(&lines).Error; err != nil {
			return errors.Wrapf(err, "load lines of order %d", id)
		}
		for _, line := range lines {
			err := tx.Model(&models.Product{}).
				Where("id = ?", line.ProductID).
				UpdateColumn("stock", gorm.Expr("stock + ?", line.Quantity)).Error
			if err != nil {
				return errors.Wrapf(err, "restock product %d", line.ProductID)
			}
		}
		return nil
	})
}
