package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is the header of one checkout. Total is stored as declared by the caller.
type Order struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	UserID    uint            `json:"id_usuario" gorm:"column:id_usuario;not null;index"`
	Total     decimal.Decimal `json:"total" gorm:"column:total;type:decimal(10,2);not null"`
	CreatedAt time.Time       `json:"fecha" gorm:"column:fecha;autoCreateTime"`
	Status    OrderStatus     `json:"estado" gorm:"column:estado;type:varchar(20);not null"`
	Lines     []OrderLine     `json:"-" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string { return "pedidos" }

// OrderLine is one product-quantity-price entry of an order.
// UnitPrice is a snapshot taken when the order was placed.
type OrderLine struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	OrderID   uint            `json:"id_pedido" gorm:"column:id_pedido;not null;index"`
	ProductID uint            `json:"id_producto" gorm:"column:id_producto;not null;index"`
	Quantity  int             `json:"cantidad" gorm:"column:cantidad;not null;check:cantidad > 0"`
	UnitPrice decimal.Decimal `json:"precio_unitario" gorm:"column:precio_unitario;type:decimal(10,2);not null"`
}

func (OrderLine) TableName() string { return "pedido_detalles" }

// OrderSummary is a row of the admin order listing.
type OrderSummary struct {
	ID        uint            `json:"id"`
	UserID    uint            `json:"id_usuario" gorm:"column:id_usuario"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"fecha" gorm:"column:fecha"`
	Status    OrderStatus     `json:"estado" gorm:"column:estado"`
	Customer  *string         `json:"cliente" gorm:"column:cliente"`
}

// OrderLineDetail is an order line joined with the current product data.
type OrderLineDetail struct {
	LineID     uint            `json:"detalle_id" gorm:"column:detalle_id"`
	ProductID  uint            `json:"id_producto" gorm:"column:id_producto"`
	Quantity   int             `json:"cantidad" gorm:"column:cantidad"`
	UnitPrice  decimal.Decimal `json:"precio_unitario" gorm:"column:precio_unitario"`
	Name       string          `json:"nombre" gorm:"column:nombre"`
	ImagesJSON string          `json:"-" gorm:"column:imagenes"`
	Images     []string        `json:"imagenes" gorm:"-"`
	Stock      int             `json:"stock" gorm:"column:stock"`
}

// OrderDetail is an order with its lines.
type OrderDetail struct {
	Order Order             `json:"pedido"`
	Lines []OrderLineDetail `json:"detalles"`
}

// OrderItemRequest is one line of a placement request.
type OrderItemRequest struct {
	ProductID uint            `json:"id_producto" validate:"required,gt=0"`
	Quantity  int             `json:"cantidad" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"precio_unitario"`
}

// PlaceOrderRequest is the decoded body of POST /pedidos.
type PlaceOrderRequest struct {
	UserID uint               `json:"id_usuario" validate:"required,gt=0"`
	Total  decimal.Decimal    `json:"total"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}
