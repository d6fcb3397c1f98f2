package models

import "github.com/shopspring/decimal"

// Product represents a product in the store.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"nombre" gorm:"column:nombre;type:varchar(150);not null" validate:"required,min=2,max=150"`
	Description string          `json:"descripcion" gorm:"column:descripcion;type:text" validate:"omitempty,max=2000"`
	Price       decimal.Decimal `json:"precio" gorm:"column:precio;type:decimal(10,2);not null"`
	Category    string          `json:"categoria" gorm:"column:categoria;type:varchar(100)" validate:"omitempty,max=100"`
	Stock       int             `json:"stock" gorm:"column:stock;not null;check:stock >= 0" validate:"gte=0"`
	Thumbnail   string          `json:"miniatura" gorm:"column:miniatura;type:varchar(500)"`
	Images      []string        `json:"imagenes" gorm:"column:imagenes;serializer:json"`
}

func (Product) TableName() string { return "productos" }

// StockLevel is the answer of GET /stock/:id_producto.
type StockLevel struct {
	ID    uint `json:"id"`
	Stock int  `json:"stock"`
}
