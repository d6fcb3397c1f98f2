package models

import "time"

// Favorite marks a product as liked by a user. The pair is the primary key.
type Favorite struct {
	UserID    uint      `json:"id_usuario" gorm:"column:id_usuario;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	ProductID uint      `json:"id_producto" gorm:"column:id_producto;primaryKey;autoIncrement:false" validate:"required,gt=0"`
	CreatedAt time.Time `json:"-"`
}

func (Favorite) TableName() string { return "favoritos" }
