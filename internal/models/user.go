package models

import "time"

const (
	RoleCustomer = "cliente"
	RoleAdmin    = "admin"
)

// User represents a user of the store.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Name           string    `json:"nombre" gorm:"column:nombre;type:varchar(100);not null"`
	Email          string    `json:"correo" gorm:"column:correo;uniqueIndex;type:varchar(255);not null"`
	Password       string    `json:"-" gorm:"column:contrasena;type:varchar(255);not null"` // bcrypt hash
	Phone          string    `json:"celular" gorm:"column:celular;type:varchar(20)"`
	Department     string    `json:"departamento" gorm:"column:departamento;type:varchar(100)"`
	Province       string    `json:"provincia" gorm:"column:provincia;type:varchar(100)"`
	District       string    `json:"distrito" gorm:"column:distrito;type:varchar(100)"`
	Address        string    `json:"direccion" gorm:"column:direccion;type:varchar(255)"`
	DocumentType   string    `json:"tipo_documento" gorm:"column:tipo_documento;type:varchar(20)"`
	DocumentNumber string    `json:"numero_documento" gorm:"column:numero_documento;type:varchar(20)"`
	Role           string    `json:"rol" gorm:"column:rol;type:varchar(20);not null"`
	CreatedAt      time.Time `json:"-"`
}

func (User) TableName() string { return "usuarios" }

// UserSummary is a row of the admin user listing.
type UserSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"nombre" gorm:"column:nombre"`
	Email string `json:"correo" gorm:"column:correo"`
	Role  string `json:"rol" gorm:"column:rol"`
}

// Profile holds the editable fields of a user.
type Profile struct {
	Name           string `json:"nombre" validate:"required,min=2,max=100"`
	Email          string `json:"correo" validate:"required,email"`
	Phone          string `json:"celular" validate:"omitempty,max=20"`
	Department     string `json:"departamento" validate:"omitempty,max=100"`
	Province       string `json:"provincia" validate:"omitempty,max=100"`
	District       string `json:"distrito" validate:"omitempty,max=100"`
	Address        string `json:"direccion" validate:"omitempty,max=255"`
	DocumentType   string `json:"tipo_documento" validate:"omitempty,max=20"`
	DocumentNumber string `json:"numero_documento" validate:"omitempty,max=20"`
}

// RegisterRequest is the body of POST /registro.
type RegisterRequest struct {
	Profile
	Password        string `json:"contrasena" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmar" validate:"required"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"correo" validate:"required,email"`
	Password string `json:"contrasena" validate:"required"`
}
