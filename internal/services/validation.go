package services

import (
	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"

	"tienda/internal/models"
)

const msgInvalidData = "Datos inválidos"

// checkStruct runs the struct tags and converts failures into *models.ValidationError.
func checkStruct(v *validator.Validate, s any, message string) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &models.ValidationError{Message: message}
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		fields[e.Namespace()] = e.Tag()
	}
	return &models.ValidationError{Message: message, Fields: fields}
}
