package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request bodies against their `validate` tags.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return ValidateCPF(fl.Field().String()) == nil
	})
	return &Validator{validate: v}
}

// Struct returns a *ValidationError for the first failing field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return invalid(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("Campo %s é obrigatório", fe.Field())
	case "email":
		return "E-mail inválido"
	case "cpf":
		return InvalidCPFMessage
	case "min":
		return fmt.Sprintf("Campo %s deve ter no mínimo %s caracteres", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("Campo %s deve ser um de: %s", fe.Field(), fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("Campo %s deve ser maior que %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("Campo %s inválido", fe.Field())
}
