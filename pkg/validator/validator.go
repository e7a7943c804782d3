package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError error de validación de un campo. Field usa el nombre JSON con su ruta (items[0].quantity).
type FieldError struct {
	Field string
	Tag   string
	Param string
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	// shopspring/decimal se valida como float64: permite gte=0, gt=0, etc. sobre montos.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// ValidateStruct valida los tags `validate` de data. Devuelve nil si no hay errores.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "", Tag: "invalid", Param: err.Error()}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		// quitar el nombre del struct raíz
		if _, rest, ok := strings.Cut(ns, "."); ok {
			ns = rest
		}
		out = append(out, &FieldError{Field: ns, Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// ToMap convierte los errores a field → "tag[=param]" para el cuerpo de la respuesta HTTP.
func ToMap(errs []*FieldError) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	m := make(map[string]string, len(errs))
	for _, e := range errs {
		v := e.Tag
		if e.Param != "" {
			v += "=" + e.Param
		}
		m[e.Field] = v
	}
	return m
}
