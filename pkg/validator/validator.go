package validator

import (
	stderrors "errors"
	"reflect"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hirosato/prestacao-contas/backend/internal/domain/errors"
)

// Validator provides validation functions for request data
type Validator interface {
	// Validate validates a struct based on its `validate` tags
	Validate(i interface{}) error
}

type tagValidator struct {
	validate *playground.Validate
}

// New creates a validator that reports field names by their json tag.
// decimal.Decimal fields are validated through their string form, which is what
// the "decimal_gte0" tag inspects.
func New() Validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})
	_ = v.RegisterValidation("decimal_gte0", func(fl playground.FieldLevel) bool {
		d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
		return err == nil && !d.IsNegative()
	})
	_ = v.RegisterValidation("isodate", func(fl playground.FieldLevel) bool {
		return isISODate(fl.Field().String())
	})
	return &tagValidator{validate: v}
}

// Validate returns a VALIDATION_ERROR AppError listing the failing fields in Details.
func (v *tagValidator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs playground.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewInvalidInputError("invalid request", err)
	}

	details := make(map[string]interface{}, len(fieldErrs))
	names := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = describe(fe)
		names = append(names, fe.Field())
	}
	return errors.NewValidationError("invalid fields: " + strings.Join(names, ", ")).WithDetails(details)
}

func describe(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "decimal_gte0":
		return "must be a non-negative decimal"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "failed on " + fe.Tag()
	}
}

func isISODate(s string) bool {
	if len(s) != len("2006-01-02") {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}
