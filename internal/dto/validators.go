package dto

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules used by the request DTOs on
// gin's validator. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// decimal.Decimal is compared as a number so `gt=0` works on prices.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("placa", validPlate)
	})
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// validPlate accepts letters and digits with at most one hyphen, e.g.
// "ABC1D23" or "ABC-1234".
func validPlate(fl validator.FieldLevel) bool {
	plate := strings.TrimSpace(fl.Field().String())
	if strings.Count(plate, "-") > 1 || strings.HasPrefix(plate, "-") || strings.HasSuffix(plate, "-") {
		return false
	}
	for _, r := range plate {
		if r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return plate != ""
}
