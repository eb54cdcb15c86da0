package dto_test

import (
	"testing"

	"github.com/SscSPs/vehicle_registry_app/internal/dto"
	"github.com/gin-gonic/gin/binding"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func validCreateVehicle() dto.CreateVehicleRequest {
	return dto.CreateVehicleRequest{
		Placa:  "ABC1D23",
		Marca:  "Fiat",
		Modelo: "Uno",
		Ano:    2010,
		Cor:    "Branco",
		Preco:  decimal.NewFromInt(25000),
	}
}

func TestPlateRule(t *testing.T) {
	dto.RegisterValidators()

	tests := []struct {
		plate string
		valid bool
	}{
		{"ABC1D23", true},
		{"ABC-1234", true},
		{"abc1234", true},
		{"-ABC1234", false},
		{"ABC1234-", false},
		{"AB-C-1234", false},
		{"ABC 1234", false},
		{"ABC#123", false},
	}

	for _, tt := range tests {
		t.Run(tt.plate, func(t *testing.T) {
			req := validCreateVehicle()
			req.Placa = tt.plate
			err := binding.Validator.ValidateStruct(req)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDecimalPriceRule(t *testing.T) {
	dto.RegisterValidators()

	req := validCreateVehicle()
	assert.NoError(t, binding.Validator.ValidateStruct(req))

	req.Preco = decimal.Zero
	assert.Error(t, binding.Validator.ValidateStruct(req))

	req.Preco = decimal.RequireFromString("-0.01")
	assert.Error(t, binding.Validator.ValidateStruct(req))

	req.Preco = decimal.RequireFromString("0.01")
	assert.NoError(t, binding.Validator.ValidateStruct(req))
}

func TestPatchVehicleRequest_IsEmpty(t *testing.T) {
	dto.RegisterValidators()

	assert.True(t, dto.PatchVehicleRequest{}.IsEmpty())

	cor := "Azul"
	assert.False(t, dto.PatchVehicleRequest{Cor: &cor}.IsEmpty())

	price := decimal.NewFromInt(10)
	patch := dto.PatchVehicleRequest{Preco: &price}
	assert.False(t, patch.IsEmpty())
	assert.NoError(t, binding.Validator.ValidateStruct(patch))
}
