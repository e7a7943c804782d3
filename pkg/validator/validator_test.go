package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/pkg/validator"
)

func TestValidateStruct_Valido(t *testing.T) {
	req := dto.CreatePurchaseBatchRequest{
		TotalOrigin: decimal.NewFromInt(100),
		Items:       []dto.CreatePurchaseItemRequest{{ProductID: "p1", Quantity: 1}},
	}
	assert.Nil(t, validator.ValidateStruct(req))
}

func TestValidateStruct_RutasConNombreJSON(t *testing.T) {
	req := dto.CreatePurchaseBatchRequest{
		TotalShipping: decimal.NewFromInt(-1),
		Items:         []dto.CreatePurchaseItemRequest{{ProductID: "p1", Quantity: 0}},
	}
	m := validator.ToMap(validator.ValidateStruct(req))
	require.NotNil(t, m)
	assert.Equal(t, "gt=0", m["items[0].quantity"])
	assert.Equal(t, "gte=0", m["total_shipping"])
}

func TestValidateStruct_ListaVacia(t *testing.T) {
	m := validator.ToMap(validator.ValidateStruct(dto.SalesPreviewRequest{}))
	assert.Contains(t, m, "lines")
}
