package shipping_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Act962/erp-limas-sub000/internal/domain"
	"github.com/Act962/erp-limas-sub000/internal/domain/entity"
	"github.com/Act962/erp-limas-sub000/internal/domain/shipping"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestComputeFreight_UmbralEnvioGratis(t *testing.T) {
	// El umbral gana sobre cualquier chargeType.
	policy := entity.FreightPolicy{
		Mode:                  entity.FreightModeNegotiateFreight,
		ChargeType:            entity.FreightChargePerWeight,
		PerWeightValue:        dec("5"),
		FreeShippingThreshold: dec("200"),
		FreeShippingEnabled:   true,
	}
	quote, err := shipping.ComputeFreight(dec("250"), dec("3"), policy)
	require.NoError(t, err)
	assert.True(t, quote.Amount.IsZero())
	assert.True(t, quote.FreeShipping)
	assert.False(t, quote.Negotiated)
}

func TestComputeFreight_UmbralNoAlcanzado(t *testing.T) {
	policy := entity.FreightPolicy{
		ChargeType:            entity.FreightChargeFixed,
		FixedValue:            dec("12"),
		FreeShippingThreshold: dec("200"),
		FreeShippingEnabled:   true,
	}
	quote, err := shipping.ComputeFreight(dec("199.99"), decimal.Zero, policy)
	require.NoError(t, err)
	assert.True(t, quote.Amount.Equal(dec("12")))
	assert.False(t, quote.FreeShipping)
}

func TestComputeFreight_ModoFreeShipping(t *testing.T) {
	policy := entity.FreightPolicy{Mode: entity.FreightModeFreeShipping}
	quote, err := shipping.ComputeFreight(dec("10"), decimal.Zero, policy)
	require.NoError(t, err)
	assert.True(t, quote.Amount.IsZero())
	assert.True(t, quote.FreeShipping)
}

func TestComputeFreight_ModosNegociados(t *testing.T) {
	// Cero "negociado" no es cero "gratis": el caller debe distinguirlos.
	for _, mode := range []string{
		entity.FreightModeNoShipping,
		entity.FreightModeNegotiateWhatsApp,
		entity.FreightModeNegotiateFreight,
	} {
		policy := entity.FreightPolicy{Mode: mode, ChargeType: entity.FreightChargeFixed, FixedValue: dec("20")}
		quote, err := shipping.ComputeFreight(dec("50"), decimal.Zero, policy)
		require.NoError(t, err)
		assert.True(t, quote.Amount.IsZero(), "modo %s", mode)
		assert.True(t, quote.Negotiated, "modo %s", mode)
		assert.False(t, quote.FreeShipping, "modo %s", mode)
	}
}

func TestComputeFreight_CobroFijo(t *testing.T) {
	policy := entity.FreightPolicy{ChargeType: entity.FreightChargeFixed, FixedValue: dec("15.50")}
	quote, err := shipping.ComputeFreight(dec("80"), dec("2"), policy)
	require.NoError(t, err)
	assert.True(t, quote.Amount.Equal(dec("15.50")))
}

func TestComputeFreight_CobroPorPeso(t *testing.T) {
	policy := entity.FreightPolicy{ChargeType: entity.FreightChargePerWeight, PerWeightValue: dec("5")}
	quote, err := shipping.ComputeFreight(dec("80"), dec("3"), policy)
	require.NoError(t, err)
	assert.True(t, quote.Amount.Equal(dec("15")))
}

func TestComputeFreight_PorPesoSinTarifa(t *testing.T) {
	policy := entity.FreightPolicy{ChargeType: entity.FreightChargePerWeight}
	_, err := shipping.ComputeFreight(dec("80"), dec("3"), policy)
	require.ErrorIs(t, err, domain.ErrInvalidPolicy)
}

func TestComputeFreight_SinRegla(t *testing.T) {
	quote, err := shipping.ComputeFreight(dec("80"), dec("3"), entity.FreightPolicy{})
	require.NoError(t, err)
	assert.True(t, quote.Amount.IsZero())
	assert.False(t, quote.FreeShipping)
	assert.False(t, quote.Negotiated)
}
