package i18n_test

import (
	"testing"

	"github.com/brotinhos/api/internal/enum"
	"github.com/brotinhos/api/internal/i18n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	cases := map[string]i18n.Language{
		"pt":    i18n.Portuguese,
		"EN":    i18n.English,
		"es":    i18n.Spanish,
		"pt-BR": i18n.Portuguese,
		"en_US": i18n.English,
	}
	for in, want := range cases {
		got, err := i18n.Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := i18n.Parse("fr")
	assert.ErrorIs(t, err, i18n.ErrUnsupportedLanguage)
}

func TestFromAcceptLanguage(t *testing.T) {
	assert.Equal(t, i18n.English, i18n.FromAcceptLanguage("en-US,en;q=0.9"))
	assert.Equal(t, i18n.Spanish, i18n.FromAcceptLanguage("es-AR,es;q=0.8,en;q=0.5"))
	assert.Equal(t, i18n.Portuguese, i18n.FromAcceptLanguage("pt-BR"))
	assert.Equal(t, i18n.Default, i18n.FromAcceptLanguage(""))
	assert.Equal(t, i18n.Default, i18n.FromAcceptLanguage(";;;"))
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Dinheiro", i18n.For(i18n.Portuguese).PaymentLabel(enum.PaymentMethodCash))
	assert.Equal(t, "Card", i18n.For(i18n.English).PaymentLabel(enum.PaymentMethodCard))
	assert.Equal(t, "PIX", i18n.For(i18n.Spanish).PaymentLabel(enum.PaymentMethodPix))
	assert.Equal(t, "voucher", i18n.For(i18n.English).PaymentLabel("voucher"))
}

func TestForUnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, i18n.For(i18n.Default), i18n.For("xx"))
}
