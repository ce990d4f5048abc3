package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryAll_ParametrosRepetidos(t *testing.T) {
	app := fiber.New()
	var got []string
	app.Get("/items", func(c *fiber.Ctx) error {
		got = queryAll(c, "product_id")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/items?product_id=a&product_id=b&actor_id=x", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, got, "debe recoger todas las ocurrencias del parámetro")
}

func TestQueryAll_SinParametro(t *testing.T) {
	app := fiber.New()
	var got []string
	app.Get("/items", func(c *fiber.Ctx) error {
		got = queryAll(c, "product_id")
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest("GET", "/items?product_id=", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Empty(t, got, "valores vacíos se descartan")
}
