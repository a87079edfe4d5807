package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWireProduct_DecodesAPIFieldNames(t *testing.T) {
	t.Parallel()

	raw := `{"id": 7, "nombre": "Antipulgas", "marca_id": 5, "categoria_id": "salud",
		"precio": "39.90", "precio_oferta": 34.90, "descuento": 12,
		"imagen_url": "/img/a.jpg", "es_destacado": true, "eliminado": false}`

	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	p := w.normalize()
	assert.Equal(t, 7, p.ID)
	assert.Equal(t, "Antipulgas", p.Name)
	assert.Equal(t, 5, p.BrandID)
	assert.Equal(t, "salud", p.CategoryID)
	assert.Equal(t, "39.9", p.Price.String())
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, "34.9", p.SalePrice.String())
	assert.True(t, p.IsFeatured)
}

func TestWireProduct_DecodesLocalFieldNames(t *testing.T) {
	t.Parallel()

	raw := `{"id": "3", "nombre": "Cama", "marcaId": "2", "categoriaId": "perros",
		"precio": 89.00, "precioOferta": "69.00", "esDestacado": false}`

	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	p := w.normalize()
	assert.Equal(t, 3, p.ID)
	assert.Equal(t, 2, p.BrandID)
	assert.Equal(t, "perros", p.CategoryID)
	require.NotNil(t, p.SalePrice)
	assert.Equal(t, "69", p.SalePrice.String())
}

func TestNormalize_SalePriceAbovePriceIsDropped(t *testing.T) {
	t.Parallel()

	raw := `{"id": 1, "nombre": "X", "precio": "10.00", "precio_oferta": "12.00"}`

	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	p := w.normalize()
	assert.Nil(t, p.SalePrice)
	assert.Equal(t, "10", p.EffectivePrice().String())
}

func TestNormalizeAll_DropsDeletedProducts(t *testing.T) {
	t.Parallel()

	raw := `[
		{"id": 1, "nombre": "Activo", "precio": "5.00", "eliminado": false},
		{"id": 2, "nombre": "Borrado", "precio": "5.00", "eliminado": true}
	]`

	var wire []wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &wire))

	products := normalizeAll(wire)
	require.Len(t, products, 1)
	assert.Equal(t, 1, products[0].ID)
}

func TestEffectivePrice(t *testing.T) {
	t.Parallel()

	raw := `{"id": 1, "nombre": "X", "precio": "20.00", "precio_oferta": "15.50"}`
	var w wireProduct
	require.NoError(t, json.Unmarshal([]byte(raw), &w))

	assert.Equal(t, "15.5", w.normalize().EffectivePrice().String())
}

func TestFilter_FingerprintIsStable(t *testing.T) {
	t.Parallel()

	a := Filter{Category: "perros", TenantID: "dogshop", Limit: 20}
	b := Filter{Category: "perros", TenantID: "dogshop", Limit: 20}
	c := Filter{Category: "gatos", TenantID: "catshop", Limit: 20}

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
