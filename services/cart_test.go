package services

import (
	"net/http"
	"testing"

	"github.com/nocturnelux/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartSubtotal(t *testing.T) {
	db := setupTestDB(t)
	corset := createProduct(t, db, "Velvet Corset", "450.00", nil)
	choker := createProduct(t, db, "Victorian Choker", "180.00", nil)

	addToCart(t, db, "u1", corset, 1, "")
	addToCart(t, db, "u1", choker, 2, "")
	addToCart(t, db, "u2", corset, 3, "")

	cart, err := GetCart(db, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "810.00", cart.Subtotal.StringFixed(2))
	for _, item := range cart.Items {
		require.NotNil(t, item.Product)
	}
}

func TestAddToCartNeverMerges(t *testing.T) {
	db := setupTestDB(t)
	cloak := createProduct(t, db, "Shadow Cloak", "620.00", nil)

	first := addToCart(t, db, "u1", cloak, 1, "")
	second := addToCart(t, db, "u1", cloak, 1, "")
	assert.NotEqual(t, first.ID, second.ID)

	cart, err := GetCart(db, "u1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, "1240.00", cart.Subtotal.StringFixed(2))
}

func TestAddToCartValidation(t *testing.T) {
	db := setupTestDB(t)
	gown := createProduct(t, db, "Gothic Lace Gown", "850.00", models.SizeInventory{"S": 1, "M": 2})
	plain := createProduct(t, db, "Choker", "180.00", nil)

	_, err := AddToCart(db, "u1", "missing", 1, "")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = AddToCart(db, "u1", plain.ID, 0, "")
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = AddToCart(db, "u1", gown.ID, 1, "")
	assert.ErrorIs(t, err, ErrInvalidSize)

	_, err = AddToCart(db, "u1", gown.ID, 1, "XL")
	assert.ErrorIs(t, err, ErrInvalidSize)

	item, err := AddToCart(db, "u1", gown.ID, 1, "M")
	require.NoError(t, err)
	assert.Equal(t, "M", item.Size)
}

func TestDecrementLastUnitRemovesLine(t *testing.T) {
	db := setupTestDB(t)
	choker := createProduct(t, db, "Victorian Choker", "180.00", nil)
	item := addToCart(t, db, "u1", choker, 2, "")

	updated, removed, err := AdjustCartQuantity(db, "u1", item.ID, -1)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 1, updated.Quantity)

	_, removed, err = AdjustCartQuantity(db, "u1", item.ID, -1)
	require.NoError(t, err)
	assert.True(t, removed)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("id = ?", item.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCartItemsAreScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	choker := createProduct(t, db, "Victorian Choker", "180.00", nil)
	item := addToCart(t, db, "owner", choker, 1, "")

	_, err := UpdateCartQuantity(db, "intruder", item.ID, 5)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
	assert.ErrorIs(t, RemoveCartItem(db, "intruder", item.ID), ErrCartItemNotFound)

	_, err = UpdateCartQuantity(db, "owner", item.ID, 0)
	assert.Equal(t, http.StatusBadRequest, appErrCode(err))

	updated, err := UpdateCartQuantity(db, "owner", item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Quantity)

	require.NoError(t, ClearCart(db, "owner"))
	cart, err := GetCart(db, "owner")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Subtotal.IsZero())
}
