package controllers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

func newCartFixture(t *testing.T) (*CartController, *store.MemoryStore, models.Product) {
	t.Helper()
	s := store.NewMemoryStore()
	id, err := s.CreateProduct(context.Background(), models.Product{
		Name: "Burger", Description: "Hambúrguer suculento", Price: 29.90, Active: true,
	})
	require.NoError(t, err)
	product, err := s.GetProduct(context.Background(), id)
	require.NoError(t, err)
	return NewCartController(s, s), s, product
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) cartResponse {
	t.Helper()
	var resp cartResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAddToCartTwiceKeepsOneLine(t *testing.T) {
	cc, _, product := newCartFixture(t)
	userID := primitive.NewObjectID()
	body := map[string]string{"product_id": product.ID.Hex()}

	rec := httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", body, userID, models.RoleCliente))
	require.Equal(t, 200, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", body, userID, models.RoleCliente))
	require.Equal(t, 200, rec.Code)

	resp := decodeCart(t, rec)
	require.Len(t, resp.Cart.Lines, 1)
	assert.Equal(t, 2, resp.Cart.Lines[0].Quantity)
	assert.Equal(t, 2, resp.TotalItems)
	assert.InDelta(t, 59.80, resp.TotalPrice, 1e-9)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	cc, _, _ := newCartFixture(t)
	userID := primitive.NewObjectID()
	body := map[string]string{"product_id": primitive.NewObjectID().Hex()}

	rec := httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", body, userID, models.RoleCliente))

	assert.Equal(t, 404, rec.Code)
}

func TestAddToCartInactiveProduct(t *testing.T) {
	cc, s, product := newCartFixture(t)
	require.NoError(t, s.DeactivateProduct(context.Background(), product.ID))
	userID := primitive.NewObjectID()
	body := map[string]string{"product_id": product.ID.Hex()}

	rec := httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", body, userID, models.RoleCliente))

	assert.Equal(t, 404, rec.Code, "soft-deleted products must not be orderable")
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	cc, _, product := newCartFixture(t)
	userID := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", map[string]string{"product_id": product.ID.Hex()}, userID, models.RoleCliente))
	require.Equal(t, 200, rec.Code)

	req := authedRequest(t, "PUT", "/cart/items/x", map[string]int{"quantity": 0}, userID, models.RoleCliente)
	rec = httptest.NewRecorder()
	cc.UpdateQuantity(rec, mux.SetURLVars(req, map[string]string{"product_id": product.ID.Hex()}))
	require.Equal(t, 200, rec.Code)

	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Cart.Lines)
	assert.Equal(t, 0, resp.TotalItems)
	assert.Equal(t, 0.0, resp.TotalPrice)
}

func TestRemoveFromCart(t *testing.T) {
	cc, _, product := newCartFixture(t)
	userID := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	cc.AddToCart(rec, authedRequest(t, "POST", "/cart", map[string]string{"product_id": product.ID.Hex()}, userID, models.RoleCliente))
	require.Equal(t, 200, rec.Code)

	req := authedRequest(t, "DELETE", "/cart/items/x", nil, userID, models.RoleCliente)
	rec = httptest.NewRecorder()
	cc.RemoveFromCart(rec, mux.SetURLVars(req, map[string]string{"product_id": product.ID.Hex()}))
	require.Equal(t, 200, rec.Code)

	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Cart.Lines)
}

func TestGetCartEmptyForNewUser(t *testing.T) {
	cc, _, _ := newCartFixture(t)
	userID := primitive.NewObjectID()

	rec := httptest.NewRecorder()
	cc.GetCart(rec, authedRequest(t, "GET", "/cart", nil, userID, models.RoleCliente))

	require.Equal(t, 200, rec.Code)
	resp := decodeCart(t, rec)
	assert.Empty(t, resp.Cart.Lines)
	assert.Equal(t, 0, resp.TotalItems)
}
