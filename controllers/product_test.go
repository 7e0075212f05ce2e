package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

func TestCreateProductValidation(t *testing.T) {
	pc := NewProductController(store.NewMemoryStore())
	manager := primitive.NewObjectID()

	cases := []struct {
		name string
		body map[string]interface{}
		want string
	}{
		{"missing name", map[string]interface{}{"description": "x", "price": 10.0}, "Name is required"},
		{"missing description", map[string]interface{}{"name": "Burger", "price": 10.0}, "Description is required"},
		{"negative price", map[string]interface{}{"name": "Burger", "description": "x", "price": -1.0}, "Price must not be negative"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			pc.CreateProduct(rec, authedRequest(t, "POST", "/products", tc.body, manager, models.RoleGerente))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestProductSoftDeleteHidesFromMenu(t *testing.T) {
	s := store.NewMemoryStore()
	pc := NewProductController(s)
	manager := primitive.NewObjectID()

	body := map[string]interface{}{
		"name":        "Pizza Margherita",
		"description": "Pizza tradicional",
		"price":       45.00,
	}
	rec := httptest.NewRecorder()
	pc.CreateProduct(rec, authedRequest(t, "POST", "/products", body, manager, models.RoleGerente))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	require.True(t, created.Active)

	req := authedRequest(t, "DELETE", "/products/x", nil, manager, models.RoleGerente)
	rec = httptest.NewRecorder()
	pc.DeleteProduct(rec, mux.SetURLVars(req, map[string]string{"id": created.ID.Hex()}))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	pc.GetProducts(rec, authedRequest(t, "GET", "/products", nil, manager, models.RoleCliente))
	require.Equal(t, http.StatusOK, rec.Code)

	var menu []models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&menu))
	assert.Empty(t, menu, "deactivated products must not appear on the menu")

	// A direct fetch of the soft-deleted product reports not found.
	req = authedRequest(t, "GET", "/products/x", nil, manager, models.RoleCliente)
	rec = httptest.NewRecorder()
	pc.GetProductByID(rec, mux.SetURLVars(req, map[string]string{"id": created.ID.Hex()}))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	s := store.NewMemoryStore()
	pc := NewProductController(s)
	manager := primitive.NewObjectID()

	body := map[string]interface{}{"name": "Burger", "description": "ok", "price": 29.90}
	rec := httptest.NewRecorder()
	pc.CreateProduct(rec, authedRequest(t, "POST", "/products", body, manager, models.RoleGerente))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	update := map[string]interface{}{"name": "Burger Clássico", "description": "Hambúrguer suculento", "price": 32.90}
	req := authedRequest(t, "PUT", "/products/x", update, manager, models.RoleGerente)
	rec = httptest.NewRecorder()
	pc.UpdateProduct(rec, mux.SetURLVars(req, map[string]string{"id": created.ID.Hex()}))
	require.Equal(t, http.StatusOK, rec.Code)

	req = authedRequest(t, "GET", "/products/x", nil, manager, models.RoleCliente)
	rec = httptest.NewRecorder()
	pc.GetProductByID(rec, mux.SetURLVars(req, map[string]string{"id": created.ID.Hex()}))
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.Product
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Burger Clássico", got.Name)
	assert.InDelta(t, 32.90, got.Price, 1e-9)
}
