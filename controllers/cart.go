package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/middleware"
	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

// CartController handles cart-related requests
type CartController struct {
	Carts    store.CartStore
	Products store.ProductStore
}

// NewCartController creates a new CartController
func NewCartController(carts store.CartStore, products store.ProductStore) *CartController {
	return &CartController{
		Carts:    carts,
		Products: products,
	}
}

// cartResponse carries the cart plus its derived totals, recomputed from
// the lines on every response.
type cartResponse struct {
	Cart       models.Cart `json:"cart"`
	TotalItems int         `json:"total_items"`
	TotalPrice float64     `json:"total_price"`
}

func writeCart(w http.ResponseWriter, cart models.Cart) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cartResponse{
		Cart:       cart,
		TotalItems: cart.TotalItems(),
		TotalPrice: cart.TotalPrice(),
	})
}

func userIDFrom(r *http.Request) (primitive.ObjectID, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// AddToCart adds one unit of a product to the user's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product, err := cc.Products.GetProduct(ctx, productID)
	if err != nil || !product.Active {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}

	cart, err := cc.Carts.GetCart(ctx, userID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	cart.Add(product)

	if err := cc.Carts.SaveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	writeCart(w, cart)
}

// UpdateQuantity sets the quantity of one cart line. A quantity of zero or
// less removes the line.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.GetCart(ctx, userID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	cart.SetQuantity(productID, req.Quantity)

	if err := cc.Carts.SaveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	writeCart(w, cart)
}

// RemoveFromCart removes a product's line from the user's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	productID, err := primitive.ObjectIDFromHex(params["product_id"])
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.GetCart(ctx, userID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	cart.Remove(productID)

	if err := cc.Carts.SaveCart(ctx, cart); err != nil {
		http.Error(w, "Error updating cart", http.StatusInternalServerError)
		return
	}

	writeCart(w, cart)
}

// ClearCart empties the user's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cc.Carts.ClearCart(ctx, userID); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}

	writeCart(w, models.Cart{UserID: userID})
}

// GetCart retrieves the user's cart with its totals
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cc.Carts.GetCart(ctx, userID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}

	writeCart(w, cart)
}
