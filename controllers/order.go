package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/middleware"
	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
	"github.com/aarthurcreis/hungryhub-proto/utils"
)

// OrderController handles checkout, order tracking and the delivery workflow
type OrderController struct {
	Orders       store.OrderStore
	Carts        store.CartStore
	EmailService *utils.EmailService
	Feed         *OrderFeed
}

// NewOrderController creates a new OrderController
func NewOrderController(orders store.OrderStore, carts store.CartStore, emailService *utils.EmailService, feed *OrderFeed) *OrderController {
	return &OrderController{
		Orders:       orders,
		Carts:        carts,
		EmailService: emailService,
		Feed:         feed,
	}
}

// newOrderNumber generates the short code customers quote on the phone.
func newOrderNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "#" + raw[:6]
}

// Checkout turns the user's cart into a pending order. Validation happens
// before any store call: a missing address never reaches persistence.
func (oc *OrderController) Checkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	customerID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Address       string               `json:"address"`
		PaymentMethod models.PaymentMethod `json:"payment_method"`
	}
	err = json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Address) == "" {
		http.Error(w, "Address is required", http.StatusBadRequest)
		return
	}
	if !req.PaymentMethod.Valid() {
		http.Error(w, "Payment method is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := oc.Carts.GetCart(ctx, customerID)
	if err != nil {
		http.Error(w, "Error loading cart", http.StatusInternalServerError)
		return
	}
	if len(cart.Lines) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	order := models.Order{
		OrderNumber:   newOrderNumber(),
		CustomerID:    customerID,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Status:        models.StatusPending,
		Total:         cart.TotalPrice() + models.DeliveryFee,
		CreatedAt:     time.Now(),
	}

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
		})
	}

	orderID, err := oc.Orders.CreateOrder(ctx, order, items)
	if err != nil {
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}
	order.ID = orderID

	if err := oc.Carts.ClearCart(ctx, customerID); err != nil {
		http.Error(w, "Failed to clear cart", http.StatusInternalServerError)
		return
	}

	oc.Feed.Broadcast(OrderEvent{Type: "created", Order: order})

	go func(email string, order models.Order) {
		if err := oc.EmailService.SendOrderConfirmationEmail(email, order); err != nil {
			log.Printf("Failed to send email to %s: %v", email, err)
		}
	}(claims.Email, order)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"message":      "Order placed successfully",
	})
}

// GetOrders retrieves the authenticated user's orders, newest first
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	customerID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// TrackOrder retrieves one order with its items. Customers only see their
// own orders; the assigned delivery worker and managers see it too.
func (oc *OrderController) TrackOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	actorID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	order, err := oc.Orders.GetOrder(ctx, orderID)
	if err == store.ErrNotFound {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to retrieve order", http.StatusInternalServerError)
		return
	}

	isOwner := order.CustomerID == actorID
	isAssigned := order.DeliveryPersonID != nil && *order.DeliveryPersonID == actorID
	if !isOwner && !isAssigned && !claims.HasRole(models.RoleGerente) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	items, err := oc.Orders.GetOrderItems(ctx, orderID)
	if err != nil {
		http.Error(w, "Failed to retrieve order items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"order": order,
		"items": items,
	})
}

// ListDeliveryOrders returns the candidate list for the delivery worker:
// every pending order, plus their own in-flight ones. Another worker's
// accepted orders never show up here.
func (oc *OrderController) ListDeliveryOrders(w http.ResponseWriter, r *http.Request) {
	actorID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	orders, err := oc.Orders.ListDeliveryCandidates(ctx, actorID)
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// AcceptOrder claims a pending order for the delivery worker. When two
// workers race for the same order, the store's conditional update lets
// exactly one through; the loser gets a conflict and should re-fetch the
// candidate list.
func (oc *OrderController) AcceptOrder(w http.ResponseWriter, r *http.Request) {
	oc.transition(w, r, func(ctx context.Context, orderID, actorID primitive.ObjectID) (models.Order, error) {
		return oc.Orders.AcceptOrder(ctx, orderID, actorID)
	})
}

// StartDelivery moves an accepted order to delivering. Only the worker who
// accepted the order may start it.
func (oc *OrderController) StartDelivery(w http.ResponseWriter, r *http.Request) {
	oc.transition(w, r, func(ctx context.Context, orderID, actorID primitive.ObjectID) (models.Order, error) {
		return oc.Orders.AdvanceOrder(ctx, orderID, models.StatusAccepted, models.StatusDelivering, actorID)
	})
}

// CompleteDelivery moves a delivering order to delivered, the terminal state.
func (oc *OrderController) CompleteDelivery(w http.ResponseWriter, r *http.Request) {
	oc.transition(w, r, func(ctx context.Context, orderID, actorID primitive.ObjectID) (models.Order, error) {
		return oc.Orders.AdvanceOrder(ctx, orderID, models.StatusDelivering, models.StatusDelivered, actorID)
	})
}

func (oc *OrderController) transition(w http.ResponseWriter, r *http.Request, apply func(context.Context, primitive.ObjectID, primitive.ObjectID) (models.Order, error)) {
	actorID, ok := userIDFrom(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	order, err := apply(ctx, orderID, actorID)
	if err == store.ErrActionNotAvailable {
		http.Error(w, "Action not available", http.StatusConflict)
		return
	}
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to update order: %v", err), http.StatusInternalServerError)
		return
	}

	oc.Feed.Broadcast(OrderEvent{Type: "status_changed", Order: order})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(order)
}
