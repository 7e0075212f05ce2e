package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aarthurcreis/hungryhub-proto/models"
	"github.com/aarthurcreis/hungryhub-proto/store"
)

// ReportController serves the manager's sales dashboard
type ReportController struct {
	Orders   store.OrderStore
	Products store.ProductStore
	Profiles store.ProfileStore
}

// NewReportController creates a new ReportController
func NewReportController(orders store.OrderStore, products store.ProductStore, profiles store.ProfileStore) *ReportController {
	return &ReportController{
		Orders:   orders,
		Products: products,
		Profiles: profiles,
	}
}

type salesReport struct {
	TotalOrders    int64          `json:"total_orders"`
	TotalRevenue   float64        `json:"total_revenue"`
	ActiveProducts int64          `json:"active_products"`
	TotalCustomers int64          `json:"total_customers"`
	RecentOrders   []models.Order `json:"recent_orders"`
}

// SalesReport aggregates order, product and customer counts with the ten
// most recent orders (gerente only)
func (rc *ReportController) SalesReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	totalOrders, err := rc.Orders.CountOrders(ctx)
	if err != nil {
		http.Error(w, "Failed to count orders", http.StatusInternalServerError)
		return
	}
	revenue, err := rc.Orders.TotalRevenue(ctx)
	if err != nil {
		http.Error(w, "Failed to compute revenue", http.StatusInternalServerError)
		return
	}
	activeProducts, err := rc.Products.CountActiveProducts(ctx)
	if err != nil {
		http.Error(w, "Failed to count products", http.StatusInternalServerError)
		return
	}
	customers, err := rc.Profiles.CountProfiles(ctx)
	if err != nil {
		http.Error(w, "Failed to count customers", http.StatusInternalServerError)
		return
	}
	recent, err := rc.Orders.ListRecentOrders(ctx, 10)
	if err != nil {
		http.Error(w, "Failed to list recent orders", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(salesReport{
		TotalOrders:    totalOrders,
		TotalRevenue:   revenue,
		ActiveProducts: activeProducts,
		TotalCustomers: customers,
		RecentOrders:   recent,
	})
}
