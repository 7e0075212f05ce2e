package routes

import (
	"github.com/gorilla/mux"

	"github.com/aarthurcreis/hungryhub-proto/controllers"
	"github.com/aarthurcreis/hungryhub-proto/middleware"
	"github.com/aarthurcreis/hungryhub-proto/models"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	productController *controllers.ProductController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
	reportController *controllers.ReportController,
	adminController *controllers.AdminController,
	feed *controllers.OrderFeed,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")

	// Realtime order feed
	router.HandleFunc("/ws/orders", feed.Subscribe)

	// Routes for any authenticated user
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")

	// Menu
	protected.HandleFunc("/products", productController.GetProducts).Methods("GET")
	protected.HandleFunc("/products/{id}", productController.GetProductByID).Methods("GET")

	// Cart routes
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.AddToCart).Methods("POST")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/items/{product_id}", cartController.UpdateQuantity).Methods("PUT")
	protected.HandleFunc("/cart/items/{product_id}", cartController.RemoveFromCart).Methods("DELETE")

	// Checkout and tracking
	protected.HandleFunc("/checkout", orderController.Checkout).Methods("POST")
	protected.HandleFunc("/orders", orderController.GetOrders).Methods("GET")
	protected.HandleFunc("/orders/{id}", orderController.TrackOrder).Methods("GET")

	// Manager routes
	manager := protected.PathPrefix("/products").Subrouter()
	manager.Use(middleware.RequireRole(models.RoleGerente))
	manager.HandleFunc("", productController.CreateProduct).Methods("POST")
	manager.HandleFunc("/{id}", productController.UpdateProduct).Methods("PUT")
	manager.HandleFunc("/{id}", productController.DeleteProduct).Methods("DELETE")

	reports := protected.PathPrefix("/reports").Subrouter()
	reports.Use(middleware.RequireRole(models.RoleGerente))
	reports.HandleFunc("/sales", reportController.SalesReport).Methods("GET")

	// Delivery workflow routes
	delivery := protected.PathPrefix("/delivery").Subrouter()
	delivery.Use(middleware.RequireRole(models.RoleEntregador))
	delivery.HandleFunc("/orders", orderController.ListDeliveryOrders).Methods("GET")
	delivery.HandleFunc("/orders/{id}/accept", orderController.AcceptOrder).Methods("POST")
	delivery.HandleFunc("/orders/{id}/start", orderController.StartDelivery).Methods("POST")
	delivery.HandleFunc("/orders/{id}/complete", orderController.CompleteDelivery).Methods("POST")

	// Admin routes
	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireRole(models.RoleAdministrador))
	admin.HandleFunc("/users", adminController.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/roles", adminController.AddRole).Methods("POST")
	admin.HandleFunc("/users/{id}/roles/{role}", adminController.RemoveRole).Methods("DELETE")
}
