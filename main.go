// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/aarthurcreis/hungryhub-proto/controllers"
	"github.com/aarthurcreis/hungryhub-proto/routes"
	"github.com/aarthurcreis/hungryhub-proto/store"
	"github.com/aarthurcreis/hungryhub-proto/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := store.Connect(uri)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	st := store.NewMongoStore(client, "hungryhub")

	// Seed the canonical test accounts when asked to
	if os.Getenv("SEED_TEST_USERS") == "true" {
		if err := seedTestUsers(st); err != nil {
			log.Printf("Seeding test users failed: %v", err)
		}
	}

	// Initialize controllers
	feed := controllers.NewOrderFeed()
	userController := controllers.NewUserController(st, st)
	productController := controllers.NewProductController(st)
	cartController := controllers.NewCartController(st, st)
	orderController := controllers.NewOrderController(st, st, emailService, feed)
	reportController := controllers.NewReportController(st, st, st)
	adminController := controllers.NewAdminController(st, st)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, productController, cartController, orderController, reportController, adminController, feed)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
