package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering an email that is taken.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrDuplicateRole is returned when assigning a role the user holds.
	ErrDuplicateRole = errors.New("role already assigned")
	// ErrActionNotAvailable is returned when an order transition's guard
	// fails, including losing a race for a pending order.
	ErrActionNotAvailable = errors.New("action not available")
)

// ProfileStore persists accounts (the profiles collection).
type ProfileStore interface {
	CreateProfile(ctx context.Context, p models.Profile) (primitive.ObjectID, error)
	GetProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	GetProfileByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error)
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CountProfiles(ctx context.Context) (int64, error)
}

// RoleStore persists role grants (the user_roles collection).
type RoleStore interface {
	RolesFor(ctx context.Context, userID primitive.ObjectID) ([]models.Role, error)
	AddRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error
	RemoveRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error
}

// ProductStore persists menu items. Deactivate is the only delete:
// products are soft-deleted so order history stays valid.
type ProductStore interface {
	CreateProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeactivateProduct(ctx context.Context, id primitive.ObjectID) error
	GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	ListActiveProducts(ctx context.Context) ([]models.Product, error)
	CountActiveProducts(ctx context.Context) (int64, error)
}

// CartStore persists one cart per user. GetCart returns an empty cart
// (not an error) when the user has none yet.
type CartStore interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	SaveCart(ctx context.Context, cart models.Cart) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

// OrderStore persists orders and their items. AcceptOrder and AdvanceOrder
// are conditional updates: the guard is part of the filter, so a failed
// guard mutates nothing and two racing accepts can never both win.
type OrderStore interface {
	CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (primitive.ObjectID, error)
	GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	GetOrderItems(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error)
	ListOrdersByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error)

	// ListDeliveryCandidates returns every pending order, plus accepted and
	// delivering orders assigned to deliveryPersonID.
	ListDeliveryCandidates(ctx context.Context, deliveryPersonID primitive.ObjectID) ([]models.Order, error)
	ListRecentOrders(ctx context.Context, limit int64) ([]models.Order, error)
	CountOrders(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)

	// AcceptOrder moves a pending, unassigned order to accepted and assigns
	// deliveryPersonID, returning the updated order. ErrActionNotAvailable
	// when the order is not pending or already taken.
	AcceptOrder(ctx context.Context, orderID, deliveryPersonID primitive.ObjectID) (models.Order, error)

	// AdvanceOrder moves an order from one status to the next, only when it
	// is currently in from and assigned to actor.
	AdvanceOrder(ctx context.Context, orderID primitive.ObjectID, from, to models.OrderStatus, actor primitive.ObjectID) (models.Order, error)
}

// Store bundles every per-collection store the controllers need.
type Store interface {
	ProfileStore
	RoleStore
	ProductStore
	CartStore
	OrderStore
}
