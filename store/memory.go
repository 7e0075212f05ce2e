package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

// MemoryStore is a Store kept entirely in process memory, guarded by a
// single mutex. It backs tests and local runs without a MongoDB instance;
// the mutex gives it the same exactly-one-winner accept semantics as the
// conditional update in MongoStore.
type MemoryStore struct {
	mu         sync.Mutex
	profiles   map[primitive.ObjectID]models.Profile
	userRoles  []models.UserRole
	products   map[primitive.ObjectID]models.Product
	carts      map[primitive.ObjectID]models.Cart
	orders     map[primitive.ObjectID]models.Order
	orderItems map[primitive.ObjectID][]models.OrderItem
	orderSeq   []primitive.ObjectID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles:   make(map[primitive.ObjectID]models.Profile),
		products:   make(map[primitive.ObjectID]models.Product),
		carts:      make(map[primitive.ObjectID]models.Cart),
		orders:     make(map[primitive.ObjectID]models.Order),
		orderItems: make(map[primitive.ObjectID][]models.OrderItem),
	}
}

func (s *MemoryStore) CreateProfile(_ context.Context, p models.Profile) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.profiles {
		if existing.Email == p.Email {
			return primitive.NilObjectID, ErrDuplicateEmail
		}
	}
	p.ID = primitive.NewObjectID()
	s.profiles[p.ID] = p
	return p.ID, nil
}

func (s *MemoryStore) GetProfileByEmail(_ context.Context, email string) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Email == email {
			return p, nil
		}
	}
	return models.Profile{}, ErrNotFound
}

func (s *MemoryStore) GetProfileByID(_ context.Context, id primitive.ObjectID) (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.Profile{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListProfiles(_ context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profiles := make([]models.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].Email < profiles[j].Email })
	return profiles, nil
}

func (s *MemoryStore) CountProfiles(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.profiles)), nil
}

func (s *MemoryStore) RolesFor(_ context.Context, userID primitive.ObjectID) ([]models.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roles := []models.Role{}
	for _, g := range s.userRoles {
		if g.UserID == userID {
			roles = append(roles, g.Role)
		}
	}
	return roles, nil
}

func (s *MemoryStore) AddRole(_ context.Context, userID primitive.ObjectID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.userRoles {
		if g.UserID == userID && g.Role == role {
			return ErrDuplicateRole
		}
	}
	s.userRoles = append(s.userRoles, models.UserRole{UserID: userID, Role: role})
	return nil
}

func (s *MemoryStore) RemoveRole(_ context.Context, userID primitive.ObjectID, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, g := range s.userRoles {
		if g.UserID == userID && g.Role == role {
			s.userRoles = append(s.userRoles[:i], s.userRoles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) CreateProduct(_ context.Context, p models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = primitive.NewObjectID()
	s.products[p.ID] = p
	return p.ID, nil
}

func (s *MemoryStore) UpdateProduct(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.products[p.ID]
	if !ok {
		return ErrNotFound
	}
	existing.Name = p.Name
	existing.Description = p.Description
	existing.Price = p.Price
	existing.ImageRef = p.ImageRef
	s.products[p.ID] = existing
	return nil
}

func (s *MemoryStore) DeactivateProduct(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return ErrNotFound
	}
	p.Active = false
	s.products[id] = p
	return nil
}

func (s *MemoryStore) GetProduct(_ context.Context, id primitive.ObjectID) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) ListActiveProducts(_ context.Context) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := []models.Product{}
	for _, p := range s.products {
		if p.Active {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *MemoryStore) CountActiveProducts(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, p := range s.products {
		if p.Active {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) GetCart(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[userID]
	if !ok {
		return models.Cart{UserID: userID}, nil
	}
	return cart, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, cart models.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.UserID] = cart
	return nil
}

func (s *MemoryStore) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

func (s *MemoryStore) CreateOrder(_ context.Context, order models.Order, items []models.OrderItem) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order.ID = primitive.NewObjectID()
	s.orders[order.ID] = order
	s.orderSeq = append(s.orderSeq, order.ID)
	stored := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = order.ID
		stored = append(stored, item)
	}
	s.orderItems[order.ID] = stored
	return order.ID, nil
}

func (s *MemoryStore) GetOrder(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return models.Order{}, ErrNotFound
	}
	return order, nil
}

func (s *MemoryStore) GetOrderItems(_ context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orderItems[orderID], nil
}

func (s *MemoryStore) ListOrdersByCustomer(_ context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for i := len(s.orderSeq) - 1; i >= 0; i-- {
		order := s.orders[s.orderSeq[i]]
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (s *MemoryStore) ListDeliveryCandidates(_ context.Context, deliveryPersonID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for _, id := range s.orderSeq {
		order := s.orders[id]
		switch order.Status {
		case models.StatusPending:
			orders = append(orders, order)
		case models.StatusAccepted, models.StatusDelivering:
			if order.DeliveryPersonID != nil && *order.DeliveryPersonID == deliveryPersonID {
				orders = append(orders, order)
			}
		}
	}
	return orders, nil
}

func (s *MemoryStore) ListRecentOrders(_ context.Context, limit int64) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for i := len(s.orderSeq) - 1; i >= 0 && int64(len(orders)) < limit; i-- {
		orders = append(orders, s.orders[s.orderSeq[i]])
	}
	return orders, nil
}

func (s *MemoryStore) CountOrders(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.orders)), nil
}

func (s *MemoryStore) TotalRevenue(_ context.Context) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, order := range s.orders {
		total += order.Total
	}
	return total, nil
}

func (s *MemoryStore) AcceptOrder(_ context.Context, orderID, deliveryPersonID primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != models.StatusPending || order.DeliveryPersonID != nil {
		return models.Order{}, ErrActionNotAvailable
	}
	order.Status = models.StatusAccepted
	order.DeliveryPersonID = &deliveryPersonID
	s.orders[orderID] = order
	return order, nil
}

func (s *MemoryStore) AdvanceOrder(_ context.Context, orderID primitive.ObjectID, from, to models.OrderStatus, actor primitive.ObjectID) (models.Order, error) {
	if !from.CanTransition(to) {
		return models.Order{}, ErrActionNotAvailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok || order.Status != from {
		return models.Order{}, ErrActionNotAvailable
	}
	if order.DeliveryPersonID == nil || *order.DeliveryPersonID != actor {
		return models.Order{}, ErrActionNotAvailable
	}
	order.Status = to
	s.orders[orderID] = order
	return order, nil
}
