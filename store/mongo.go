package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

// Connect opens a MongoDB client and verifies the connection.
func Connect(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return client, nil
}

// MongoStore implements Store on top of MongoDB collections.
type MongoStore struct {
	profiles   *mongo.Collection
	userRoles  *mongo.Collection
	products   *mongo.Collection
	carts      *mongo.Collection
	orders     *mongo.Collection
	orderItems *mongo.Collection
}

// NewMongoStore creates a MongoStore over the named database.
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	db := client.Database(dbName)
	return &MongoStore{
		profiles:   db.Collection("profiles"),
		userRoles:  db.Collection("user_roles"),
		products:   db.Collection("products"),
		carts:      db.Collection("carts"),
		orders:     db.Collection("orders"),
		orderItems: db.Collection("order_items"),
	}
}

func (s *MongoStore) CreateProfile(ctx context.Context, p models.Profile) (primitive.ObjectID, error) {
	count, err := s.profiles.CountDocuments(ctx, bson.M{"email": p.Email})
	if err != nil {
		return primitive.NilObjectID, err
	}
	if count > 0 {
		return primitive.NilObjectID, ErrDuplicateEmail
	}

	result, err := s.profiles.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) GetProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := s.profiles.FindOne(ctx, bson.M{"email": email}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, ErrNotFound
	}
	return p, err
}

func (s *MongoStore) GetProfileByID(ctx context.Context, id primitive.ObjectID) (models.Profile, error) {
	var p models.Profile
	err := s.profiles.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, ErrNotFound
	}
	return p, err
}

func (s *MongoStore) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	cursor, err := s.profiles.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *MongoStore) CountProfiles(ctx context.Context) (int64, error) {
	return s.profiles.CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) RolesFor(ctx context.Context, userID primitive.ObjectID) ([]models.Role, error) {
	cursor, err := s.userRoles.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var grants []models.UserRole
	if err := cursor.All(ctx, &grants); err != nil {
		return nil, err
	}
	roles := make([]models.Role, 0, len(grants))
	for _, g := range grants {
		roles = append(roles, g.Role)
	}
	return roles, nil
}

func (s *MongoStore) AddRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	count, err := s.userRoles.CountDocuments(ctx, bson.M{"user_id": userID, "role": role})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateRole
	}
	_, err = s.userRoles.InsertOne(ctx, models.UserRole{UserID: userID, Role: role})
	return err
}

func (s *MongoStore) RemoveRole(ctx context.Context, userID primitive.ObjectID, role models.Role) error {
	result, err := s.userRoles.DeleteOne(ctx, bson.M{"user_id": userID, "role": role})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateProduct(ctx context.Context, p models.Product) (primitive.ObjectID, error) {
	result, err := s.products.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return result.InsertedID.(primitive.ObjectID), nil
}

func (s *MongoStore) UpdateProduct(ctx context.Context, p models.Product) error {
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price,
		"image_ref":   p.ImageRef,
	}}
	result, err := s.products.UpdateOne(ctx, bson.M{"_id": p.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) DeactivateProduct(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.products.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"active": false}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) GetProduct(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
	var p models.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Product{}, ErrNotFound
	}
	return p, err
}

func (s *MongoStore) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{"active": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *MongoStore) CountActiveProducts(ctx context.Context) (int64, error) {
	return s.products.CountDocuments(ctx, bson.M{"active": true})
}

func (s *MongoStore) GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	var cart models.Cart
	err := s.carts.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err == mongo.ErrNoDocuments {
		return models.Cart{UserID: userID}, nil
	}
	return cart, err
}

func (s *MongoStore) SaveCart(ctx context.Context, cart models.Cart) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.carts.ReplaceOne(ctx, bson.M{"user_id": cart.UserID}, cart, opts)
	return err
}

func (s *MongoStore) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.carts.DeleteOne(ctx, bson.M{"user_id": userID})
	return err
}

func (s *MongoStore) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (primitive.ObjectID, error) {
	result, err := s.orders.InsertOne(ctx, order)
	if err != nil {
		return primitive.NilObjectID, err
	}
	orderID := result.InsertedID.(primitive.ObjectID)

	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		item.OrderID = orderID
		docs = append(docs, item)
	}
	if len(docs) > 0 {
		if _, err := s.orderItems.InsertMany(ctx, docs); err != nil {
			return primitive.NilObjectID, err
		}
	}
	return orderID, nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var order models.Order
	err := s.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrNotFound
	}
	return order, err
}

func (s *MongoStore) GetOrderItems(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	cursor, err := s.orderItems.Find(ctx, bson.M{"order_id": orderID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.OrderItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *MongoStore) ListOrdersByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.orders.Find(ctx, bson.M{"customer_id": customerID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) ListDeliveryCandidates(ctx context.Context, deliveryPersonID primitive.ObjectID) ([]models.Order, error) {
	// Pending orders are visible to everyone; accepted and delivering
	// orders only to the worker they are assigned to.
	filter := bson.M{"$or": bson.A{
		bson.M{"status": models.StatusPending},
		bson.M{
			"status":             bson.M{"$in": bson.A{models.StatusAccepted, models.StatusDelivering}},
			"delivery_person_id": deliveryPersonID,
		},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := s.orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) ListRecentOrders(ctx context.Context, limit int64) ([]models.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cursor, err := s.orders.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *MongoStore) CountOrders(ctx context.Context) (int64, error) {
	return s.orders.CountDocuments(ctx, bson.M{})
}

func (s *MongoStore) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "revenue": bson.M{"$sum": "$total"}}}},
	}
	cursor, err := s.orders.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Revenue float64 `bson:"revenue"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].Revenue, nil
}

func (s *MongoStore) AcceptOrder(ctx context.Context, orderID, deliveryPersonID primitive.ObjectID) (models.Order, error) {
	// The guard lives in the filter: of two racing accepts only one can
	// match the pending, unassigned document.
	filter := bson.M{
		"_id":                orderID,
		"status":             models.StatusPending,
		"delivery_person_id": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"status":             models.StatusAccepted,
		"delivery_person_id": deliveryPersonID,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrActionNotAvailable
	}
	return order, err
}

func (s *MongoStore) AdvanceOrder(ctx context.Context, orderID primitive.ObjectID, from, to models.OrderStatus, actor primitive.ObjectID) (models.Order, error) {
	if !from.CanTransition(to) {
		return models.Order{}, ErrActionNotAvailable
	}
	filter := bson.M{
		"_id":                orderID,
		"status":             from,
		"delivery_person_id": actor,
	}
	update := bson.M{"$set": bson.M{"status": to}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.orders.FindOneAndUpdate(ctx, filter, update, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return models.Order{}, ErrActionNotAvailable
	}
	return order, err
}
