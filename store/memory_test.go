package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

func newPendingOrder(t *testing.T, s *MemoryStore) primitive.ObjectID {
	t.Helper()
	id, err := s.CreateOrder(context.Background(), models.Order{
		OrderNumber: "#TEST01",
		CustomerID:  primitive.NewObjectID(),
		Address:     "Rua das Flores, 123",
		Status:      models.StatusPending,
		Total:       87.40,
	}, nil)
	require.NoError(t, err)
	return id
}

func TestAcceptOrderAssignsWorker(t *testing.T) {
	s := NewMemoryStore()
	orderID := newPendingOrder(t, s)
	worker := primitive.NewObjectID()

	order, err := s.AcceptOrder(context.Background(), orderID, worker)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, order.Status)
	require.NotNil(t, order.DeliveryPersonID)
	assert.Equal(t, worker, *order.DeliveryPersonID)
}

func TestAcceptOrderConcurrentExactlyOneWinner(t *testing.T) {
	s := NewMemoryStore()
	orderID := newPendingOrder(t, s)

	const workers = 8
	ids := make([]primitive.ObjectID, workers)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.AcceptOrder(context.Background(), orderID, ids[i])
		}(i)
	}
	wg.Wait()

	winners := []primitive.ObjectID{}
	for i, err := range errs {
		if err == nil {
			winners = append(winners, ids[i])
		} else {
			assert.ErrorIs(t, err, ErrActionNotAvailable)
		}
	}
	require.Len(t, winners, 1, "exactly one accept must succeed")

	order, err := s.GetOrder(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, order.Status)
	require.NotNil(t, order.DeliveryPersonID)
	assert.Equal(t, winners[0], *order.DeliveryPersonID)
}

func TestAdvanceOrderGuards(t *testing.T) {
	s := NewMemoryStore()
	orderID := newPendingOrder(t, s)
	worker := primitive.NewObjectID()
	other := primitive.NewObjectID()
	ctx := context.Background()

	// No forward step other than accept is available from pending.
	_, err := s.AdvanceOrder(ctx, orderID, models.StatusAccepted, models.StatusDelivering, worker)
	assert.ErrorIs(t, err, ErrActionNotAvailable)
	_, err = s.AdvanceOrder(ctx, orderID, models.StatusPending, models.StatusDelivered, worker)
	assert.ErrorIs(t, err, ErrActionNotAvailable)

	order, err := s.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, order.Status, "rejected transitions must not mutate the order")
	assert.Nil(t, order.DeliveryPersonID)

	_, err = s.AcceptOrder(ctx, orderID, worker)
	require.NoError(t, err)

	// Only the assigned worker may advance.
	_, err = s.AdvanceOrder(ctx, orderID, models.StatusAccepted, models.StatusDelivering, other)
	assert.ErrorIs(t, err, ErrActionNotAvailable)

	order, err = s.AdvanceOrder(ctx, orderID, models.StatusAccepted, models.StatusDelivering, worker)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivering, order.Status)

	order, err = s.AdvanceOrder(ctx, orderID, models.StatusDelivering, models.StatusDelivered, worker)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDelivered, order.Status)

	// Delivered is terminal.
	_, err = s.AdvanceOrder(ctx, orderID, models.StatusDelivered, models.StatusPending, worker)
	assert.ErrorIs(t, err, ErrActionNotAvailable)
}

func TestAcceptedOrderCannotBeAcceptedAgain(t *testing.T) {
	s := NewMemoryStore()
	orderID := newPendingOrder(t, s)
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	ctx := context.Background()

	_, err := s.AcceptOrder(ctx, orderID, first)
	require.NoError(t, err)

	_, err = s.AcceptOrder(ctx, orderID, second)
	assert.ErrorIs(t, err, ErrActionNotAvailable)

	order, err := s.GetOrder(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, first, *order.DeliveryPersonID)
}

func TestListDeliveryCandidatesVisibility(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	me := primitive.NewObjectID()
	other := primitive.NewObjectID()

	pending := newPendingOrder(t, s)
	mine := newPendingOrder(t, s)
	theirs := newPendingOrder(t, s)

	_, err := s.AcceptOrder(ctx, mine, me)
	require.NoError(t, err)
	_, err = s.AcceptOrder(ctx, theirs, other)
	require.NoError(t, err)

	orders, err := s.ListDeliveryCandidates(ctx, me)
	require.NoError(t, err)

	got := map[primitive.ObjectID]bool{}
	for _, o := range orders {
		got[o.ID] = true
	}
	assert.True(t, got[pending], "pending orders are visible to everyone")
	assert.True(t, got[mine], "own in-flight orders stay visible")
	assert.False(t, got[theirs], "another worker's accepted order must disappear")
}

func TestSoftDeletedProductLeavesCatalog(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, err := s.CreateProduct(ctx, models.Product{Name: "Burger", Price: 29.90, Active: true})
	require.NoError(t, err)

	require.NoError(t, s.DeactivateProduct(ctx, id))

	products, err := s.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)

	// The document itself survives for order history.
	p, err := s.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.Active)
}

func TestRoleGrants(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	userID := primitive.NewObjectID()

	require.NoError(t, s.AddRole(ctx, userID, models.RoleCliente))
	require.NoError(t, s.AddRole(ctx, userID, models.RoleEntregador))
	assert.ErrorIs(t, s.AddRole(ctx, userID, models.RoleCliente), ErrDuplicateRole)

	roles, err := s.RolesFor(ctx, userID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Role{models.RoleCliente, models.RoleEntregador}, roles)

	require.NoError(t, s.RemoveRole(ctx, userID, models.RoleEntregador))
	assert.ErrorIs(t, s.RemoveRole(ctx, userID, models.RoleEntregador), ErrNotFound)

	roles, err = s.RolesFor(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []models.Role{models.RoleCliente}, roles)
}
