package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"storefront-bot/internal/apperr"
	"storefront-bot/internal/entity"
	"storefront-bot/internal/notifier"
	"storefront-bot/internal/session"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[int]*entity.Product
	nextID   int
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[int]*entity.Product{}, nextID: 1}
	for _, p := range products {
		r.products[p.ID] = p
		if p.ID >= r.nextID {
			r.nextID = p.ID + 1
		}
	}
	return r
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id int) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.products {
		if activeOnly && !p.IsActive {
			continue
		}
		clone := *p
		out = append(out, &clone)
	}
	return out, nil
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product.ID = r.nextID
	r.nextID++
	clone := *product
	r.products[product.ID] = &clone
	return product, nil
}

func (r *fakeProductRepo) SetActive(ctx context.Context, id int, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
	}
	p.IsActive = active
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product %d: %w", id, apperr.ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) stock(id int) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[id].Stock
}

type fakeCartRepo struct {
	mu    sync.Mutex
	carts map[int64][]entity.CartLine
	seen  map[int64]bool
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[int64][]entity.CartLine{}, seen: map[int64]bool{}}
}

func (r *fakeCartRepo) GetByUser(ctx context.Context, userID int64) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.seen[userID] {
		return nil, nil
	}
	cart := &entity.Cart{UserID: userID}
	cart.Lines = append(cart.Lines, r.carts[userID]...)
	return cart, nil
}

func (r *fakeCartRepo) UpsertLine(ctx context.Context, userID int64, line entity.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[userID] = true
	for i, existing := range r.carts[userID] {
		if existing.SameIdentity(line) {
			// Quantity accumulates; the stored price snapshot wins.
			r.carts[userID][i].Quantity = existing.Quantity.Add(line.Quantity)
			return nil
		}
	}
	r.carts[userID] = append(r.carts[userID], line)
	return nil
}

func (r *fakeCartRepo) Clear(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seen[userID] = true
	r.carts[userID] = nil
	return nil
}

type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[int]*entity.Order
	nextID    int
	products  *fakeProductRepo
	createErr error
}

func newFakeOrderRepo(products *fakeProductRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int]*entity.Order{}, nextID: 1, products: products}
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Mirror the transactional stock guard: validate everything before
	// touching anything, so a failure leaves no partial state.
	if r.products != nil {
		for _, item := range order.Items {
			p, ok := r.products.products[item.ProductID]
			if !ok || p.Stock.LessThan(item.Quantity) {
				return nil, fmt.Errorf("product %d: %w", item.ProductID, apperr.ErrInsufficientStock)
			}
		}
		for _, item := range order.Items {
			p := r.products.products[item.ProductID]
			p.Stock = p.Stock.Sub(item.Quantity)
		}
	}

	order.ID = r.nextID
	r.nextID++
	clone := *order
	r.orders[order.ID] = &clone
	return order, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id int) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, apperr.ErrOrderNotFound)
	}
	clone := *o
	return &clone, nil
}

func (r *fakeOrderRepo) ListByStatus(ctx context.Context, status entity.OrderStatus) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Order
	for _, o := range r.orders {
		if o.Status == status {
			clone := *o
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatusFrom(ctx context.Context, id int, from, to entity.OrderStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[int64]*entity.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[int64]*entity.Customer{}}
}

func (r *fakeCustomerRepo) Upsert(ctx context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *customer
	if existing, ok := r.customers[customer.UserID]; ok && customer.DeliveryAddress == "" {
		clone.DeliveryAddress = existing.DeliveryAddress
	}
	r.customers[customer.UserID] = &clone
	return nil
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, userID int64) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.customers[userID]
	if !ok {
		return nil, nil
	}
	clone := *c
	return &clone, nil
}

type fakePublisher struct {
	mu      sync.Mutex
	notices []notifier.Notice
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, notice notifier.Notice) error {
	if p.err != nil {
		return p.err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, notice)
	return nil
}

func (p *fakePublisher) byType(t notifier.Type) []notifier.Notice {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []notifier.Notice
	for _, n := range p.notices {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

type memPendingStore struct {
	mu     sync.Mutex
	inputs map[int64]*session.PendingInput
}

func newMemPendingStore() *memPendingStore {
	return &memPendingStore{inputs: map[int64]*session.PendingInput{}}
}

func (s *memPendingStore) Set(ctx context.Context, userID int64, input session.PendingInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs[userID] = &input
	return nil
}

func (s *memPendingStore) Get(ctx context.Context, userID int64) (*session.PendingInput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if input, ok := s.inputs[userID]; ok {
		clone := *input
		return &clone, nil
	}
	return nil, nil
}

func (s *memPendingStore) Clear(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inputs, userID)
	return nil
}
