package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/arveloz/erpforms/internal/domain"
)

type fakeCustomerRepo struct {
	byEmail map[string][]domain.Customer
	byID    map[uuid.UUID]*domain.Customer
	saved   []*domain.Customer
	findErr error
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{
		byEmail: map[string][]domain.Customer{},
		byID:    map[uuid.UUID]*domain.Customer{},
	}
}

func (f *fakeCustomerRepo) add(c domain.Customer) {
	f.byEmail[c.Email] = append(f.byEmail[c.Email], c)
	cc := c
	f.byID[c.ID] = &cc
}

func (f *fakeCustomerRepo) FindByEmail(_ context.Context, email string) ([]domain.Customer, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.byEmail[email], nil
}

func (f *fakeCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Customer, error) {
	if c, ok := f.byID[id]; ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeCustomerRepo) Save(_ context.Context, c *domain.Customer) error {
	f.saved = append(f.saved, c)
	f.add(*c)
	return nil
}

type fakeItemRepo struct {
	items map[uuid.UUID]*domain.Item
}

func newFakeItemRepo(items ...domain.Item) *fakeItemRepo {
	f := &fakeItemRepo{items: map[uuid.UUID]*domain.Item{}}
	for i := range items {
		f.items[items[i].ID] = &items[i]
	}
	return f
}

func (f *fakeItemRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	if it, ok := f.items[id]; ok {
		return it, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeItemRepo) ListActive(_ context.Context) ([]domain.Item, error) {
	out := make([]domain.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, nil
}

type fakeOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	saved     []*domain.Order
	listOut   []domain.Order
	subtotals []domain.OrderAmount
	taxes     []domain.OrderAmount
	subErr    error
	taxErr    error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[uuid.UUID]*domain.Order{}}
}

func (f *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	f.saved = append(f.saved, o)
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeOrderRepo) List(_ context.Context, _ domain.OrderFilter) ([]domain.Order, error) {
	return f.listOut, nil
}

func (f *fakeOrderRepo) SubtotalsByOrder(_ context.Context, _ domain.OrderFilter) ([]domain.OrderAmount, error) {
	return f.subtotals, f.subErr
}

func (f *fakeOrderRepo) TaxTotalsByOrder(_ context.Context, _ domain.OrderFilter) ([]domain.OrderAmount, error) {
	return f.taxes, f.taxErr
}

type fakeDepositRepo struct {
	sum   float64
	count int64
	err   error
}

func (f *fakeDepositRepo) SumActiveByOrder(_ context.Context, _ uuid.UUID) (float64, int64, error) {
	return f.sum, f.count, f.err
}

func (f *fakeDepositRepo) Save(_ context.Context, _ *domain.Deposit) error { return nil }

type fakeFulfillmentRepo struct {
	saved []*domain.Fulfillment
}

func (f *fakeFulfillmentRepo) Save(_ context.Context, ff *domain.Fulfillment) error {
	f.saved = append(f.saved, ff)
	return nil
}

type fakeEmployeeRepo struct {
	employees map[uuid.UUID]*domain.Employee
}

func newFakeEmployeeRepo(emps ...domain.Employee) *fakeEmployeeRepo {
	f := &fakeEmployeeRepo{employees: map[uuid.UUID]*domain.Employee{}}
	for i := range emps {
		f.employees[emps[i].ID] = &emps[i]
	}
	return f
}

func (f *fakeEmployeeRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

type fakeDonorRepo struct {
	saved  []*domain.Donor
	donors []domain.Donor
}

func (f *fakeDonorRepo) Save(_ context.Context, d *domain.Donor) error {
	f.saved = append(f.saved, d)
	return nil
}

func (f *fakeDonorRepo) FindByBloodGroup(_ context.Context, g domain.BloodGroup) ([]domain.Donor, error) {
	out := []domain.Donor{}
	for _, d := range f.donors {
		if d.BloodGroup == g {
			out = append(out, d)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	sent []sentMessage
	err  error
}

type sentMessage struct {
	Recipient string
	Subject   string
	Body      string
}

func (f *fakeNotifier) Send(_ context.Context, recipient, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{recipient, subject, body})
	return nil
}

type fakePublisher struct {
	published []*domain.Order
	err       error
}

func (f *fakePublisher) OrderCreated(_ context.Context, o *domain.Order) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, o)
	return nil
}

var errBoom = errors.New("boom")
