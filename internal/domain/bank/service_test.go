package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bloodlink/bloodlink/internal/domain/blood"
)

type stockKey struct {
	bankID uuid.UUID
	group  blood.Group
}

type mockRepo struct {
	banks    map[uuid.UUID]*Bank
	stock    map[stockKey]int
	failNext error
}

func newMockRepo() *mockRepo {
	return &mockRepo{banks: make(map[uuid.UUID]*Bank), stock: make(map[stockKey]int)}
}

func (m *mockRepo) fail() error {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	return nil
}

func copyBank(b *Bank) *Bank {
	cp := *b
	return &cp
}

func (m *mockRepo) Create(_ context.Context, b *Bank) error {
	if err := m.fail(); err != nil {
		return err
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.banks[b.ID] = copyBank(b)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Bank, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	b, ok := m.banks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyBank(b), nil
}

func (m *mockRepo) GetByUserID(_ context.Context, userID string) (*Bank, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	for _, b := range m.banks {
		if b.UserID == userID {
			return copyBank(b), nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Update(_ context.Context, b *Bank) error {
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.banks[b.ID]; !ok {
		return ErrNotFound
	}
	m.banks[b.ID] = copyBank(b)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.banks[id]; !ok {
		return ErrNotFound
	}
	delete(m.banks, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, city string, limit, offset int) ([]*Bank, int, error) {
	if err := m.fail(); err != nil {
		return nil, 0, err
	}
	var items []*Bank
	for _, b := range m.banks {
		if city == "" || b.City == city {
			items = append(items, copyBank(b))
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) SetStock(_ context.Context, bankID uuid.UUID, group blood.Group, units int) (*StockEntry, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	m.stock[stockKey{bankID, group}] = units
	return &StockEntry{BankID: bankID, Group: group, Units: units, UpdatedAt: time.Now()}, nil
}

func (m *mockRepo) AdjustStock(_ context.Context, bankID uuid.UUID, group blood.Group, delta int) (*StockEntry, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	k := stockKey{bankID, group}
	next := m.stock[k] + delta
	if next < 0 {
		return nil, ErrInsufficientStock
	}
	m.stock[k] = next
	return &StockEntry{BankID: bankID, Group: group, Units: next, UpdatedAt: time.Now()}, nil
}

func (m *mockRepo) ListStock(_ context.Context, bankID uuid.UUID) ([]*StockEntry, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	var items []*StockEntry
	for k, units := range m.stock {
		if k.bankID == bankID {
			items = append(items, &StockEntry{BankID: bankID, Group: k.group, Units: units})
		}
	}
	return items, nil
}

func validBank() *Bank {
	return &Bank{Name: "Central Blood Bank", City: "Pune", Phone: "+91555"}
}

func TestRegister(t *testing.T) {
	svc := NewService(newMockRepo())
	b := validBank()
	if err := svc.Register(context.Background(), "bank-1", b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.UserID != "bank-1" {
		t.Errorf("expected user id stamped from actor, got %q", b.UserID)
	}
}

func TestSetStock(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}

	e, err := svc.SetStock(ctx, "bank-1", b.ID, blood.ONeg, 12)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Units != 12 {
		t.Errorf("expected 12 units, got %d", e.Units)
	}

	// Replacement, not accumulation.
	e, err = svc.SetStock(ctx, "bank-1", b.ID, blood.ONeg, 5)
	if err != nil {
		t.Fatal(err)
	}
	if e.Units != 5 {
		t.Errorf("expected 5 units after replace, got %d", e.Units)
	}
}

func TestSetStock_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.SetStock(ctx, "bank-1", b.ID, "X+", 1); err == nil {
		t.Error("expected error for unknown group")
	}
	if _, err := svc.SetStock(ctx, "bank-1", b.ID, blood.ONeg, -1); err == nil {
		t.Error("expected error for negative units")
	}
	if _, err := svc.SetStock(ctx, "bank-1", uuid.New(), blood.ONeg, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown bank, got %v", err)
	}
}

func TestAdjustStock(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStock(ctx, "bank-1", b.ID, blood.APos, 10); err != nil {
		t.Fatal(err)
	}

	e, err := svc.AdjustStock(ctx, "bank-1", b.ID, blood.APos, -4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.Units != 6 {
		t.Errorf("expected 6 units after issue, got %d", e.Units)
	}
}

func TestAdjustStock_Insufficient(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SetStock(ctx, "bank-1", b.ID, blood.APos, 3); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.AdjustStock(ctx, "bank-1", b.ID, blood.APos, -5); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	// Count is unchanged after the rejected withdrawal.
	items, err := svc.Stock(ctx, b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 || items[0].Units != 3 {
		t.Errorf("expected stock untouched, got %+v", items)
	}
}

func TestAdjustStock_ZeroDelta(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	b := validBank()
	if err := svc.Register(ctx, "bank-1", b); err != nil {
		t.Fatal(err)
	}
	var ve *ValidationError
	_, err := svc.AdjustStock(ctx, "bank-1", b.ID, blood.APos, 0)
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error for zero delta, got %v", err)
	}
}
