package camp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	camps         map[uuid.UUID]*Camp
	registrations []*Registration
	failNext      error
}

func newMockRepo() *mockRepo {
	return &mockRepo{camps: make(map[uuid.UUID]*Camp)}
}

func (m *mockRepo) fail() error {
	if err := m.failNext; err != nil {
		m.failNext = nil
		return err
	}
	return nil
}

func copyCamp(c *Camp) *Camp {
	cp := *c
	return &cp
}

func (m *mockRepo) Create(_ context.Context, c *Camp) error {
	if err := m.fail(); err != nil {
		return err
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	m.camps[c.ID] = copyCamp(c)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Camp, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	c, ok := m.camps[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCamp(c), nil
}

func (m *mockRepo) Update(_ context.Context, c *Camp) error {
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.camps[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now()
	m.camps[c.ID] = copyCamp(c)
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if err := m.fail(); err != nil {
		return err
	}
	if _, ok := m.camps[id]; !ok {
		return ErrNotFound
	}
	delete(m.camps, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, city string, limit, offset int) ([]*Camp, int, error) {
	if err := m.fail(); err != nil {
		return nil, 0, err
	}
	var items []*Camp
	for _, c := range m.camps {
		if city == "" || c.City == city {
			items = append(items, copyCamp(c))
		}
	}
	return items, len(items), nil
}

func (m *mockRepo) AddRegistration(_ context.Context, r *Registration) error {
	if err := m.fail(); err != nil {
		return err
	}
	for _, existing := range m.registrations {
		if existing.CampID == r.CampID && existing.DonorUserID == r.DonorUserID {
			return ErrAlreadyRegistered
		}
	}
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	cp := *r
	m.registrations = append(m.registrations, &cp)
	return nil
}

func (m *mockRepo) ListRegistrations(_ context.Context, campID uuid.UUID) ([]*Registration, error) {
	if err := m.fail(); err != nil {
		return nil, err
	}
	var items []*Registration
	for _, r := range m.registrations {
		if r.CampID == campID {
			cp := *r
			items = append(items, &cp)
		}
	}
	return items, nil
}

func validCamp() *Camp {
	starts := time.Now().Add(48 * time.Hour)
	return &Camp{
		Name:     "Community Drive",
		City:     "Pune",
		Address:  "Town Hall",
		StartsAt: starts,
		EndsAt:   starts.Add(6 * time.Hour),
	}
}

func TestCreate(t *testing.T) {
	svc := NewService(newMockRepo())
	c := validCamp()
	if err := svc.Create(context.Background(), "org-1", c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.OrganizerID != "org-1" {
		t.Errorf("expected organizer stamped from actor, got %q", c.OrganizerID)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	cases := []struct {
		name   string
		mutate func(*Camp)
		field  string
	}{
		{"missing name", func(c *Camp) { c.Name = "" }, "name"},
		{"missing city", func(c *Camp) { c.City = "" }, "city"},
		{"missing start", func(c *Camp) { c.StartsAt = time.Time{} }, "starts_at"},
		{"ends before starts", func(c *Camp) { c.EndsAt = c.StartsAt.Add(-time.Hour) }, "ends_at"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := validCamp()
			tc.mutate(c)
			err := svc.Create(context.Background(), "org-1", c)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("expected field %q, got %q", tc.field, ve.Field)
			}
		})
	}
}

func TestRegisterDonor(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	c := validCamp()
	if err := svc.Create(ctx, "org-1", c); err != nil {
		t.Fatal(err)
	}

	r, err := svc.RegisterDonor(ctx, "donor-1", c.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.DonorUserID != "donor-1" || r.CampID != c.ID {
		t.Errorf("unexpected registration: %+v", r)
	}

	regs, err := svc.Registrations(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(regs) != 1 {
		t.Errorf("expected 1 registration, got %d", len(regs))
	}
}

func TestRegisterDonor_Duplicate(t *testing.T) {
	svc := NewService(newMockRepo())
	ctx := context.Background()
	c := validCamp()
	if err := svc.Create(ctx, "org-1", c); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.RegisterDonor(ctx, "donor-1", c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RegisterDonor(ctx, "donor-1", c.ID); !errors.Is(err, ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestRegisterDonor_UnknownCamp(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.RegisterDonor(context.Background(), "donor-1", uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRegisterDonor_RequiresIdentity(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.RegisterDonor(context.Background(), "", uuid.New()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}
}
