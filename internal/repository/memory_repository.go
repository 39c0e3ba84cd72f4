package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/allinsys/contactforms/internal/models"

	"github.com/google/uuid"
)

// MemoryContactRepository is an in-process ContactRepository used for local
// development (STORE_DRIVER=memory) and tests. Contents are lost on restart.
type MemoryContactRepository struct {
	mu       sync.RWMutex
	contacts []*models.Contact
	byID     map[string]*models.Contact
	now      func() time.Time
}

// MemoryOption configures a MemoryContactRepository
type MemoryOption func(*MemoryContactRepository)

// WithClock overrides the timestamp source used for CreatedAt
func WithClock(now func() time.Time) MemoryOption {
	return func(r *MemoryContactRepository) {
		if now != nil {
			r.now = now
		}
	}
}

func NewMemoryContactRepository(opts ...MemoryOption) *MemoryContactRepository {
	r := &MemoryContactRepository{
		byID: make(map[string]*models.Contact),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *MemoryContactRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	saved := *contact
	saved.ID = uuid.New().String()
	saved.CreatedAt = r.now()

	r.mu.Lock()
	r.contacts = append(r.contacts, &saved)
	r.byID[saved.ID] = &saved
	r.mu.Unlock()

	out := saved
	return &out, nil
}

func (r *MemoryContactRepository) GetByID(ctx context.Context, id string) (*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	contact, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *contact
	return &out, nil
}

func (r *MemoryContactRepository) FindOneByField(ctx context.Context, field, value string) (*models.Contact, error) {
	// omitempty fields are absent in the document store and never match
	if value == "" {
		return nil, ErrNotFound
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, contact := range r.contacts {
		if fieldValue(contact, field) == value {
			out := *contact
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryContactRepository) List(ctx context.Context, filter ContactFilter) ([]*models.Contact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// newest insertion first so equal timestamps keep a stable, descending order
	result := make([]*models.Contact, 0, len(r.contacts))
	for i := len(r.contacts) - 1; i >= 0; i-- {
		contact := r.contacts[i]
		if filter.Website != "" && contact.Website != filter.Website {
			continue
		}
		if filter.Source != "" && contact.Source != filter.Source {
			continue
		}
		out := *contact
		result = append(result, &out)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryContactRepository) Ping(ctx context.Context) error {
	return nil
}

func fieldValue(contact *models.Contact, field string) string {
	switch field {
	case FieldEmail:
		return contact.Email
	case FieldPhone:
		return contact.Phone
	case FieldPhoneKey:
		return contact.PhoneKey
	case FieldWebsite:
		return string(contact.Website)
	case FieldSource:
		return string(contact.Source)
	}
	return ""
}
