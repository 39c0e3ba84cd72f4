package repository

import (
	"context"
	"errors"

	"github.com/allinsys/contactforms/internal/models"
)

// ErrNotFound is returned when no document matches a lookup
var ErrNotFound = errors.New("contact not found")

// Document field names shared by the store implementations
const (
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPhoneKey  = "phoneKey"
	FieldWebsite   = "website"
	FieldSource    = "source"
	FieldCreatedAt = "createdAt"
)

// ContactFilter restricts a listing by equality; zero values are ignored
type ContactFilter struct {
	Website models.Website
	Source  models.Source
}

// ContactRepository defines the document store operations used by the contact service
type ContactRepository interface {
	// Create adds a new document; the store assigns ID and CreatedAt
	Create(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	// GetByID returns a contact by document ID or ErrNotFound
	GetByID(ctx context.Context, id string) (*models.Contact, error)
	// FindOneByField returns any contact whose field equals value, or ErrNotFound
	FindOneByField(ctx context.Context, field, value string) (*models.Contact, error)
	// List returns every contact matching filter ordered by createdAt descending
	List(ctx context.Context, filter ContactFilter) ([]*models.Contact, error)
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}
