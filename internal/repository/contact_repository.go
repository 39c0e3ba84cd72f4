package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/metrics"
	"github.com/allinsys/contactforms/internal/models"

	"cloud.google.com/go/firestore"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/api/iterator"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection is the Firestore collection holding contact forms
const DefaultCollection = "contactForms"

var tracer = otel.Tracer("github.com/allinsys/contactforms/internal/repository")

// FirestoreContactRepository stores contacts in a single Firestore collection
type FirestoreContactRepository struct {
	client     *firestore.Client
	collection string
	metrics    *metrics.Metrics
}

// NewFirestoreContactRepository creates a repository over the given client.
// An empty collection falls back to DefaultCollection.
func NewFirestoreContactRepository(client *firestore.Client, collection string, m *metrics.Metrics) *FirestoreContactRepository {
	if collection == "" {
		collection = DefaultCollection
	}
	return &FirestoreContactRepository{
		client:     client,
		collection: collection,
		metrics:    m,
	}
}

func (r *FirestoreContactRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *FirestoreContactRepository) startSpan(ctx context.Context, operation string) (context.Context, trace.Span, func(error)) {
	ctx, span := tracer.Start(ctx, "firestore."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "firestore"),
			attribute.String("db.collection.name", r.collection),
			attribute.String("db.operation.name", operation),
		),
	)
	start := time.Now()
	return ctx, span, func(err error) {
		r.metrics.ObserveStoreOperation(operation, time.Since(start))
		if err != nil && !errors.Is(err, ErrNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *FirestoreContactRepository) Create(ctx context.Context, contact *models.Contact) (created *models.Contact, err error) {
	ctx, _, end := r.startSpan(ctx, "create")
	defer func() { end(err) }()

	ref, result, err := r.col().Add(ctx, contact)
	if err != nil {
		return nil, fmt.Errorf("failed to add contact: %w", err)
	}

	saved := *contact
	saved.ID = ref.ID
	// The server timestamp is resolved at commit time, which is the write's update time.
	saved.CreatedAt = result.UpdateTime
	return &saved, nil
}

func (r *FirestoreContactRepository) GetByID(ctx context.Context, id string) (contact *models.Contact, err error) {
	ctx, _, end := r.startSpan(ctx, "get")
	defer func() { end(err) }()

	// Doc returns nil for empty IDs and paths with separators
	if id == "" || strings.Contains(id, "/") {
		return nil, ErrNotFound
	}

	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if isMissingDocument(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contact %s: %w", id, err)
	}
	return snapshotToContact(snap)
}

// isMissingDocument reports Get errors that mean no document can exist under
// the requested ID: absent documents and IDs Firestore refuses, such as
// reserved __name__ forms.
func isMissingDocument(err error) bool {
	switch status.Code(err) {
	case grpccodes.NotFound, grpccodes.InvalidArgument:
		return true
	}
	return false
}

func (r *FirestoreContactRepository) FindOneByField(ctx context.Context, field, value string) (contact *models.Contact, err error) {
	ctx, span, end := r.startSpan(ctx, "find")
	defer func() { end(err) }()
	span.SetAttributes(attribute.String("contactforms.field", field))

	// Optional fields are omitted when empty, so an empty value never matches
	if value == "" {
		return nil, ErrNotFound
	}

	iter := r.col().Where(field, "==", value).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by %s: %w", field, err)
	}
	return snapshotToContact(snap)
}

func (r *FirestoreContactRepository) List(ctx context.Context, filter ContactFilter) (contacts []*models.Contact, err error) {
	ctx, _, end := r.startSpan(ctx, "list")
	defer func() { end(err) }()

	q := r.col().Query
	if filter.Website != "" {
		q = q.Where(FieldWebsite, "==", string(filter.Website))
	}
	if filter.Source != "" {
		q = q.Where(FieldSource, "==", string(filter.Source))
	}
	q = q.OrderBy(FieldCreatedAt, firestore.Desc)

	iter := q.Documents(ctx)
	defer iter.Stop()

	contacts = []*models.Contact{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list contacts: %w", err)
		}
		contact, err := snapshotToContact(snap)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func (r *FirestoreContactRepository) Ping(ctx context.Context) (err error) {
	ctx, _, end := r.startSpan(ctx, "ping")
	defer func() { end(err) }()

	iter := r.col().Limit(1).Documents(ctx)
	defer iter.Stop()
	if _, err = iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore unreachable: %w", err)
	}
	return nil
}

func snapshotToContact(snap *firestore.DocumentSnapshot) (*models.Contact, error) {
	var contact models.Contact
	if err := snap.DataTo(&contact); err != nil {
		return nil, fmt.Errorf("failed to decode contact %s: %w", snap.Ref.ID, err)
	}
	contact.ID = snap.Ref.ID
	return &contact, nil
}
