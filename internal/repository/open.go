package repository

import (
	"context"
	"fmt"

	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/config/firebase"
	"github.com/allinsys/contactforms/internal/metrics"
)

// CloseFunc releases the store handle
type CloseFunc func() error

// Open builds the ContactRepository selected by STORE_DRIVER
func Open(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (ContactRepository, CloseFunc, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory:
		return NewMemoryContactRepository(), func() error { return nil }, nil
	case config.StoreFirestore:
		app, err := firebase.Initialize(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return NewFirestoreContactRepository(app.Firestore, cfg.FirestoreCollection, m), app.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}
