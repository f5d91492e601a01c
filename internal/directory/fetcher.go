package directory

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"import-service/internal/clients"
)

// Backend is the slice of the directory services the resolver needs
type Backend interface {
	ListCategories(ctx context.Context, auth clients.AuthContext) ([]clients.Category, error)
	ListSuppliers(ctx context.Context, auth clients.AuthContext) ([]clients.Supplier, error)
	ListSupermarkets(ctx context.Context, auth clients.AuthContext) ([]clients.Supermarket, error)
	CreateSupermarket(ctx context.Context, auth clients.AuthContext, req clients.CreateSupermarketRequest) (*clients.Supermarket, error)
}

var _ Backend = (*clients.DirectoryClient)(nil)

// Fetcher refreshes a Cache from the directory services. The three list
// calls run concurrently; any failure fails the whole refresh and leaves the
// cache untouched.
type Fetcher struct {
	backend Backend
	store   *SnapshotStore
	logger  *logrus.Entry
}

// NewFetcher creates a fetcher. store may be nil when Redis is not
// configured.
func NewFetcher(backend Backend, store *SnapshotStore, logger *logrus.Logger) *Fetcher {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Fetcher{
		backend: backend,
		store:   store,
		logger:  log.WithField("component", "directory.fetcher"),
	}
}

// Refresh repopulates the cache. A shared snapshot from Redis is used when
// one exists; otherwise all three collections are fetched from the backend
// in one batch and the result is written back to Redis.
func (f *Fetcher) Refresh(ctx context.Context, auth clients.AuthContext, cache *Cache) error {
	if f.store != nil {
		snap, err := f.store.Get(ctx, auth.TenantID)
		if err != nil {
			f.logger.WithError(err).Warn("Failed to read directory snapshot from Redis, fetching from services")
		} else if snap != nil {
			cache.Restore(*snap)
			if cache.Valid() {
				f.logger.WithField("tenantId", auth.TenantID).Debug("Directory restored from Redis snapshot")
				return nil
			}
			// Snapshot outlived the in-process expiry window; fall through
			cache.Invalidate()
		}
	}

	var (
		wg           sync.WaitGroup
		categories   []clients.Category
		suppliers    []clients.Supplier
		supermarkets []clients.Supermarket
		catErr       error
		supErr       error
		smErr        error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		categories, catErr = f.backend.ListCategories(ctx, auth)
	}()
	go func() {
		defer wg.Done()
		suppliers, supErr = f.backend.ListSuppliers(ctx, auth)
	}()
	go func() {
		defer wg.Done()
		supermarkets, smErr = f.backend.ListSupermarkets(ctx, auth)
	}()
	wg.Wait()

	if catErr != nil {
		return &RefreshFailedError{Resource: "categories", Err: catErr}
	}
	if supErr != nil {
		return &RefreshFailedError{Resource: "suppliers", Err: supErr}
	}
	if smErr != nil {
		return &RefreshFailedError{Resource: "supermarkets", Err: smErr}
	}

	cache.Replace(categories, suppliers, supermarkets)

	f.logger.WithFields(logrus.Fields{
		"tenantId":     auth.TenantID,
		"categories":   len(categories),
		"suppliers":    len(suppliers),
		"supermarkets": len(supermarkets),
	}).Debug("Directory refreshed")

	if f.store != nil {
		snap, err := cache.Snapshot()
		if err == nil {
			if err := f.store.Set(ctx, auth.TenantID, snap); err != nil {
				f.logger.WithError(err).Warn("Failed to write directory snapshot to Redis")
			}
		}
	}

	return nil
}
