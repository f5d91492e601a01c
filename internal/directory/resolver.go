package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"import-service/internal/clients"
)

const (
	defaultAddress = "Address not provided"
	defaultPhone   = "0000000000"
	emailDomain    = "@unverified.store"
)

// Resolver maps human-entered names to backend identifiers against a cached
// directory. One resolver (and its cache) is constructed per import session.
type Resolver struct {
	backend Backend
	cache   *Cache
	fetcher *Fetcher
	store   *SnapshotStore
	logger  *logrus.Entry

	// OnSupermarketCreated, when set, is called after an auto-created
	// supermarket has been resolved to its real identifier.
	OnSupermarketCreated func(tenantID, id, name string)
}

// NewResolver creates a resolver around the given backend. store may be nil.
func NewResolver(backend Backend, cache *Cache, store *SnapshotStore, logger *logrus.Logger) *Resolver {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{
		backend: backend,
		cache:   cache,
		fetcher: NewFetcher(backend, store, log),
		store:   store,
		logger:  log.WithField("component", "directory.resolver"),
	}
}

// EnsureFresh refreshes the directory if the cache is stale or empty. A
// valid cache is left alone so repeated resolutions cost nothing.
func (r *Resolver) EnsureFresh(ctx context.Context, auth clients.AuthContext) error {
	if r.cache.Valid() {
		return nil
	}
	return r.fetcher.Refresh(ctx, auth, r.cache)
}

// Invalidate drops the cached directory, both in-process and in Redis
func (r *Resolver) Invalidate(ctx context.Context, tenantID string) {
	r.cache.Invalidate()
	if r.store != nil {
		if err := r.store.Invalidate(ctx, tenantID); err != nil {
			r.logger.WithError(err).Warn("Failed to invalidate Redis directory snapshot")
		}
	}
}

// ResolveCategory maps a category name to its ID
func (r *Resolver) ResolveCategory(ctx context.Context, auth clients.AuthContext, name string) (int, error) {
	if err := r.EnsureFresh(ctx, auth); err != nil {
		return 0, err
	}
	snap, err := r.cache.Snapshot()
	if err != nil {
		return 0, err
	}

	query := normalizeName(name)
	known := make([]string, 0, len(snap.Categories))
	for _, cat := range snap.Categories {
		if normalizeName(cat.Name) == query {
			return cat.ID, nil
		}
		known = append(known, cat.Name)
	}
	return 0, &NotFoundError{Kind: KindCategory, Name: strings.TrimSpace(name), Known: known}
}

// ResolveSupplier maps a supplier name to its ID
func (r *Resolver) ResolveSupplier(ctx context.Context, auth clients.AuthContext, name string) (int, error) {
	if err := r.EnsureFresh(ctx, auth); err != nil {
		return 0, err
	}
	snap, err := r.cache.Snapshot()
	if err != nil {
		return 0, err
	}

	query := normalizeName(name)
	known := make([]string, 0, len(snap.Suppliers))
	for _, sup := range snap.Suppliers {
		if normalizeName(sup.Name) == query {
			return sup.ID, nil
		}
		known = append(known, sup.Name)
	}
	return 0, &NotFoundError{Kind: KindSupplier, Name: strings.TrimSpace(name), Known: known}
}

// ResolveSupermarket maps a supermarket name to its ID
func (r *Resolver) ResolveSupermarket(ctx context.Context, auth clients.AuthContext, name string) (string, error) {
	if err := r.EnsureFresh(ctx, auth); err != nil {
		return "", err
	}
	snap, err := r.cache.Snapshot()
	if err != nil {
		return "", err
	}

	query := normalizeName(name)
	known := make([]string, 0, len(snap.Supermarkets))
	for _, sm := range snap.Supermarkets {
		if normalizeName(sm.Name) == query {
			return sm.ID, nil
		}
		known = append(known, sm.Name)
	}
	return "", &NotFoundError{Kind: KindSupermarket, Name: strings.TrimSpace(name), Known: known}
}

// ResolveOrCreateSupermarket resolves a supermarket name, auto-creating it
// when missing. After a successful create the directory is invalidated and
// refetched so the new ID comes from the backend's own listing; a create that
// succeeds but stays invisible is a fatal inconsistency.
func (r *Resolver) ResolveOrCreateSupermarket(ctx context.Context, auth clients.AuthContext, name, address, phone string) (string, error) {
	id, err := r.ResolveSupermarket(ctx, auth, name)
	if err == nil {
		return id, nil
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return "", err
	}

	req := clients.CreateSupermarketRequest{
		Name:       strings.TrimSpace(name),
		Address:    defaultAddress,
		Phone:      defaultPhone,
		Email:      emailSlug(name) + emailDomain,
		IsSubStore: false,
		IsVerified: false,
	}
	if strings.TrimSpace(address) != "" {
		req.Address = strings.TrimSpace(address)
	}
	if strings.TrimSpace(phone) != "" {
		req.Phone = strings.TrimSpace(phone)
	}

	r.logger.WithFields(logrus.Fields{
		"name":     req.Name,
		"tenantId": auth.TenantID,
	}).Info("Supermarket not found, auto-creating")

	created, createErr := r.backend.CreateSupermarket(ctx, auth, req)
	if createErr != nil {
		return "", &CreationFailedError{Name: req.Name, NotFound: notFound, Err: createErr}
	}

	r.Invalidate(ctx, auth.TenantID)
	if err := r.fetcher.Refresh(ctx, auth, r.cache); err != nil {
		return "", err
	}

	id, err = r.ResolveSupermarket(ctx, auth, name)
	if err != nil {
		return "", fmt.Errorf("supermarket '%s' (ID: %s): %w", req.Name, created.ID, ErrCreatedNotVisible)
	}

	r.logger.WithFields(logrus.Fields{
		"name": req.Name,
		"id":   id,
	}).Info("Auto-created supermarket resolved")

	if r.OnSupermarketCreated != nil {
		r.OnSupermarketCreated(auth.TenantID, id, req.Name)
	}
	return id, nil
}

// normalizeName applies the matching rule: trimmed, lower-cased, exact
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// emailSlug derives a deterministic placeholder email local part from a
// supermarket name: lower-cased with all whitespace stripped.
func emailSlug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "")
}
