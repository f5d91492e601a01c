// Package importer converts name-bearing import records into
// identifier-bearing ones against the directory resolver.
package importer

import (
	"context"

	"github.com/sirupsen/logrus"

	"import-service/internal/clients"
	"import-service/internal/directory"
)

// Converter applies name-to-ID resolution across import batches
type Converter struct {
	resolver *directory.Resolver
	logger   *logrus.Entry
}

// NewConverter creates a converter over the given resolver
func NewConverter(resolver *directory.Resolver, logger *logrus.Logger) *Converter {
	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Converter{
		resolver: resolver,
		logger:   log.WithField("component", "importer.converter"),
	}
}

// ConvertRow resolves the category, supplier, and supermarket names of one
// record into identifiers. Category and supplier must already exist;
// supermarkets fall back to auto-creation. Fields the record does not carry
// are skipped, everything else passes through unchanged.
func (c *Converter) ConvertRow(ctx context.Context, auth clients.AuthContext, rec Record) (Record, error) {
	out := rec.Clone()

	if name, ok := rec.nameField("category_name", "category"); ok {
		id, err := c.resolver.ResolveCategory(ctx, auth, name)
		if err != nil {
			return nil, err
		}
		delete(out, "category_name")
		out["category"] = id
	}

	if name, ok := rec.nameField("supplier_name", "supplier"); ok {
		id, err := c.resolver.ResolveSupplier(ctx, auth, name)
		if err != nil {
			return nil, err
		}
		delete(out, "supplier_name")
		out["supplier"] = id
	}

	if name, ok := rec.nameField("supermarket_name", "supermarket"); ok {
		id, err := c.resolver.ResolveOrCreateSupermarket(ctx, auth, name, rec.String("address"), rec.String("phone"))
		if err != nil {
			return nil, err
		}
		delete(out, "supermarket_name")
		out["supermarket"] = id
	}

	return out, nil
}

// ConvertBatch converts an ordered sequence of records, refreshing the
// directory once up front. Failing rows never stop the pass; they are
// collected with their 1-based row numbers and reported together as a single
// BatchError after every row has been attempted.
func (c *Converter) ConvertBatch(ctx context.Context, auth clients.AuthContext, records []Record) ([]Record, error) {
	if err := c.resolver.EnsureFresh(ctx, auth); err != nil {
		return nil, err
	}

	converted := make([]Record, 0, len(records))
	var rowErrors []RowError

	// Rows run strictly in order: a supermarket auto-created on row N must
	// be visible to row N+1.
	for i, rec := range records {
		out, err := c.ConvertRow(ctx, auth, rec)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		converted = append(converted, out)
	}

	if len(rowErrors) > 0 {
		c.logger.WithFields(logrus.Fields{
			"totalRows":  len(records),
			"failedRows": len(rowErrors),
		}).Warn("Batch conversion finished with row errors")
		return nil, &BatchError{Rows: rowErrors}
	}

	return converted, nil
}
