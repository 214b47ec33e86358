package ports

import (
	"context"

	"github.com/aretw0/chomsky/pkg/domain"
)

// ConversionStore persists conversion records so they can be fetched by ID later.
type ConversionStore interface {
	// Save persists the conversion under its ID, replacing any previous record.
	Save(ctx context.Context, c *domain.Conversion) error

	// Load retrieves a conversion.
	// Returns domain.ErrConversionNotFound if the ID is unknown or expired.
	Load(ctx context.Context, id string) (*domain.Conversion, error)

	// Delete removes a conversion. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of stored conversions.
	List(ctx context.Context) ([]string, error)
}
