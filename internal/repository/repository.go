// Package repository declares the storage contracts of the tracker.
//
// Services depend on these interfaces only. Two implementations exist:
// jsonfile (one JSON document per store, replaced whole on every write) and
// sqlite (a keyed storage engine). Either can back any store without changes
// at the call sites.
package repository

import (
	"context"

	"github.com/sakif/nutrition-tracker/internal/model"
)

// UserRepository is the credential store, keyed by email.
type UserRepository interface {
	// Create stores a new profile. It fails with apperror.ErrDuplicateIdentity
	// if the email is taken; the existing profile is left unchanged.
	Create(ctx context.Context, user *model.UserProfile) error
	// GetByEmail returns apperror.ErrNotFound for an unknown email.
	GetByEmail(ctx context.Context, email string) (*model.UserProfile, error)
	// Update overwrites the mutable profile fields. The password hash is
	// never written. Returns apperror.ErrNotFound for an unknown email.
	Update(ctx context.Context, user *model.UserProfile) error
	// Delete removes the profile. Deleting an unknown email is not an error.
	Delete(ctx context.Context, email string) error
	List(ctx context.Context) ([]model.UserProfile, error)
}

// MealLogRepository is the append-only meal log.
type MealLogRepository interface {
	// Append assigns record.ID and persists the record at the end of the log.
	Append(ctx context.Context, record *model.MealLogRecord) error
	// List returns every record in insertion order.
	List(ctx context.Context) ([]model.MealLogRecord, error)
}

// FoodCatalog is the read-only food database. Every Load reflects the
// current state of the underlying source.
type FoodCatalog interface {
	Load(ctx context.Context) (model.Catalog, error)
}
