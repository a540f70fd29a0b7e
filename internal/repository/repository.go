// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the real implementation;
// tests supply in-memory fakes.
package repository

import (
	"context"

	"github.com/uvg/wellness-backend/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user, assigning ID and CreatedAt on the passed
	// struct. A uniqueness violation on email is reported as
	// apperror.ErrDuplicateEmail.
	Create(ctx context.Context, user *model.User) error
	// GetByID returns apperror.ErrNotFound when no such user exists.
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail looks up by the stored (lowercased) email and returns
	// apperror.ErrNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AssessmentRepository persists completed assessment results.
type AssessmentRepository interface {
	// Create inserts a new result, assigning ID and CreatedAt on the
	// passed struct. Results are never updated or deleted.
	Create(ctx context.Context, result *model.AssessmentResult) error
	// List returns every stored result, newest first.
	List(ctx context.Context) ([]model.AssessmentResult, error)
	// ListByUser returns the given user's results, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.AssessmentResult, error)
}
