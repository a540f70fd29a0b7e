package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/uvg/wellness-backend/internal/apperror"
	"github.com/uvg/wellness-backend/internal/model"
	"github.com/uvg/wellness-backend/internal/repository"
	"github.com/uvg/wellness-backend/internal/scoring"
)

const maxNotesLength = 2000

// AssessmentService scores questionnaires and manages the result history.
type AssessmentService struct {
	results repository.AssessmentRepository
	users   repository.UserRepository
	logger  *slog.Logger

	// allowGlobalHistory permits history listings with no user filter,
	// which return every user's results. The original product behaves
	// this way; it is an explicit switch here so a deployment can turn
	// it off without a code change.
	allowGlobalHistory bool
}

// NewAssessmentService creates an AssessmentService.
func NewAssessmentService(
	results repository.AssessmentRepository,
	users repository.UserRepository,
	allowGlobalHistory bool,
	logger *slog.Logger,
) *AssessmentService {
	return &AssessmentService{
		results:            results,
		users:              users,
		allowGlobalHistory: allowGlobalHistory,
		logger:             logger,
	}
}

// SubmitResult is what a questionnaire submission returns. ID and
// CreatedAt are the store-assigned values and are zero when the
// submission was not persisted.
type SubmitResult struct {
	scoring.Result
	Saved     bool
	ID        string
	CreatedAt time.Time
}

// Submit scores an answer vector and, unless the caller opted out,
// persists the result.
//
// save is tri-state: nil means "not specified" and defaults to true,
// matching the API contract where omitting the flag saves the result.
//
// A non-empty userID must reference an existing user. The check runs here
// rather than as a foreign key so an unknown user produces a validation
// error the client can act on.
func (s *AssessmentService) Submit(
	ctx context.Context,
	typ scoring.Type,
	answers []int,
	notes, userID string,
	save *bool,
) (*SubmitResult, error) {
	scored, err := scoring.Score(typ, answers)
	if err != nil {
		return nil, err
	}

	notes = strings.TrimSpace(notes)
	if len(notes) > maxNotesLength {
		return nil, apperror.ValidationFailed("notes",
			fmt.Sprintf("notes must be %d characters or less", maxNotesLength))
	}

	shouldSave := save == nil || *save
	if !shouldSave {
		return &SubmitResult{Result: scored}, nil
	}

	if userID != "" {
		if _, err := s.users.GetByID(ctx, userID); err != nil {
			if errors.Is(err, apperror.ErrNotFound) {
				return nil, apperror.ValidationFailed("userId",
					fmt.Sprintf("no user exists with id %s", userID))
			}
			return nil, fmt.Errorf("service/assessment: checking user %s: %w", userID, err)
		}
	}

	result := &model.AssessmentResult{
		Type:     string(typ),
		Total:    scored.Total,
		Category: scored.Category,
		Notes:    notes,
		UserID:   userID,
	}
	if err := s.results.Create(ctx, result); err != nil {
		s.logger.Error("failed to persist assessment result",
			slog.String("type", string(typ)),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("service/assessment: saving result: %w", err)
	}

	s.logger.Info("assessment scored",
		slog.String("id", result.ID),
		slog.String("type", result.Type),
		slog.String("category", result.Category),
	)

	return &SubmitResult{
		Result:    scored,
		Saved:     true,
		ID:        result.ID,
		CreatedAt: result.CreatedAt,
	}, nil
}

// History lists stored results, newest first.
//
// userID scopes the listing to one user's results. When it is empty and
// the service allows global listings, every user's results are returned
// (the original product's default). With global listings disabled, an
// unscoped request falls back to the authenticated caller's own results
// (identityUserID), and an anonymous unscoped request is a validation
// error.
func (s *AssessmentService) History(ctx context.Context, userID, identityUserID string) ([]model.AssessmentResult, error) {
	if userID != "" {
		return s.results.ListByUser(ctx, userID)
	}

	if s.allowGlobalHistory {
		return s.results.List(ctx)
	}

	if identityUserID != "" {
		return s.results.ListByUser(ctx, identityUserID)
	}

	return nil, apperror.ValidationFailed("userId",
		"userId is required: global history listing is disabled")
}
