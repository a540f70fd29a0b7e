package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/uvg/wellness-backend/internal/apperror"
	"github.com/uvg/wellness-backend/internal/auth"
	"github.com/uvg/wellness-backend/internal/scoring"
	"github.com/uvg/wellness-backend/internal/service"
)

// AssessmentHandler serves questionnaire scoring and history.
type AssessmentHandler struct {
	assessments *service.AssessmentService
	logger      *slog.Logger
}

// NewAssessmentHandler creates an AssessmentHandler.
func NewAssessmentHandler(assessments *service.AssessmentService, logger *slog.Logger) *AssessmentHandler {
	return &AssessmentHandler{assessments: assessments, logger: logger}
}

// submitRequest is shared by the GAD-7 and PHQ-9 endpoints; only the
// expected answer count differs.
//
// Save is *bool, not bool: absent, true, and false are three different
// inputs, and absent must default to saving.
type submitRequest struct {
	Answers []int  `json:"answers"`
	Notes   string `json:"notes"`
	UserID  string `json:"userId"`
	Save    *bool  `json:"save"`
}

type submitResponse struct {
	ID        string     `json:"id,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	Total     int        `json:"total"`
	Category  string     `json:"category"`
	Message   string     `json:"message"`
}

// HandleGAD7 scores a GAD-7 submission.
//
// HTTP: POST /api/v1/assessments/gad7 (behind OptionalAuth)
func (h *AssessmentHandler) HandleGAD7(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, scoring.GAD7)
}

// HandlePHQ9 scores a PHQ-9 submission.
//
// HTTP: POST /api/v1/assessments/phq9 (behind OptionalAuth)
func (h *AssessmentHandler) HandlePHQ9(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, scoring.PHQ9)
}

func (h *AssessmentHandler) handleSubmit(w http.ResponseWriter, r *http.Request, typ scoring.Type) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "invalid JSON body"))
		return
	}

	// An explicit userId in the body wins; otherwise a logged-in caller's
	// own ID is used, and without either the result is anonymous.
	userID := req.UserID
	if userID == "" {
		if identity, ok := auth.IdentityFromContext(r.Context()); ok {
			userID = identity.UserID
		}
	}

	res, err := h.assessments.Submit(r.Context(), typ, req.Answers, req.Notes, userID, req.Save)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := submitResponse{
		Total:    res.Total,
		Category: res.Category,
		Message:  res.Message,
	}
	if res.Saved {
		resp.ID = res.ID
		createdAt := res.CreatedAt
		resp.CreatedAt = &createdAt
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleHistory lists stored results, newest first.
//
// HTTP: GET /api/v1/assessments/history?userId=<optional> (behind OptionalAuth)
func (h *AssessmentHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	identityUserID := ""
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		identityUserID = identity.UserID
	}

	results, err := h.assessments.History(r.Context(), r.URL.Query().Get("userId"), identityUserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}
