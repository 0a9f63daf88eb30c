package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type reviewHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ProjectService
}

func newReviewHandler(service *services.ProjectService) reviewHandler {
	logger := log.With().Str("handlerName", "reviewHandler").Logger()

	return reviewHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// listProjects returns every project, optionally filtered by workflow status
// @Summary List all projects
// @Tags Admin
// @Produce json
// @Param status query string false "DRAFT, UNDER_REVIEW, APPROVED or REJECTED"
// @Success 200 {object} ProjectCollection
// @Failure 403 {object} ErrorResponse
// @Router /admin/projects [get]
func (h reviewHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *models.ProjectStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			s := models.ProjectStatus(strings.ToUpper(raw))
			status = &s
		}

		projects, err := h.service.ListAll(r.Context(), status)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newProjectCollection(projects))
	}
}

// approveProject publishes a project that is under review
// @Summary Approve a project
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Result
// @Failure 409 {object} ResultResponse
// @Router /admin/projects/{projectID}/approve [post]
func (h reviewHandler) approveProject() http.HandlerFunc {
	return h.decide(h.service.Approve)
}

// rejectProject sends a project back to its authors with notes
// @Summary Reject a project
// @Tags Admin
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Result
// @Failure 400 {object} ResultResponse
// @Router /admin/projects/{projectID}/reject [post]
func (h reviewHandler) rejectProject() http.HandlerFunc {
	return h.decide(h.service.Reject)
}

type decisionFunc func(ctx context.Context, actor *models.User, id uuid.UUID, decision services.ReviewDecision) services.Result

func (h reviewHandler) decide(apply decisionFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var decision services.ReviewDecision
		if err := decodeJSON(r, &decision, true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteResult(w, apply(r.Context(), ctxGetUser(r.Context()), id, decision), http.StatusOK)
	}
}
