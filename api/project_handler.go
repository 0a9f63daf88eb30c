package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/policy"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ProjectService
}

func newProjectHandler(service *services.ProjectService) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// listProjects returns the projects the current engineer is related to
// @Summary List my projects
// @Tags Engineer
// @Produce json
// @Success 200 {object} ProjectCollection
// @Failure 401 {object} ErrorResponse
// @Router /engineer/projects [get]
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.service.ListForUser(r.Context(), ctxGetUser(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newProjectCollection(projects))
	}
}

// createProject creates a draft, or submits it right away with ?submit=true
// @Summary Create a project
// @Tags Engineer
// @Accept json
// @Produce json
// @Param submit query bool false "Submit for review after creating"
// @Success 201 {object} services.Result
// @Failure 400 {object} ResultResponse
// @Router /engineer/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		submit := false
		if raw := r.URL.Query().Get("submit"); raw != "" {
			parsed, err := strconv.ParseBool(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewInvalidFieldError("submit", "must be true or false"))
				return
			}
			submit = parsed
		}

		var in services.ProjectInput
		if err := decodeJSON(r, &in, false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteResult(w, h.service.Create(r.Context(), ctxGetUser(r.Context()), in, submit), http.StatusCreated)
	}
}

// getProject returns a single project the current user may see
// @Summary Get a project
// @Tags Engineer
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} models.Project
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /engineer/projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.service.GetByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFound("project"))
			return
		}

		user := ctxGetUser(r.Context())
		if !user.IsAdmin() && !policy.Visible(user, project) {
			h.responder.WriteError(w, errs.NewActionDeniedError("view", "project"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// updateProject applies a partial update to a draft or rejected project
// @Summary Update a project
// @Tags Engineer
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Result
// @Failure 409 {object} ResultResponse
// @Router /engineer/projects/{projectID} [patch]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var patch services.ProjectPatch
		if err := decodeJSON(r, &patch, false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteResult(w, h.service.Update(r.Context(), ctxGetUser(r.Context()), id, patch), http.StatusOK)
	}
}

// deleteProject removes a project. The body may echo the project name as confirmation.
// @Summary Delete a project
// @Tags Engineer
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Result
// @Failure 400 {object} ResultResponse
// @Router /engineer/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var req DeleteProjectRequest
		if err := decodeJSON(r, &req, true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteResult(w, h.service.Delete(r.Context(), ctxGetUser(r.Context()), id, req.ConfirmName), http.StatusOK)
	}
}

// submitProject moves a draft or rejected project into review
// @Summary Submit a project for review
// @Tags Engineer
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Result
// @Failure 409 {object} ResultResponse
// @Router /engineer/projects/{projectID}/submit [post]
func (h projectHandler) submitProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteResult(w, h.service.SubmitForReview(r.Context(), ctxGetUser(r.Context()), id), http.StatusOK)
	}
}

func projectIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return uuid.Nil, errs.NewInvalidFieldError("projectID", "must be a UUID")
	}
	return id, nil
}
