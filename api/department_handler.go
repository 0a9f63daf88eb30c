package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/research-portal-backend/database"
	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type departmentHandler struct {
	responder      Responder
	logger         zerolog.Logger
	departmentRepo *database.DepartmentRepo
}

func newDepartmentHandler(departmentRepo *database.DepartmentRepo) departmentHandler {
	logger := log.With().Str("handlerName", "departmentHandler").Logger()

	return departmentHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		departmentRepo: departmentRepo,
	}
}

// getAllDepartments lists every department, ordered by name
// @Summary List departments
// @Tags Departments
// @Produce json
// @Success 200 {array} models.Department
// @Router /departments [get]
func (h departmentHandler) getAllDepartments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := h.departmentRepo.FindAll(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "departments", err))
			return
		}
		h.responder.WriteJSON(w, departments)
	}
}

// getDepartment looks a department up by its slug
// @Summary Get a department
// @Tags Departments
// @Produce json
// @Param slug path string true "Department slug"
// @Success 200 {object} models.Department
// @Failure 404 {object} ErrorResponse
// @Router /departments/{slug} [get]
func (h departmentHandler) getDepartment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.ToLower(chi.URLParam(r, "slug"))
		department, err := h.departmentRepo.FindBySlug(r.Context(), slug)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "department", err))
			return
		}
		if department == nil {
			h.responder.WriteError(w, errs.NewNotFound("department"))
			return
		}
		h.responder.WriteJSON(w, department)
	}
}
