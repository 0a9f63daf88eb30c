package api

import (
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler    projectHandler
	reviewHandler     reviewHandler
	departmentHandler departmentHandler
	productHandler    productHandler
	mediaHandler      mediaHandler
	healthHandler     healthHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Kind    string `json:"kind,omitempty" example:"not_found"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ResultResponse is a failed mutation
type ResultResponse struct {
	services.Result
	Kind  string `json:"kind,omitempty"`
	Field string `json:"field,omitempty"`
}

// ProjectCollection is a list of projects
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

func newProjectCollection(projects []models.Project) ProjectCollection {
	if projects == nil {
		projects = []models.Project{}
	}
	return ProjectCollection{Projects: projects, Total: len(projects)}
}

// ProductCollection is the public catalogue
type ProductCollection struct {
	Products []services.Product `json:"products"`
	Total    int                `json:"total"`
}

func newProductCollection(products []services.Product) ProductCollection {
	if products == nil {
		products = []services.Product{}
	}
	return ProductCollection{Products: products, Total: len(products)}
}

// DeleteProjectRequest optionally echoes the project name back
type DeleteProjectRequest struct {
	ConfirmName *string `json:"confirmName,omitempty"`
}

// PresignRequest describes the file about to be uploaded
type PresignRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
}
