package api

import (
	"github.com/rpupo63/research-portal-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, router router) *routeHandlers {
	checks := map[string]healthCheck{"database": database.Ping}
	for name, check := range router.checks {
		checks[name] = check
	}

	return &routeHandlers{
		projectHandler:    newProjectHandler(router.projectService),
		reviewHandler:     newReviewHandler(router.projectService),
		departmentHandler: newDepartmentHandler(database.DepartmentRepo()),
		productHandler:    newProductHandler(router.projectService),
		mediaHandler:      newMediaHandler(router.signer),
		healthHandler:     newHealthHandler(router.startupTime, checks),
	}
}
