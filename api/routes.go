package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public catalogue, the engineer portal and the admin review queue
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Use(ColoredHTTPLoggingMiddleware)

	r.Get("/healthz", handlers.healthHandler.check())

	// Public endpoints
	r.Get("/departments", handlers.departmentHandler.getAllDepartments())
	r.Get("/departments/{slug}", handlers.departmentHandler.getDepartment())
	r.Get("/products", handlers.productHandler.getAllProducts())
	r.Get("/products/{projectID}", handlers.productHandler.getProduct())

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)

		r.Route("/engineer", func(r chi.Router) {
			r.Get("/projects", handlers.projectHandler.listProjects())
			r.Post("/projects", handlers.projectHandler.createProject())
			r.Get("/projects/{projectID}", handlers.projectHandler.getProject())
			r.Patch("/projects/{projectID}", handlers.projectHandler.updateProject())
			r.Delete("/projects/{projectID}", handlers.projectHandler.deleteProject())
			r.Post("/projects/{projectID}/submit", handlers.projectHandler.submitProject())
			r.Post("/media/presign", handlers.mediaHandler.presignUpload())
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Get("/projects", handlers.reviewHandler.listProjects())
			r.Post("/projects/{projectID}/approve", handlers.reviewHandler.approveProject())
			r.Post("/projects/{projectID}/reject", handlers.reviewHandler.rejectProject())
		})
	})
}
