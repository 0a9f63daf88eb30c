package api

import (
	"net/http"

	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// productHandler serves the public catalogue of approved projects.
type productHandler struct {
	responder Responder
	logger    zerolog.Logger
	service   *services.ProjectService
}

func newProductHandler(service *services.ProjectService) productHandler {
	logger := log.With().Str("handlerName", "productHandler").Logger()

	return productHandler{
		responder: NewResponder(logger),
		logger:    logger,
		service:   service,
	}
}

// getAllProducts lists approved projects
// @Summary List products
// @Tags Products
// @Produce json
// @Success 200 {object} ProductCollection
// @Router /products [get]
func (h productHandler) getAllProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		products, err := h.service.ListProducts(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, newProductCollection(products))
	}
}

// getProduct returns one approved project
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param projectID path string true "Project ID"
// @Success 200 {object} services.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{projectID} [get]
func (h productHandler) getProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := projectIDParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		product, err := h.service.GetProduct(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if product == nil {
			h.responder.WriteError(w, errs.NewNotFound("product"))
			return
		}
		h.responder.WriteJSON(w, product)
	}
}
