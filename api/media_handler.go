package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/rpupo63/research-portal-backend/errs"
	"github.com/rpupo63/research-portal-backend/models"
	"github.com/rpupo63/research-portal-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type uploadPresigner interface {
	PresignUpload(ctx context.Context, user *models.User, filename, contentType string) (services.MediaUpload, error)
}

type mediaHandler struct {
	responder Responder
	logger    zerolog.Logger
	signer    uploadPresigner
}

func newMediaHandler(signer uploadPresigner) mediaHandler {
	logger := log.With().Str("handlerName", "mediaHandler").Logger()

	return mediaHandler{
		responder: NewResponder(logger),
		logger:    logger,
		signer:    signer,
	}
}

// presignUpload hands out a short-lived URL the browser can PUT an image or video to
// @Summary Presign a media upload
// @Tags Engineer
// @Accept json
// @Produce json
// @Success 200 {object} services.MediaUpload
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /engineer/media/presign [post]
func (h mediaHandler) presignUpload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.signer == nil {
			h.responder.WriteError(w, errs.NewApiErr(http.StatusServiceUnavailable, "media uploads are not configured"))
			return
		}

		var req PresignRequest
		if err := decodeJSON(r, &req, false); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if strings.TrimSpace(req.Filename) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("filename"))
			return
		}
		if strings.TrimSpace(req.ContentType) == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("contentType"))
			return
		}

		upload, err := h.signer.PresignUpload(r.Context(), ctxGetUser(r.Context()), req.Filename, req.ContentType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, upload)
	}
}
