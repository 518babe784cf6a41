package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/http/response"
	"github.com/yungbote/storefront-admin/internal/modules/hero/upload"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

type ImageUploadService interface {
	Store(ctx context.Context, filename string, r io.Reader) (*upload.Result, error)
}

type UploadHandler struct {
	log     *logger.Logger
	uploads ImageUploadService
}

func NewUploadHandler(log *logger.Logger, svc ImageUploadService) *UploadHandler {
	return &UploadHandler{log: log.With("handler", "UploadHandler"), uploads: svc}
}

// POST /api/uploads/hero-image (multipart field "file")
func (h *UploadHandler) HeroImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "upload_rejected", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "upload_rejected", err)
		return
	}
	defer f.Close()

	res, err := h.uploads.Store(c.Request.Context(), fh.Filename, f)
	if err != nil {
		respondErr(c, "upload_failed", err)
		return
	}
	response.RespondOK(c, res)
}
