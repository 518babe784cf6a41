package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/http/response"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

// HeroVariantService is the server side of the hero variant API.
type HeroVariantService interface {
	ListVariants(ctx context.Context) ([]hero.Variant, error)
	GetVariant(ctx context.Context, key string) (*hero.Variant, error)
	CreateVariant(ctx context.Context, v hero.Variant) (*hero.Variant, error)
	UpdateVariant(ctx context.Context, key string, patch hero.Patch) (*hero.Variant, error)
	DeleteVariant(ctx context.Context, key string) error
	SetActiveVariant(ctx context.Context, key string) error
	PreviewVariant(ctx context.Context, key string, mode preview.Viewport) (preview.Rendering, error)
	ActivePreview(ctx context.Context, mode preview.Viewport) (preview.Rendering, error)
}

type HeroVariantHandler struct {
	log  *logger.Logger
	hero HeroVariantService
}

func NewHeroVariantHandler(log *logger.Logger, svc HeroVariantService) *HeroVariantHandler {
	return &HeroVariantHandler{log: log.With("handler", "HeroVariantHandler"), hero: svc}
}

// GET /api/hero-variants
func (h *HeroVariantHandler) List(c *gin.Context) {
	list, err := h.hero.ListVariants(c.Request.Context())
	if err != nil {
		respondErr(c, "list_variants_failed", err)
		return
	}
	if list == nil {
		list = []hero.Variant{}
	}
	response.RespondOK(c, gin.H{"variants": list})
}

// GET /api/hero-variants/:key
func (h *HeroVariantHandler) Get(c *gin.Context) {
	v, err := h.hero.GetVariant(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondErr(c, "load_variant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"variant": v})
}

// POST /api/hero-variants
func (h *HeroVariantHandler) Create(c *gin.Context) {
	var req hero.Variant
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	v, err := h.hero.CreateVariant(c.Request.Context(), req)
	if err != nil {
		respondErr(c, "create_variant_failed", err)
		return
	}
	response.RespondCreated(c, gin.H{"variant": v})
}

// PATCH /api/hero-variants/:key
func (h *HeroVariantHandler) Update(c *gin.Context) {
	var req struct {
		hero.Patch
		VariantKey *string `json:"variant_key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	key := c.Param("key")
	if req.VariantKey != nil && *req.VariantKey != key {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("variant_key cannot be changed"))
		return
	}
	v, err := h.hero.UpdateVariant(c.Request.Context(), key, req.Patch)
	if err != nil {
		respondErr(c, "update_variant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"variant": v})
}

// DELETE /api/hero-variants/:key
func (h *HeroVariantHandler) Delete(c *gin.Context) {
	if err := h.hero.DeleteVariant(c.Request.Context(), c.Param("key")); err != nil {
		respondErr(c, "delete_variant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/hero-variants/:key/activate
func (h *HeroVariantHandler) Activate(c *gin.Context) {
	if err := h.hero.SetActiveVariant(c.Request.Context(), c.Param("key")); err != nil {
		respondErr(c, "activate_variant_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/hero-variants/:key/preview?viewport=
func (h *HeroVariantHandler) Preview(c *gin.Context) {
	mode, err := preview.ParseViewport(c.Query("viewport"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.hero.PreviewVariant(c.Request.Context(), c.Param("key"), mode)
	if err != nil {
		respondErr(c, "preview_failed", err)
		return
	}
	response.RespondOK(c, gin.H{"preview": r})
}

// GET /api/public/hero?viewport=
func (h *HeroVariantHandler) PublicHero(c *gin.Context) {
	mode, err := preview.ParseViewport(c.Query("viewport"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	r, err := h.hero.ActivePreview(c.Request.Context(), mode)
	if err != nil {
		respondErr(c, "preview_failed", err)
		return
	}
	c.Header("Cache-Control", "public, max-age=30")
	response.RespondOK(c, gin.H{"preview": r})
}
