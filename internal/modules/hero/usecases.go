package hero

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/yungbote/storefront-admin/internal/data/repos"
	types "github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/invariant"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
	"github.com/yungbote/storefront-admin/internal/observability"
	"github.com/yungbote/storefront-admin/internal/platform/apierr"
	"github.com/yungbote/storefront-admin/internal/platform/dbctx"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

// ListCache holds the most recent variant list. Implementations must be safe
// for concurrent use. A miss reports ok=false and the generation the caller
// passes back to SetList; SetList ignores a list whose generation was
// superseded by an Invalidate.
type ListCache interface {
	GetList(ctx context.Context) (list []types.Variant, gen int64, ok bool)
	SetList(ctx context.Context, gen int64, list []types.Variant)
	Invalidate(ctx context.Context)
}

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	Variants repos.HeroVariantRepo
	// Optional.
	Cache ListCache
}

type Usecases struct {
	deps UsecasesDeps
}

var _ editor.Repository = Usecases{}

func New(deps UsecasesDeps) Usecases {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	deps.Log = deps.Log.With("service", "HeroUsecases")
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

func (u Usecases) ready() error {
	if u.deps.DB == nil || u.deps.Variants == nil {
		return apierr.New(http.StatusInternalServerError, "hero_not_configured", errors.New("hero usecases missing deps"))
	}
	return nil
}

func (u Usecases) ListVariants(ctx context.Context) ([]types.Variant, error) {
	if err := u.ready(); err != nil {
		return nil, err
	}
	var gen int64 = -1
	if u.deps.Cache != nil {
		list, g, ok := u.deps.Cache.GetList(ctx)
		if ok {
			return list, nil
		}
		gen = g
	}
	rows, err := u.deps.Variants.List(dbctx.Of(ctx))
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "list_variants_failed", err)
	}
	list := values(rows)
	if u.deps.Cache != nil {
		u.deps.Cache.SetList(ctx, gen, list)
	}
	return list, nil
}

func (u Usecases) GetVariant(ctx context.Context, key string) (*types.Variant, error) {
	if err := u.ready(); err != nil {
		return nil, err
	}
	v, err := u.deps.Variants.GetByKey(dbctx.Of(ctx), key)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_variant_failed", err)
	}
	if v == nil {
		return nil, mapErr("load_variant_failed", fmt.Errorf("%w: %q", types.ErrNotFound, key))
	}
	return v, nil
}

// CreateVariant stores v. When v is active every other variant is deactivated
// in the same transaction.
func (u Usecases) CreateVariant(ctx context.Context, v types.Variant) (*types.Variant, error) {
	if err := u.ready(); err != nil {
		return nil, err
	}
	v = normalize(v)
	v.ID = uuid.Nil
	v.CreatedAt, v.UpdatedAt = time.Time{}, time.Time{}
	if err := validation.ValidateVariant(v); err != nil {
		return nil, mapErr("create_variant_failed", err)
	}

	var created *types.Variant
	err := u.write(ctx, "create", v.VariantKey, func(dbc dbctx.Context, coll []types.Variant) error {
		res, err := invariant.Create(coll, v)
		if err != nil {
			return err
		}
		if err := u.deps.Variants.Deactivate(dbc, res.Deactivated); err != nil {
			return err
		}
		target := res.Target.Clone()
		created, err = u.deps.Variants.Create(dbc, &target)
		return err
	})
	if err != nil {
		return nil, mapErr("create_variant_failed", err)
	}
	u.deps.Log.Info("hero variant created", "variant_key", created.VariantKey, "is_active", created.IsActive)
	return created, nil
}

// UpdateVariant applies patch to the variant with key. The key itself never
// changes.
func (u Usecases) UpdateVariant(ctx context.Context, key string, patch types.Patch) (*types.Variant, error) {
	if err := u.ready(); err != nil {
		return nil, err
	}
	var updated *types.Variant
	err := u.write(ctx, "update", key, func(dbc dbctx.Context, coll []types.Variant) error {
		idx := types.FindByKey(coll, key)
		if idx < 0 {
			return fmt.Errorf("%w: %q", types.ErrNotFound, key)
		}
		merged := normalize(patch.Apply(coll[idx]))
		if err := validation.ValidateUpdate(merged); err != nil {
			return err
		}
		res, err := invariant.Update(coll, key, types.PatchFrom(merged))
		if err != nil {
			return err
		}
		if err := u.deps.Variants.Deactivate(dbc, res.Deactivated); err != nil {
			return err
		}
		target := res.Target.Clone()
		if err := u.deps.Variants.Save(dbc, &target); err != nil {
			return err
		}
		updated = &target
		return nil
	})
	if err != nil {
		return nil, mapErr("update_variant_failed", err)
	}
	u.deps.Log.Info("hero variant updated", "variant_key", key, "is_active", updated.IsActive)
	return updated, nil
}

// DeleteVariant removes an inactive variant.
func (u Usecases) DeleteVariant(ctx context.Context, key string) error {
	if err := u.ready(); err != nil {
		return err
	}
	err := u.write(ctx, "delete", key, func(dbc dbctx.Context, coll []types.Variant) error {
		if _, err := invariant.Delete(coll, key); err != nil {
			return err
		}
		ok, err := u.deps.Variants.DeleteByKey(dbc, key)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %q", types.ErrNotFound, key)
		}
		return nil
	})
	if err != nil {
		return mapErr("delete_variant_failed", err)
	}
	u.deps.Log.Info("hero variant deleted", "variant_key", key)
	return nil
}

// SetActiveVariant makes key the only active variant. Activating the variant
// that is already the only active one writes nothing.
func (u Usecases) SetActiveVariant(ctx context.Context, key string) error {
	if err := u.ready(); err != nil {
		return err
	}
	err := u.write(ctx, "activate", key, func(dbc dbctx.Context, coll []types.Variant) error {
		res, err := invariant.SetActive(coll, key)
		if err != nil {
			return err
		}
		if coll[types.FindByKey(coll, key)].IsActive && len(res.Deactivated) == 0 {
			return nil
		}
		if err := u.deps.Variants.Deactivate(dbc, res.Deactivated); err != nil {
			return err
		}
		target := res.Target.Clone()
		return u.deps.Variants.Save(dbc, &target)
	})
	if err != nil {
		return mapErr("activate_variant_failed", err)
	}
	u.deps.Log.Info("hero variant activated", "variant_key", key)
	return nil
}

func (u Usecases) PreviewVariant(ctx context.Context, key string, mode preview.Viewport) (preview.Rendering, error) {
	v, err := u.GetVariant(ctx, key)
	if err != nil {
		return preview.Rendering{}, err
	}
	return preview.Render(*v, mode), nil
}

// ActivePreview renders the active variant for the storefront. The cached
// list is used when a cache is configured.
func (u Usecases) ActivePreview(ctx context.Context, mode preview.Viewport) (preview.Rendering, error) {
	if err := u.ready(); err != nil {
		return preview.Rendering{}, err
	}
	var active *types.Variant
	if u.deps.Cache != nil {
		list, err := u.ListVariants(ctx)
		if err != nil {
			return preview.Rendering{}, err
		}
		if key, ok := types.ActiveKey(list); ok {
			active = &list[types.FindByKey(list, key)]
		}
	} else {
		v, err := u.deps.Variants.GetActive(dbctx.Of(ctx))
		if err != nil {
			return preview.Rendering{}, apierr.New(http.StatusInternalServerError, "load_variant_failed", err)
		}
		active = v
	}
	if active == nil {
		return preview.Rendering{}, apierr.New(http.StatusNotFound, "not_found", errors.New("no active hero variant"))
	}
	return preview.Render(*active, mode), nil
}

// writeLockID serializes hero writes on Postgres. Row locks alone do not cover
// inserts.
const writeLockID = 0x6865726f

// write runs fn inside one transaction holding row locks on the collection,
// then drops the list cache.
func (u Usecases) write(ctx context.Context, op, key string, fn func(dbc dbctx.Context, coll []types.Variant) error) error {
	ctx, span := observability.StartSpan(ctx, "hero.variant."+op, attribute.String("hero.variant_key", key))
	defer span.End()

	err := u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", writeLockID).Error; err != nil {
				return err
			}
		}
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		rows, err := u.deps.Variants.ListForUpdate(dbc)
		if err != nil {
			return err
		}
		return fn(dbc, values(rows))
	})
	if err != nil {
		span.RecordError(err)
		return err
	}
	if u.deps.Cache != nil {
		u.deps.Cache.Invalidate(ctx)
	}
	return nil
}

func mapErr(code string, err error) error {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		return ae
	}
	var ve *types.ValidationError
	switch {
	case errors.As(err, &ve):
		return apierr.WithDetails(http.StatusUnprocessableEntity, "validation_failed", err, ve.Fields)
	case errors.Is(err, types.ErrDuplicateKey):
		return apierr.New(http.StatusConflict, "duplicate_key", err)
	case errors.Is(err, types.ErrProtectedActiveRecord):
		return apierr.New(http.StatusConflict, "protected_active_record", err)
	case errors.Is(err, types.ErrNotFound):
		return apierr.New(http.StatusNotFound, "not_found", err)
	default:
		return apierr.New(http.StatusInternalServerError, code, err)
	}
}

func normalize(v types.Variant) types.Variant {
	v.VariantKey = strings.TrimSpace(v.VariantKey)
	v.Title = strings.TrimSpace(v.Title)
	v.Subtitle = strings.TrimSpace(v.Subtitle)
	v.BackgroundImage = strings.TrimSpace(v.BackgroundImage)
	v.VideoURL = strings.TrimSpace(v.VideoURL)
	v.PrimaryCta = trimCTA(v.PrimaryCta)
	v.SecondaryCta = trimCTA(v.SecondaryCta)
	if len(v.Stats) == 0 {
		v.Stats = nil
	}
	if len(v.Features) == 0 {
		v.Features = nil
	}
	if len(v.Testimonials) == 0 {
		v.Testimonials = nil
	}
	if len(v.Categories) == 0 {
		v.Categories = nil
	}
	if products := validation.UniqueProducts(v.FeaturedProducts); len(products) > 0 {
		v.FeaturedProducts = products
	} else {
		v.FeaturedProducts = nil
	}
	return v
}

func trimCTA(c *types.CTA) *types.CTA {
	if c == nil {
		return nil
	}
	out := &types.CTA{Text: strings.TrimSpace(c.Text), Href: strings.TrimSpace(c.Href)}
	if !out.Complete() {
		return nil
	}
	return out
}

func values(rows []*types.Variant) []types.Variant {
	out := make([]types.Variant, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
