package hero

import (
	"context"
	"net/http"

	types "github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
	"github.com/yungbote/storefront-admin/internal/platform/apierr"
	"github.com/yungbote/storefront-admin/internal/platform/dbctx"
)

// DefaultVariants returns one example per template. Only "default" is active.
func DefaultVariants() []types.Variant {
	return []types.Variant{
		{
			VariantKey:   "default",
			Title:        "Discover our new collection",
			Subtitle:     "Fresh arrivals every week, shipped free on orders over $50.",
			PrimaryCta:   &types.CTA{Text: "Shop now", Href: "/products"},
			SecondaryCta: &types.CTA{Text: "Browse categories", Href: "/categories"},
			Features: []types.Feature{
				{Title: "Free shipping", Description: "On every order over $50", Icon: "truck"},
				{Title: "Secure payment", Description: "Encrypted checkout", Icon: "shield"},
				{Title: "Easy returns", Description: "30 days, no questions", Icon: "refresh-cw"},
			},
			IsActive: true,
		},
		{
			VariantKey: string(preview.TemplateMinimal),
			Title:      "Made to last",
			Subtitle:   "One product, done right.",
			PrimaryCta: &types.CTA{Text: "Buy now", Href: "/products"},
		},
		{
			VariantKey:   string(preview.TemplatePromotional),
			Title:        "Summer sale: up to 50% off",
			PrimaryCta:   &types.CTA{Text: "Shop the sale", Href: "/sale"},
			SecondaryCta: &types.CTA{Text: "See terms", Href: "/sale/terms"},
		},
		{
			VariantKey: string(preview.TemplateModern),
			Title:      "Everyday essentials",
			Subtitle:   "Thoughtfully designed, fairly priced.",
			PrimaryCta: &types.CTA{Text: "Explore", Href: "/products"},
			Stats: []types.Stat{
				{Value: "50k+", Label: "Happy customers", Icon: "users"},
				{Value: "4.9", Label: "Average rating", Icon: "star"},
				{Value: "24h", Label: "Dispatch", Icon: "truck"},
			},
		},
	}
}

// SeedDefaults inserts DefaultVariants when the table is empty and reports how
// many rows were written.
func (u Usecases) SeedDefaults(ctx context.Context) (int, error) {
	if err := u.ready(); err != nil {
		return 0, err
	}
	seeded := 0
	err := u.write(ctx, "seed", "", func(dbc dbctx.Context, coll []types.Variant) error {
		if len(coll) > 0 {
			return nil
		}
		for _, v := range DefaultVariants() {
			if _, err := u.deps.Variants.Create(dbc, &v); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if err != nil {
		return 0, apierr.New(http.StatusInternalServerError, "seed_variants_failed", err)
	}
	if seeded > 0 {
		u.deps.Log.Info("hero variants seeded", "count", seeded)
	}
	return seeded, nil
}
