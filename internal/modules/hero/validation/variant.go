package validation

import (
	"fmt"
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

// Content block field identifiers used in collection-level errors.
const (
	FieldFeaturedProducts = "featuredProducts"
	FieldCategories       = "categories"
	FieldTestimonials     = "testimonials"
)

// FormFromVariant flattens the scalar fields of v into a Form.
func FormFromVariant(v hero.Variant) Form {
	f := Form{
		FieldVariantKey:      v.VariantKey,
		FieldTitle:           v.Title,
		FieldSubtitle:        v.Subtitle,
		FieldBackgroundImage: v.BackgroundImage,
		FieldVideoURL:        v.VideoURL,
	}
	if v.PrimaryCta != nil {
		f[FieldPrimaryCTAText] = v.PrimaryCta.Text
		f[FieldPrimaryCTAHref] = v.PrimaryCta.Href
	}
	if v.SecondaryCta != nil {
		f[FieldSecondaryCTAText] = v.SecondaryCta.Text
		f[FieldSecondaryCTAHref] = v.SecondaryCta.Href
	}
	return f
}

// ValidateCollections enforces the size and range limits of content blocks.
func ValidateCollections(v hero.Variant) map[string]string {
	out := map[string]string{}
	if n := len(uniqueStrings(v.FeaturedProducts)); n > hero.MaxFeaturedProducts {
		out[FieldFeaturedProducts] = fmt.Sprintf("At most %d featured products are allowed (got %d)", hero.MaxFeaturedProducts, n)
	}
	if n := len(v.Categories); n > hero.MaxCategories {
		out[FieldCategories] = fmt.Sprintf("At most %d categories are allowed (got %d)", hero.MaxCategories, n)
	}
	for i, t := range v.Testimonials {
		if t.Rating < hero.MinRating || t.Rating > hero.MaxRating {
			out[FieldTestimonials] = fmt.Sprintf("Testimonial %d rating must be between %d and %d", i+1, hero.MinRating, hero.MaxRating)
			break
		}
	}
	return out
}

// ValidateVariant returns a *hero.ValidationError when v cannot be stored:
// a missing or malformed key/title, or content blocks over their limits.
func ValidateVariant(v hero.Variant) error {
	return validateVariant(v, true)
}

// ValidateUpdate checks a variant that already exists. Its key is immutable,
// so a stored key that predates the current key format is accepted.
func ValidateUpdate(v hero.Variant) error {
	return validateVariant(v, false)
}

func validateVariant(v hero.Variant, checkKey bool) error {
	errs := ValidateForm(FormFromVariant(v))
	if !checkKey {
		delete(errs, FieldVariantKey)
	}
	for k, msg := range ValidateCollections(v) {
		errs[k] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return &hero.ValidationError{Fields: errs}
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// UniqueProducts trims, drops blanks and de-duplicates product ids, keeping
// first-seen order.
func UniqueProducts(in []string) []string {
	return uniqueStrings(in)
}
