package editor

import (
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
)

// Draft is the in-progress form state of the editor modal. Scalar inputs are
// kept as raw strings so invalid input can be shown back to the operator.
type Draft struct {
	VariantKey       string
	Title            string
	Subtitle         string
	PrimaryCTAText   string
	PrimaryCTAHref   string
	SecondaryCTAText string
	SecondaryCTAHref string
	BackgroundImage  string
	VideoURL         string
	IsActive         bool

	Stats            []hero.Stat
	Features         []hero.Feature
	Testimonials     []hero.Testimonial
	FeaturedProducts []string
	Categories       []hero.Category
}

// DraftFromVariant loads an existing record into a draft.
func DraftFromVariant(v hero.Variant) Draft {
	d := Draft{
		VariantKey:       v.VariantKey,
		Title:            v.Title,
		Subtitle:         v.Subtitle,
		BackgroundImage:  v.BackgroundImage,
		VideoURL:         v.VideoURL,
		IsActive:         v.IsActive,
		Stats:            append([]hero.Stat(nil), v.Stats...),
		Features:         append([]hero.Feature(nil), v.Features...),
		Testimonials:     append([]hero.Testimonial(nil), v.Testimonials...),
		FeaturedProducts: append([]string(nil), v.FeaturedProducts...),
		Categories:       append([]hero.Category(nil), v.Categories...),
	}
	if v.PrimaryCta != nil {
		d.PrimaryCTAText, d.PrimaryCTAHref = v.PrimaryCta.Text, v.PrimaryCta.Href
	}
	if v.SecondaryCta != nil {
		d.SecondaryCTAText, d.SecondaryCTAHref = v.SecondaryCta.Text, v.SecondaryCta.Href
	}
	return d
}

func (d Draft) clone() Draft {
	out := d
	out.Stats = append([]hero.Stat(nil), d.Stats...)
	out.Features = append([]hero.Feature(nil), d.Features...)
	out.Testimonials = append([]hero.Testimonial(nil), d.Testimonials...)
	out.FeaturedProducts = append([]string(nil), d.FeaturedProducts...)
	out.Categories = append([]hero.Category(nil), d.Categories...)
	return out
}

// Form exposes the scalar fields under their validation identifiers.
func (d Draft) Form() validation.Form {
	return validation.Form{
		validation.FieldVariantKey:       d.VariantKey,
		validation.FieldTitle:            d.Title,
		validation.FieldSubtitle:         d.Subtitle,
		validation.FieldPrimaryCTAText:   d.PrimaryCTAText,
		validation.FieldPrimaryCTAHref:   d.PrimaryCTAHref,
		validation.FieldSecondaryCTAText: d.SecondaryCTAText,
		validation.FieldSecondaryCTAHref: d.SecondaryCTAHref,
		validation.FieldBackgroundImage:  d.BackgroundImage,
		validation.FieldVideoURL:         d.VideoURL,
	}
}

// Value returns the raw value of a scalar field.
func (d Draft) Value(field string) (string, bool) {
	v, ok := d.Form()[field]
	return v, ok
}

func (d *Draft) set(field, value string) bool {
	switch field {
	case validation.FieldVariantKey:
		d.VariantKey = value
	case validation.FieldTitle:
		d.Title = value
	case validation.FieldSubtitle:
		d.Subtitle = value
	case validation.FieldPrimaryCTAText:
		d.PrimaryCTAText = value
	case validation.FieldPrimaryCTAHref:
		d.PrimaryCTAHref = value
	case validation.FieldSecondaryCTAText:
		d.SecondaryCTAText = value
	case validation.FieldSecondaryCTAHref:
		d.SecondaryCTAHref = value
	case validation.FieldBackgroundImage:
		d.BackgroundImage = value
	case validation.FieldVideoURL:
		d.VideoURL = value
	default:
		return false
	}
	return true
}

// Normalize converts the draft to the persisted record shape: strings are
// trimmed, CTAs missing text or href are dropped, empty lists become unset and
// featured products are de-duplicated.
func (d Draft) Normalize() hero.Variant {
	v := hero.Variant{
		VariantKey:      strings.TrimSpace(d.VariantKey),
		Title:           strings.TrimSpace(d.Title),
		Subtitle:        strings.TrimSpace(d.Subtitle),
		BackgroundImage: strings.TrimSpace(d.BackgroundImage),
		VideoURL:        strings.TrimSpace(d.VideoURL),
		IsActive:        d.IsActive,
		PrimaryCta:      cta(d.PrimaryCTAText, d.PrimaryCTAHref),
		SecondaryCta:    cta(d.SecondaryCTAText, d.SecondaryCTAHref),
	}
	if len(d.Stats) > 0 {
		v.Stats = append([]hero.Stat(nil), d.Stats...)
	}
	if len(d.Features) > 0 {
		v.Features = append([]hero.Feature(nil), d.Features...)
	}
	if len(d.Testimonials) > 0 {
		v.Testimonials = append([]hero.Testimonial(nil), d.Testimonials...)
	}
	if products := validation.UniqueProducts(d.FeaturedProducts); len(products) > 0 {
		v.FeaturedProducts = products
	}
	if len(d.Categories) > 0 {
		v.Categories = append([]hero.Category(nil), d.Categories...)
	}
	return v
}

func cta(text, href string) *hero.CTA {
	c := &hero.CTA{Text: strings.TrimSpace(text), Href: strings.TrimSpace(href)}
	if !c.Complete() {
		return nil
	}
	return c
}
