package heroctl

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
)

// Document is a variant as written in a YAML file. Absent keys leave the
// draft alone; a present list replaces the draft's list.
type Document struct {
	VariantKey       *string             `yaml:"variant_key,omitempty"`
	Title            *string             `yaml:"title,omitempty"`
	Subtitle         *string             `yaml:"subtitle,omitempty"`
	PrimaryCta       *hero.CTA           `yaml:"primary_cta,omitempty"`
	SecondaryCta     *hero.CTA           `yaml:"secondary_cta,omitempty"`
	BackgroundImage  *string             `yaml:"background_image,omitempty"`
	VideoURL         *string             `yaml:"video_url,omitempty"`
	Stats            *[]hero.Stat        `yaml:"stats,omitempty"`
	Features         *[]hero.Feature     `yaml:"features,omitempty"`
	Testimonials     *[]hero.Testimonial `yaml:"testimonials,omitempty"`
	FeaturedProducts *[]string           `yaml:"featured_products,omitempty"`
	Categories       *[]hero.Category    `yaml:"categories,omitempty"`
	IsActive         *bool               `yaml:"is_active,omitempty"`
}

func LoadDocument(path string) (Document, error) {
	var doc Document
	raw, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read variant document: %w", err)
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse variant document %s: %w", path, err)
	}
	return doc, nil
}

// DocumentFrom renders a stored variant in document form.
func DocumentFrom(v hero.Variant) Document {
	d := Document{
		VariantKey:   &v.VariantKey,
		Title:        &v.Title,
		PrimaryCta:   v.PrimaryCta,
		SecondaryCta: v.SecondaryCta,
		IsActive:     &v.IsActive,
	}
	if v.Subtitle != "" {
		d.Subtitle = &v.Subtitle
	}
	if v.BackgroundImage != "" {
		d.BackgroundImage = &v.BackgroundImage
	}
	if v.VideoURL != "" {
		d.VideoURL = &v.VideoURL
	}
	if len(v.Stats) > 0 {
		s := []hero.Stat(v.Stats)
		d.Stats = &s
	}
	if len(v.Features) > 0 {
		f := []hero.Feature(v.Features)
		d.Features = &f
	}
	if len(v.Testimonials) > 0 {
		t := []hero.Testimonial(v.Testimonials)
		d.Testimonials = &t
	}
	if len(v.FeaturedProducts) > 0 {
		p := []string(v.FeaturedProducts)
		d.FeaturedProducts = &p
	}
	if len(v.Categories) > 0 {
		c := []hero.Category(v.Categories)
		d.Categories = &c
	}
	return d
}

// applyTo feeds the document into an open editor draft the way an operator
// would fill the form. The key is only sent in create mode.
func (d Document) applyTo(ed *editor.Editor) error {
	scalars := []struct {
		field string
		value *string
	}{
		{validation.FieldTitle, d.Title},
		{validation.FieldSubtitle, d.Subtitle},
		{validation.FieldBackgroundImage, d.BackgroundImage},
		{validation.FieldVideoURL, d.VideoURL},
	}
	if ed.KeyEditable() {
		scalars = append(scalars, struct {
			field string
			value *string
		}{validation.FieldVariantKey, d.VariantKey})
	}
	for _, s := range scalars {
		if s.value == nil {
			continue
		}
		if err := ed.Change(s.field, *s.value); err != nil {
			return err
		}
	}
	if err := applyCTA(ed, d.PrimaryCta, validation.FieldPrimaryCTAText, validation.FieldPrimaryCTAHref); err != nil {
		return err
	}
	if err := applyCTA(ed, d.SecondaryCta, validation.FieldSecondaryCTAText, validation.FieldSecondaryCTAHref); err != nil {
		return err
	}

	if d.Stats != nil {
		for len(ed.Draft().Stats) > 0 {
			if err := ed.RemoveStat(0); err != nil {
				return err
			}
		}
		for _, s := range *d.Stats {
			if err := ed.AddStat(s); err != nil {
				return err
			}
		}
	}
	if d.Features != nil {
		for len(ed.Draft().Features) > 0 {
			if err := ed.RemoveFeature(0); err != nil {
				return err
			}
		}
		for _, f := range *d.Features {
			if err := ed.AddFeature(f); err != nil {
				return err
			}
		}
	}
	if d.Testimonials != nil {
		for len(ed.Draft().Testimonials) > 0 {
			if err := ed.RemoveTestimonial(0); err != nil {
				return err
			}
		}
		for _, t := range *d.Testimonials {
			if err := ed.AddTestimonial(t); err != nil {
				return err
			}
		}
	}
	if d.FeaturedProducts != nil {
		for _, id := range ed.Draft().FeaturedProducts {
			if err := ed.RemoveFeaturedProduct(id); err != nil {
				return err
			}
		}
		for _, id := range *d.FeaturedProducts {
			if err := ed.AddFeaturedProduct(id); err != nil {
				return err
			}
		}
	}
	if d.Categories != nil {
		for len(ed.Draft().Categories) > 0 {
			if err := ed.RemoveCategory(0); err != nil {
				return err
			}
		}
		for _, c := range *d.Categories {
			if err := ed.AddCategory(c); err != nil {
				return err
			}
		}
	}
	if d.IsActive != nil {
		return ed.SetActive(*d.IsActive)
	}
	return nil
}

func applyCTA(ed *editor.Editor, c *hero.CTA, textField, hrefField string) error {
	if c == nil {
		return nil
	}
	if err := ed.Change(textField, c.Text); err != nil {
		return err
	}
	return ed.Change(hrefField, c.Href)
}
