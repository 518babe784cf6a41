package hero

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxVariantKeyLen = 100
	MaxTitleLen      = 255
	MaxSubtitleLen   = 500
	MaxCTATextLen    = 100
	MaxCTAHrefLen    = 255
	MaxMediaURLLen   = 500

	MaxFeaturedProducts = 20
	MaxCategories       = 8
	MinRating           = 1
	MaxRating           = 5
)

// CTA is a call-to-action button. It is only meaningful when both Text and
// Href are set.
type CTA struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

func (c *CTA) Complete() bool {
	return c != nil && strings.TrimSpace(c.Text) != "" && strings.TrimSpace(c.Href) != ""
}

type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type Testimonial struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
}

type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Href  string `json:"href"`
}

// Variant is one named hero banner configuration. VariantKey identifies the
// record and selects its preview template; it never changes after creation.
type Variant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VariantKey string    `gorm:"column:variant_key;size:100;uniqueIndex;not null" json:"variant_key"`

	Title           string `gorm:"column:title;size:255;not null" json:"title"`
	Subtitle        string `gorm:"column:subtitle;size:500" json:"subtitle,omitempty"`
	PrimaryCta      *CTA   `gorm:"column:primary_cta;serializer:json" json:"primary_cta,omitempty"`
	SecondaryCta    *CTA   `gorm:"column:secondary_cta;serializer:json" json:"secondary_cta,omitempty"`
	BackgroundImage string `gorm:"column:background_image;size:500" json:"background_image,omitempty"`
	VideoURL        string `gorm:"column:video_url;size:500" json:"video_url,omitempty"`

	Stats            datatypes.JSONSlice[Stat]        `gorm:"column:stats" json:"stats,omitempty"`
	Features         datatypes.JSONSlice[Feature]     `gorm:"column:features" json:"features,omitempty"`
	Testimonials     datatypes.JSONSlice[Testimonial] `gorm:"column:testimonials" json:"testimonials,omitempty"`
	FeaturedProducts datatypes.JSONSlice[string]      `gorm:"column:featured_products" json:"featured_products,omitempty"`
	Categories       datatypes.JSONSlice[Category]    `gorm:"column:categories" json:"categories,omitempty"`

	IsActive bool `gorm:"column:is_active;not null;default:false;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Variant) TableName() string { return "hero_variant_config" }

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Clone returns a deep copy so callers can mutate content blocks freely.
func (v Variant) Clone() Variant {
	out := v
	if v.PrimaryCta != nil {
		c := *v.PrimaryCta
		out.PrimaryCta = &c
	}
	if v.SecondaryCta != nil {
		c := *v.SecondaryCta
		out.SecondaryCta = &c
	}
	out.Stats = cloneSlice(v.Stats)
	out.Features = cloneSlice(v.Features)
	out.Testimonials = cloneSlice(v.Testimonials)
	out.FeaturedProducts = cloneSlice(v.FeaturedProducts)
	out.Categories = cloneSlice(v.Categories)
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// FindByKey returns the index of key in coll, or -1.
func FindByKey(coll []Variant, key string) int {
	for i := range coll {
		if coll[i].VariantKey == key {
			return i
		}
	}
	return -1
}

// ActiveKey returns the key of the first active record in coll.
func ActiveKey(coll []Variant) (string, bool) {
	for i := range coll {
		if coll[i].IsActive {
			return coll[i].VariantKey, true
		}
	}
	return "", false
}
