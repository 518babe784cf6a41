package hero

// Patch describes an update to an existing variant. A nil field leaves the
// stored value alone. Patch has no VariantKey field: keys are fixed at
// creation.
//
// For CTAs a non-nil but incomplete value clears the stored CTA; for lists a
// non-nil pointer to an empty slice clears the stored list.
type Patch struct {
	Title           *string `json:"title,omitempty"`
	Subtitle        *string `json:"subtitle,omitempty"`
	PrimaryCta      *CTA    `json:"primary_cta,omitempty"`
	SecondaryCta    *CTA    `json:"secondary_cta,omitempty"`
	BackgroundImage *string `json:"background_image,omitempty"`
	VideoURL        *string `json:"video_url,omitempty"`

	Stats            *[]Stat        `json:"stats,omitempty"`
	Features         *[]Feature     `json:"features,omitempty"`
	Testimonials     *[]Testimonial `json:"testimonials,omitempty"`
	FeaturedProducts *[]string      `json:"featured_products,omitempty"`
	Categories       *[]Category    `json:"categories,omitempty"`

	IsActive *bool `json:"is_active,omitempty"`
}

// ActivatesRecord reports whether the patch sets is_active to true.
func (p Patch) ActivatesRecord() bool {
	return p.IsActive != nil && *p.IsActive
}

// Apply returns a copy of v with the patch applied.
func (p Patch) Apply(v Variant) Variant {
	out := v.Clone()
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.Subtitle != nil {
		out.Subtitle = *p.Subtitle
	}
	if p.PrimaryCta != nil {
		out.PrimaryCta = completeOrNil(p.PrimaryCta)
	}
	if p.SecondaryCta != nil {
		out.SecondaryCta = completeOrNil(p.SecondaryCta)
	}
	if p.BackgroundImage != nil {
		out.BackgroundImage = *p.BackgroundImage
	}
	if p.VideoURL != nil {
		out.VideoURL = *p.VideoURL
	}
	if p.Stats != nil {
		out.Stats = nilIfEmpty(*p.Stats)
	}
	if p.Features != nil {
		out.Features = nilIfEmpty(*p.Features)
	}
	if p.Testimonials != nil {
		out.Testimonials = nilIfEmpty(*p.Testimonials)
	}
	if p.FeaturedProducts != nil {
		out.FeaturedProducts = nilIfEmpty(*p.FeaturedProducts)
	}
	if p.Categories != nil {
		out.Categories = nilIfEmpty(*p.Categories)
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	return out
}

// PatchFrom builds a full-replacement patch carrying every mutable field of v.
func PatchFrom(v Variant) Patch {
	title, subtitle := v.Title, v.Subtitle
	bg, video := v.BackgroundImage, v.VideoURL
	primary, secondary := CTA{}, CTA{}
	if v.PrimaryCta != nil {
		primary = *v.PrimaryCta
	}
	if v.SecondaryCta != nil {
		secondary = *v.SecondaryCta
	}
	stats := append([]Stat{}, v.Stats...)
	features := append([]Feature{}, v.Features...)
	testimonials := append([]Testimonial{}, v.Testimonials...)
	products := append([]string{}, v.FeaturedProducts...)
	categories := append([]Category{}, v.Categories...)
	active := v.IsActive
	return Patch{
		Title:            &title,
		Subtitle:         &subtitle,
		PrimaryCta:       &primary,
		SecondaryCta:     &secondary,
		BackgroundImage:  &bg,
		VideoURL:         &video,
		Stats:            &stats,
		Features:         &features,
		Testimonials:     &testimonials,
		FeaturedProducts: &products,
		Categories:       &categories,
		IsActive:         &active,
	}
}

func completeOrNil(c *CTA) *CTA {
	if !c.Complete() {
		return nil
	}
	cp := *c
	return &cp
}

func nilIfEmpty[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
