package editor

import (
	"fmt"
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
)

// Content-tab list operations. Indexes are positions in the draft list.

func (e *Editor) AddStat(s hero.Stat) error {
	return e.mutate(func(d *Draft) error {
		d.Stats = append(d.Stats, s)
		return nil
	})
}

func (e *Editor) UpdateStat(i int, s hero.Stat) error {
	return e.mutate(func(d *Draft) error { return replaceAt(d.Stats, i, s) })
}

func (e *Editor) RemoveStat(i int) error {
	return e.mutate(func(d *Draft) (err error) {
		d.Stats, err = removeAt(d.Stats, i)
		return err
	})
}

func (e *Editor) AddFeature(f hero.Feature) error {
	return e.mutate(func(d *Draft) error {
		d.Features = append(d.Features, f)
		return nil
	})
}

func (e *Editor) UpdateFeature(i int, f hero.Feature) error {
	return e.mutate(func(d *Draft) error { return replaceAt(d.Features, i, f) })
}

func (e *Editor) RemoveFeature(i int) error {
	return e.mutate(func(d *Draft) (err error) {
		d.Features, err = removeAt(d.Features, i)
		return err
	})
}

// AddTestimonial appends t. A zero rating defaults to the maximum.
func (e *Editor) AddTestimonial(t hero.Testimonial) error {
	if t.Rating == 0 {
		t.Rating = hero.MaxRating
	}
	if err := checkRating(t.Rating); err != nil {
		return err
	}
	return e.mutate(func(d *Draft) error {
		d.Testimonials = append(d.Testimonials, t)
		return nil
	})
}

func (e *Editor) UpdateTestimonial(i int, t hero.Testimonial) error {
	if err := checkRating(t.Rating); err != nil {
		return err
	}
	return e.mutate(func(d *Draft) error { return replaceAt(d.Testimonials, i, t) })
}

func (e *Editor) RemoveTestimonial(i int) error {
	return e.mutate(func(d *Draft) (err error) {
		d.Testimonials, err = removeAt(d.Testimonials, i)
		return err
	})
}

func (e *Editor) AddCategory(c hero.Category) error {
	return e.mutate(func(d *Draft) error {
		if len(d.Categories) >= hero.MaxCategories {
			return fmt.Errorf("%w: at most %d categories", ErrLimitReached, hero.MaxCategories)
		}
		d.Categories = append(d.Categories, c)
		return nil
	})
}

func (e *Editor) UpdateCategory(i int, c hero.Category) error {
	return e.mutate(func(d *Draft) error { return replaceAt(d.Categories, i, c) })
}

func (e *Editor) RemoveCategory(i int) error {
	return e.mutate(func(d *Draft) (err error) {
		d.Categories, err = removeAt(d.Categories, i)
		return err
	})
}

// AddFeaturedProduct appends a product id. Adding an id already present is a
// no-op.
func (e *Editor) AddFeaturedProduct(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: empty product id", ErrUnknownField)
	}
	return e.mutate(func(d *Draft) error {
		for _, p := range d.FeaturedProducts {
			if p == id {
				return nil
			}
		}
		if len(validation.UniqueProducts(d.FeaturedProducts)) >= hero.MaxFeaturedProducts {
			return fmt.Errorf("%w: at most %d featured products", ErrLimitReached, hero.MaxFeaturedProducts)
		}
		d.FeaturedProducts = append(d.FeaturedProducts, id)
		return nil
	})
}

func (e *Editor) RemoveFeaturedProduct(id string) error {
	return e.mutate(func(d *Draft) error {
		out := d.FeaturedProducts[:0:0]
		for _, p := range d.FeaturedProducts {
			if p != id {
				out = append(out, p)
			}
		}
		d.FeaturedProducts = out
		return nil
	})
}

func checkRating(r int) error {
	if r < hero.MinRating || r > hero.MaxRating {
		return fmt.Errorf("rating must be between %d and %d", hero.MinRating, hero.MaxRating)
	}
	return nil
}

func replaceAt[T any](list []T, i int, v T) error {
	if i < 0 || i >= len(list) {
		return fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	list[i] = v
	return nil
}

func removeAt[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return list, fmt.Errorf("%w: %d", ErrIndexOutOfRange, i)
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}
