package editor

import (
	"errors"
	"sort"
	"time"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/invariant"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
)

// Row is one line of the variant list.
type Row struct {
	Key         string           `json:"variant_key"`
	Title       string           `json:"title"`
	Template    preview.Template `json:"template"`
	IsActive    bool             `json:"is_active"`
	Stats       int              `json:"stats"`
	Features    int              `json:"features"`
	Products    int              `json:"featured_products"`
	Categories  int              `json:"categories"`
	UpdatedAt   time.Time        `json:"updated_at"`
	CanDelete   bool             `json:"can_delete"`
	CanActivate bool             `json:"can_activate"`
	DeleteHint  string           `json:"delete_hint,omitempty"`
}

// Rows lists the cached collection with the active variant first, the rest in
// server order.
func (e *Editor) Rows() []Row {
	e.mu.Lock()
	defer e.mu.Unlock()
	rows := make([]Row, 0, len(e.collection))
	for i := range e.collection {
		rows = append(rows, rowFor(e.collection, i, e.inFlight))
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].IsActive && !rows[b].IsActive
	})
	return rows
}

func rowFor(coll []hero.Variant, i int, busy bool) Row {
	v := coll[i]
	r := Row{
		Key:         v.VariantKey,
		Title:       v.Title,
		Template:    preview.TemplateFor(v.VariantKey),
		IsActive:    v.IsActive,
		Stats:       len(v.Stats),
		Features:    len(v.Features),
		Products:    len(v.FeaturedProducts),
		Categories:  len(v.Categories),
		UpdatedAt:   v.UpdatedAt,
		CanActivate: !v.IsActive && !busy,
	}
	err := invariant.CanDelete(coll, v.VariantKey)
	r.CanDelete = err == nil && !busy
	if errors.Is(err, hero.ErrProtectedActiveRecord) {
		r.DeleteHint = "Activate another variant before deleting this one"
	}
	return r
}
