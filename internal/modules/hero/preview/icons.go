package preview

import "sort"

// DefaultIcon is used for any icon key outside the catalog, including keys
// stored by older versions of the editor.
const DefaultIcon = "book"

var iconCatalog = map[string]struct{}{
	"award":        {},
	"book":         {},
	"check-circle": {},
	"clock":        {},
	"credit-card":  {},
	"gift":         {},
	"globe":        {},
	"headphones":   {},
	"heart":        {},
	"package":      {},
	"percent":      {},
	"refresh-cw":   {},
	"shield":       {},
	"shopping-bag": {},
	"sparkles":     {},
	"star":         {},
	"tag":          {},
	"thumbs-up":    {},
	"trending-up":  {},
	"truck":        {},
	"users":        {},
	"zap":          {},
}

// ResolveIcon maps an icon key to a catalog entry, falling back to DefaultIcon.
func ResolveIcon(key string) string {
	if _, ok := iconCatalog[key]; ok {
		return key
	}
	return DefaultIcon
}

// IconKeys lists the catalog in sorted order.
func IconKeys() []string {
	out := make([]string, 0, len(iconCatalog))
	for k := range iconCatalog {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
