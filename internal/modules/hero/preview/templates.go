package preview

import (
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

const (
	maxStats        = 3
	maxFeatures     = 3
	maxTrustBadges  = 3
	maxTestimonials = 3

	discountBadgeText = "Special offer"
)

var trustBadges = []struct{ icon, label string }{
	{"shield", "Secure checkout"},
	{"truck", "Free shipping"},
	{"refresh-cw", "30-day returns"},
	{"headphones", "24/7 support"},
}

// Two-column product pitch: copy and CTAs on one side, trust badges on the
// other. Stats and features are not shown.
func renderMinimal(v hero.Variant, l layout) Node {
	copyCol := Node{Kind: "column", Props: map[string]string{"align": "start"}, Children: compact([]Node{
		heading(v.Title, l, "dark"),
		subtitle(v.Subtitle, "dark"),
		ctaGroup(l, v.PrimaryCta, v.SecondaryCta),
	})}

	badges := make([]Node, 0, maxTrustBadges)
	for _, b := range limit(trustBadges, maxTrustBadges) {
		badges = append(badges, Node{Kind: "trust-badge", Props: map[string]string{
			"icon":  ResolveIcon(b.icon),
			"label": b.label,
		}})
	}
	badgeCol := Node{Kind: "trust-badges", Props: map[string]string{"columns": itoa(l.columns)}, Children: badges}

	grid := Node{Kind: "grid", Props: map[string]string{"columns": itoa(l.split)}, Children: []Node{copyCol, badgeCol}}
	return l.section(TemplateMinimal, map[string]string{"background": "white", "text_color": "dark"}, grid)
}

// Centered copy over a dark gradient. Content blocks are ignored even when
// present.
func renderPromotional(v hero.Variant, l layout) Node {
	return l.section(TemplatePromotional,
		map[string]string{"background": "gradient-dark", "text_color": "light", "align": "center"},
		heading(v.Title, l, "light"),
		subtitle(v.Subtitle, "light"),
		ctaGroup(l, v.PrimaryCta, v.SecondaryCta),
	)
}

// Centered hero with an optional background image, the primary CTA only, and
// up to three icon stats.
func renderModern(v hero.Variant, l layout) Node {
	color := textColor(v)
	var stats Node
	if len(v.Stats) > 0 {
		items := make([]Node, 0, maxStats)
		for _, s := range limit([]hero.Stat(v.Stats), maxStats) {
			items = append(items, Node{Kind: "stat", Props: map[string]string{
				"icon":  ResolveIcon(s.Icon),
				"value": s.Value,
				"label": s.Label,
			}})
		}
		stats = Node{Kind: "stats", Props: map[string]string{"columns": itoa(min(l.columns, len(items))), "style": "icon"}, Children: items}
	}
	return l.section(TemplateModern,
		map[string]string{"align": "center", "text_color": color},
		backgroundImage(v.BackgroundImage),
		heading(v.Title, l, color),
		subtitle(v.Subtitle, color),
		ctaGroup(l, v.PrimaryCta, nil),
		stats,
	)
}

// Fallback layout. Every optional block renders when populated.
func renderDefault(v hero.Variant, l layout) Node {
	color := textColor(v)

	var features Node
	if len(v.Features) > 0 {
		cards := make([]Node, 0, maxFeatures)
		for _, f := range limit([]hero.Feature(v.Features), maxFeatures) {
			cards = append(cards, Node{Kind: "feature-card", Props: map[string]string{
				"icon":        ResolveIcon(f.Icon),
				"title":       f.Title,
				"description": f.Description,
			}})
		}
		features = Node{Kind: "features", Props: map[string]string{"columns": itoa(min(l.columns, len(cards)))}, Children: cards}
	}

	var stats Node
	if len(v.Stats) > 0 {
		items := make([]Node, 0, maxStats)
		for _, s := range limit([]hero.Stat(v.Stats), maxStats) {
			items = append(items, Node{Kind: "stat", Props: map[string]string{
				"value": s.Value,
				"label": s.Label,
			}})
		}
		stats = Node{Kind: "stats", Props: map[string]string{"columns": itoa(min(l.columns, len(items))), "style": "plain"}, Children: items}
	}

	var testimonials Node
	if len(v.Testimonials) > 0 {
		items := make([]Node, 0, maxTestimonials)
		for _, t := range limit([]hero.Testimonial(v.Testimonials), maxTestimonials) {
			items = append(items, Node{Kind: "testimonial", Props: map[string]string{
				"text":   t.Text,
				"author": t.Author,
				"rating": itoa(clampRating(t.Rating)),
			}})
		}
		testimonials = Node{Kind: "testimonials", Props: map[string]string{"columns": itoa(min(l.columns, len(items)))}, Children: items}
	}

	var categories Node
	if len(v.Categories) > 0 {
		items := make([]Node, 0, len(v.Categories))
		for _, c := range limit([]hero.Category(v.Categories), hero.MaxCategories) {
			items = append(items, Node{Kind: "category-tile", Props: map[string]string{
				"id":    c.ID,
				"name":  c.Name,
				"image": c.Image,
				"href":  c.Href,
			}})
		}
		categories = Node{Kind: "categories", Props: map[string]string{"columns": itoa(categoryColumns(l))}, Children: items}
	}

	var products Node
	if len(v.FeaturedProducts) > 0 {
		items := make([]Node, 0, len(v.FeaturedProducts))
		for _, id := range limit([]string(v.FeaturedProducts), hero.MaxFeaturedProducts) {
			items = append(items, Node{Kind: "product-ref", Props: map[string]string{"id": id}})
		}
		products = Node{Kind: "products", Props: map[string]string{"layout": productLayout(l)}, Children: items}
	}

	var video Node
	if strings.TrimSpace(v.VideoURL) != "" {
		video = Node{Kind: "video", Props: map[string]string{"src": v.VideoURL, "autoplay": "muted"}}
	}

	return l.section(TemplateDefault,
		map[string]string{"text_color": color},
		backgroundImage(v.BackgroundImage),
		Node{Kind: "badge", Props: map[string]string{"text": discountBadgeText, "tone": "discount"}},
		heading(v.Title, l, color),
		subtitle(v.Subtitle, color),
		ctaGroup(l, v.PrimaryCta, v.SecondaryCta),
		video,
		features,
		stats,
		testimonials,
		categories,
		products,
	)
}

func textColor(v hero.Variant) string {
	if strings.TrimSpace(v.BackgroundImage) != "" {
		return "light"
	}
	return "dark"
}

func heading(title string, l layout, color string) Node {
	return Node{Kind: "heading", Props: map[string]string{"text": title, "size": l.titleSize, "color": color}}
}

func subtitle(text, color string) Node {
	if strings.TrimSpace(text) == "" {
		return Node{}
	}
	return Node{Kind: "text", Props: map[string]string{"text": text, "color": color}}
}

func backgroundImage(src string) Node {
	if strings.TrimSpace(src) == "" {
		return Node{}
	}
	return Node{Kind: "background-image", Props: map[string]string{"src": src, "overlay": "dark"}}
}

func ctaGroup(l layout, primary, secondary *hero.CTA) Node {
	buttons := make([]Node, 0, 2)
	if primary.Complete() {
		buttons = append(buttons, Node{Kind: "button", Props: map[string]string{"variant": "primary", "text": primary.Text, "href": primary.Href}})
	}
	if secondary.Complete() {
		buttons = append(buttons, Node{Kind: "button", Props: map[string]string{"variant": "secondary", "text": secondary.Text, "href": secondary.Href}})
	}
	if len(buttons) == 0 {
		return Node{}
	}
	return Node{Kind: "cta-group", Props: map[string]string{"direction": l.ctaDir}, Children: buttons}
}

func clampRating(r int) int {
	return max(hero.MinRating, min(hero.MaxRating, r))
}

func categoryColumns(l layout) int {
	if l.viewport == Mobile {
		return 2
	}
	return 4
}

func productLayout(l layout) string {
	if l.viewport == Mobile {
		return "carousel"
	}
	return "grid"
}
