// Package preview turns a hero variant into a tree of presentational blocks.
// Rendering is a pure function of (variant, viewport).
package preview

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

type Viewport string

const (
	Desktop Viewport = "desktop"
	Mobile  Viewport = "mobile"
)

// ParseViewport accepts "desktop" or "mobile"; empty means desktop.
func ParseViewport(s string) (Viewport, error) {
	switch Viewport(strings.ToLower(strings.TrimSpace(s))) {
	case "", Desktop:
		return Desktop, nil
	case Mobile:
		return Mobile, nil
	default:
		return "", fmt.Errorf("unknown viewport %q (allowed: %q, %q)", s, Desktop, Mobile)
	}
}

type Template string

const (
	TemplateMinimal     Template = "minimal-product"
	TemplatePromotional Template = "interactive-promotional"
	TemplateModern      Template = "modern"
	TemplateDefault     Template = "default"
)

// Node is one presentational block. Props hold scalar display attributes;
// Children are nested blocks in display order.
type Node struct {
	Kind     string            `json:"kind"`
	Props    map[string]string `json:"props,omitempty"`
	Children []Node            `json:"children,omitempty"`
}

type Rendering struct {
	Template Template `json:"template"`
	Viewport Viewport `json:"viewport"`
	Root     Node     `json:"root"`
}

type renderer func(v hero.Variant, l layout) Node

var renderers = map[Template]renderer{
	TemplateMinimal:     renderMinimal,
	TemplatePromotional: renderPromotional,
	TemplateModern:      renderModern,
	TemplateDefault:     renderDefault,
}

// TemplateFor selects the template for a variant key. Keys without a
// dedicated template use TemplateDefault.
func TemplateFor(variantKey string) Template {
	switch Template(variantKey) {
	case TemplateMinimal:
		return TemplateMinimal
	case TemplatePromotional:
		return TemplatePromotional
	case TemplateModern:
		return TemplateModern
	default:
		return TemplateDefault
	}
}

// Render composes the preview of v for the given viewport. Unknown viewports
// render as desktop.
func Render(v hero.Variant, mode Viewport) Rendering {
	if mode != Mobile {
		mode = Desktop
	}
	tpl := TemplateFor(v.VariantKey)
	root := renderers[tpl](v, layoutFor(mode))
	return Rendering{Template: tpl, Viewport: mode, Root: root}
}

// layout carries everything that depends on the viewport. Content never does.
type layout struct {
	width     string
	padding   string
	columns   int
	split     int
	titleSize string
	ctaDir    string
	density   string
	viewport  Viewport
}

func layoutFor(mode Viewport) layout {
	if mode == Mobile {
		return layout{
			width:     "375px",
			padding:   "py-12 px-4",
			columns:   1,
			split:     1,
			titleSize: "text-3xl",
			ctaDir:    "column",
			density:   "compact",
			viewport:  Mobile,
		}
	}
	return layout{
		width:     "1280px",
		padding:   "py-24 px-8",
		columns:   3,
		split:     2,
		titleSize: "text-5xl",
		ctaDir:    "row",
		density:   "comfortable",
		viewport:  Desktop,
	}
}

func (l layout) section(tpl Template, extra map[string]string, children ...Node) Node {
	props := map[string]string{
		"template": string(tpl),
		"viewport": string(l.viewport),
		"width":    l.width,
		"padding":  l.padding,
		"density":  l.density,
	}
	for k, v := range extra {
		props[k] = v
	}
	return Node{Kind: "section", Props: props, Children: compact(children)}
}

// compact drops zero-value nodes so optional blocks can be passed inline.
func compact(nodes []Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.Kind != "" {
			out = append(out, n)
		}
	}
	return out
}

func limit[T any](in []T, n int) []T {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func itoa(n int) string { return strconv.Itoa(n) }
