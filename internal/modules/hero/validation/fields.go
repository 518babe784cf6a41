package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
)

// Form field identifiers. These are the names the editor uses for inputs and
// the keys of every error map returned by this package.
const (
	FieldVariantKey       = "variantKey"
	FieldTitle            = "title"
	FieldSubtitle         = "subtitle"
	FieldPrimaryCTAText   = "primaryCta_text"
	FieldPrimaryCTAHref   = "primaryCta_href"
	FieldSecondaryCTAText = "secondaryCta_text"
	FieldSecondaryCTAHref = "secondaryCta_href"
	FieldBackgroundImage  = "backgroundImage"
	FieldVideoURL         = "videoUrl"
)

// Form is a flat view of the scalar draft fields, keyed by field identifier.
type Form map[string]string

type rule struct {
	label string
	tags  string
}

var rules = map[string]rule{
	FieldVariantKey:       {label: "Variant key", tags: fmt.Sprintf("required,max=%d,variantkey", hero.MaxVariantKeyLen)},
	FieldTitle:            {label: "Title", tags: fmt.Sprintf("required,max=%d", hero.MaxTitleLen)},
	FieldSubtitle:         {label: "Subtitle", tags: fmt.Sprintf("omitempty,max=%d", hero.MaxSubtitleLen)},
	FieldPrimaryCTAText:   {label: "Primary button text", tags: fmt.Sprintf("omitempty,max=%d", hero.MaxCTATextLen)},
	FieldPrimaryCTAHref:   {label: "Primary button link", tags: fmt.Sprintf("omitempty,hrefprefix,max=%d", hero.MaxCTAHrefLen)},
	FieldSecondaryCTAText: {label: "Secondary button text", tags: fmt.Sprintf("omitempty,max=%d", hero.MaxCTATextLen)},
	FieldSecondaryCTAHref: {label: "Secondary button link", tags: fmt.Sprintf("omitempty,hrefprefix,max=%d", hero.MaxCTAHrefLen)},
	FieldBackgroundImage:  {label: "Background image URL", tags: fmt.Sprintf("omitempty,hrefprefix,max=%d", hero.MaxMediaURLLen)},
	FieldVideoURL:         {label: "Video URL", tags: fmt.Sprintf("omitempty,hrefprefix,max=%d", hero.MaxMediaURLLen)},
}

// Order in which fields are validated and reported.
var fieldOrder = []string{
	FieldVariantKey,
	FieldTitle,
	FieldSubtitle,
	FieldPrimaryCTAText,
	FieldPrimaryCTAHref,
	FieldSecondaryCTAText,
	FieldSecondaryCTAHref,
	FieldBackgroundImage,
	FieldVideoURL,
}

// Only these fields stop a submit; every other error is shown but advisory.
var hardBlocking = map[string]bool{
	FieldVariantKey: true,
	FieldTitle:      true,
}

var variantKeyPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("variantkey", func(fl validator.FieldLevel) bool {
		return variantKeyPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("hrefprefix", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "http")
	}); err != nil {
		panic(err)
	}
	return v
}

// Fields returns every known field identifier in display order.
func Fields() []string {
	return append([]string(nil), fieldOrder...)
}

// IsHardBlocking reports whether an error on field prevents submission.
func IsHardBlocking(field string) bool {
	return hardBlocking[field]
}

// ValidateField checks a single input and returns the message to display, or
// "" when the value is acceptable. Unknown fields always pass.
func ValidateField(field, value string) string {
	r, ok := rules[field]
	if !ok {
		return ""
	}
	err := validate.Var(strings.TrimSpace(value), r.tags)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return r.label + " is invalid"
	}
	return message(r.label, verrs[0])
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "variantkey":
		return label + " may only contain lowercase letters, numbers, and hyphens"
	case "hrefprefix":
		return label + " must start with / or http"
	default:
		return label + " is invalid"
	}
}

// AllErrors validates every known field of form, advisory ones included.
func AllErrors(form Form) map[string]string {
	out := map[string]string{}
	for _, field := range fieldOrder {
		if msg := ValidateField(field, form[field]); msg != "" {
			out[field] = msg
		}
	}
	return out
}

// ValidateForm returns the errors that block submission. Only the variant key
// and the title are enforced here; malformed optional fields are reported by
// ValidateField/AllErrors but never stop a save.
func ValidateForm(form Form) map[string]string {
	out := map[string]string{}
	for field := range hardBlocking {
		if msg := ValidateField(field, form[field]); msg != "" {
			out[field] = msg
		}
	}
	return out
}
