package heroctl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
)

var errDocumentInvalid = errors.New("variant document has blocking errors")

// Variant builds the record a document describes. Absent fields stay empty.
func (d Document) Variant() hero.Variant {
	var v hero.Variant
	str := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	v.VariantKey = str(d.VariantKey)
	v.Title = str(d.Title)
	v.Subtitle = str(d.Subtitle)
	v.BackgroundImage = str(d.BackgroundImage)
	v.VideoURL = str(d.VideoURL)
	v.PrimaryCta = d.PrimaryCta
	v.SecondaryCta = d.SecondaryCta
	if d.Stats != nil {
		v.Stats = *d.Stats
	}
	if d.Features != nil {
		v.Features = *d.Features
	}
	if d.Testimonials != nil {
		v.Testimonials = *d.Testimonials
	}
	if d.FeaturedProducts != nil {
		v.FeaturedProducts = *d.FeaturedProducts
	}
	if d.Categories != nil {
		v.Categories = *d.Categories
	}
	if d.IsActive != nil {
		v.IsActive = *d.IsActive
	}
	return v
}

type finding struct {
	Field    string `json:"field" yaml:"field"`
	Severity string `json:"severity" yaml:"severity"`
	Message  string `json:"message" yaml:"message"`
}

// checkDocument lists every problem in field display order, then the content
// block limits. Only key, title and block limits are blocking.
func checkDocument(d Document) []finding {
	v := d.Variant()
	all := validation.AllErrors(validation.FormFromVariant(v))
	var out []finding
	for _, f := range validation.Fields() {
		msg, ok := all[f]
		if !ok {
			continue
		}
		sev := "warning"
		if validation.IsHardBlocking(f) {
			sev = "error"
		}
		out = append(out, finding{Field: f, Severity: sev, Message: msg})
	}
	coll := validation.ValidateCollections(v)
	keys := make([]string, 0, len(coll))
	for k := range coll {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, finding{Field: k, Severity: "error", Message: coll[k]})
	}
	return out
}

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check -f FILE",
		Short: "Validate a variant document without contacting the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := LoadDocument(file)
			if err != nil {
				return err
			}
			findings := checkDocument(doc)
			if opts.output != "table" {
				if err := encode(cmd.OutOrStdout(), opts.output, findings); err != nil {
					return err
				}
			} else {
				for _, f := range findings {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", f.Severity, f.Field, f.Message)
				}
				if len(findings) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "ok")
				}
			}
			for _, f := range findings {
				if f.Severity == "error" {
					return errDocumentInvalid
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Variant document (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
