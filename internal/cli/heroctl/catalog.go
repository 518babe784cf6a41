package heroctl

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
)

func newIconsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "icons",
		Short: "List the icon keys stats and features can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := preview.IconKeys()
			if opts.output != "table" {
				return encode(cmd.OutOrStdout(), opts.output, keys)
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}

func newLookupCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Search the catalog for products or categories to feature",
	}
	cmd.AddCommand(
		newLookupKindCmd(opts, "products", func(ed *editor.Editor) lookupFunc { return ed.SearchProducts }),
		newLookupKindCmd(opts, "categories", func(ed *editor.Editor) lookupFunc { return ed.SearchCategories }),
	)
	return cmd
}

type lookupFunc = func(ctx context.Context, query string) ([]editor.LookupResult, error)

func newLookupKindCmd(opts *rootOptions, kind string, pick func(*editor.Editor) lookupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   kind + " QUERY",
		Short: "Search " + kind,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.connect()
			if err != nil {
				return err
			}
			ed := editor.New(c, editor.Options{Products: c, Categories: c})
			res, err := pick(ed)(cmd.Context(), args[0])
			if err != nil {
				return reportNotice(cmd, editor.OpLookup, err, nil)
			}
			if opts.output != "table" {
				return encode(cmd.OutOrStdout(), opts.output, res)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tIMAGE")
			for _, r := range res {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Name, r.Image)
			}
			return tw.Flush()
		},
	}
}
