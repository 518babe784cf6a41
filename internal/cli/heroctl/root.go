package heroctl

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront-admin/internal/clients/heroapi"
	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/http/middleware"
	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
)

type rootOptions struct {
	configPath string
	baseURL    string
	token      string
	output     string

	client *heroapi.Client
}

// NewRootCommand builds the heroctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "heroctl",
		Short:         "Manage storefront hero banner variants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", DefaultProfilePath(), "Profile file (YAML)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Admin API base URL (overrides profile)")
	cmd.PersistentFlags().StringVar(&opts.token, "token", "", "Admin bearer token (overrides profile)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", "table", "Output format: table, yaml, json")

	cmd.AddCommand(
		newListCmd(opts),
		newShowCmd(opts),
		newPreviewCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newActivateCmd(opts),
		newDeleteCmd(opts),
		newCheckCmd(opts),
		newIconsCmd(opts),
		newLookupCmd(opts),
		newTokenCmd(),
	)
	return cmd
}

// connect resolves the profile and builds the API client once per run.
func (o *rootOptions) connect() (*heroapi.Client, error) {
	if o.client != nil {
		return o.client, nil
	}
	p, err := LoadProfile(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		p.BaseURL = o.baseURL
	}
	if o.token != "" {
		p.Token = o.token
	}
	c, err := heroapi.New(nil, p.clientConfig())
	if err != nil {
		return nil, err
	}
	o.client = c
	return c, nil
}

func (o *rootOptions) editor(cmd *cobra.Command) (*editor.Editor, error) {
	c, err := o.connect()
	if err != nil {
		return nil, err
	}
	ed := editor.New(c, editor.Options{Uploader: c, Products: c, Categories: c})
	if err := ed.Refresh(cmd.Context()); err != nil {
		return nil, reportNotice(cmd, editor.OpRefresh, err, nil)
	}
	return ed, nil
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List variants, active first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := opts.editor(cmd)
			if err != nil {
				return err
			}
			rows := ed.Rows()
			if opts.output != "table" {
				return encode(cmd.OutOrStdout(), opts.output, rows)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTITLE\tTEMPLATE\tACTIVE\tUPDATED")
			for _, r := range rows {
				active := ""
				if r.IsActive {
					active = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Key, r.Title, r.Template, active, r.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show KEY",
		Short: "Print one variant as a YAML document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.connect()
			if err != nil {
				return err
			}
			v, err := c.GetVariant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			format := opts.output
			if format == "table" {
				format = "yaml"
			}
			return encode(cmd.OutOrStdout(), format, DocumentFrom(*v))
		},
	}
}

func newPreviewCmd(opts *rootOptions) *cobra.Command {
	var viewport string
	cmd := &cobra.Command{
		Use:   "preview KEY...",
		Short: "Render stored variants for desktop and/or mobile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes, err := viewports(viewport)
			if err != nil {
				return err
			}
			c, err := opts.connect()
			if err != nil {
				return err
			}

			results := make([][]preview.Rendering, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(4)
			for i, key := range args {
				results[i] = make([]preview.Rendering, len(modes))
				for j, mode := range modes {
					g.Go(func() error {
						r, err := c.Preview(ctx, key, mode)
						if err != nil {
							return fmt.Errorf("preview %s (%s): %w", key, mode, err)
						}
						results[i][j] = r
						return nil
					})
				}
			}
			if err := g.Wait(); err != nil {
				return err
			}

			out := map[string]map[preview.Viewport]preview.Rendering{}
			for i, key := range args {
				out[key] = map[preview.Viewport]preview.Rendering{}
				for j, mode := range modes {
					out[key][mode] = results[i][j]
				}
			}
			format := opts.output
			if format == "table" {
				format = "yaml"
			}
			return encode(cmd.OutOrStdout(), format, out)
		},
	}
	cmd.Flags().StringVar(&viewport, "viewport", "both", "desktop, mobile or both")
	return cmd
}

func viewports(s string) ([]preview.Viewport, error) {
	if strings.EqualFold(strings.TrimSpace(s), "both") {
		return []preview.Viewport{preview.Desktop, preview.Mobile}, nil
	}
	m, err := preview.ParseViewport(s)
	if err != nil {
		return nil, err
	}
	return []preview.Viewport{m}, nil
}

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create a variant from a YAML document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := LoadDocument(file)
			if err != nil {
				return err
			}
			ed, err := opts.editor(cmd)
			if err != nil {
				return err
			}
			if err := ed.OpenCreate(); err != nil {
				return err
			}
			return submit(cmd, ed, doc, editor.OpCreate)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Variant document (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "update KEY -f FILE",
		Short: "Apply a YAML document to an existing variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := LoadDocument(file)
			if err != nil {
				return err
			}
			if doc.VariantKey != nil && *doc.VariantKey != args[0] {
				return editor.ErrKeyImmutable
			}
			ed, err := opts.editor(cmd)
			if err != nil {
				return err
			}
			if err := ed.OpenEdit(args[0]); err != nil {
				return reportNotice(cmd, editor.OpUpdate, err, nil)
			}
			return submit(cmd, ed, doc, editor.OpUpdate)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Variant document (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func submit(cmd *cobra.Command, ed *editor.Editor, doc Document, op editor.Operation) error {
	if err := doc.applyTo(ed); err != nil {
		return err
	}
	v, err := ed.Submit(cmd.Context())
	if err != nil {
		return reportNotice(cmd, op, err, ed.Errors())
	}
	n := editor.NoticeFor(op, nil)
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", n.Title, v.VariantKey)
	return nil
}

func newActivateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "activate KEY",
		Short: "Make KEY the only active variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := opts.editor(cmd)
			if err != nil {
				return err
			}
			if err := ed.Activate(cmd.Context(), args[0]); err != nil {
				return reportNotice(cmd, editor.OpActivate, err, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", editor.NoticeFor(editor.OpActivate, nil).Title, args[0])
			return nil
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete KEY",
		Short: "Delete an inactive variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := opts.editor(cmd)
			if err != nil {
				return err
			}
			confirm := func(v hero.Variant) bool {
				if yes {
					return true
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Delete variant %q (%s)? [y/N] ", v.VariantKey, v.Title)
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}
			if err := ed.Delete(cmd.Context(), args[0], confirm); err != nil {
				return reportNotice(cmd, editor.OpDelete, err, nil)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", editor.NoticeFor(editor.OpDelete, nil).Title, args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an admin token with ADMIN_JWT_SECRET",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := middleware.IssueAdminToken(strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET")), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "heroctl", "Token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "Token lifetime")
	return cmd
}

// reportNotice prints the operator-facing notice for err and any field
// errors, then returns err so the exit status is non-zero.
func reportNotice(cmd *cobra.Command, op editor.Operation, err error, fields map[string]string) error {
	n := editor.NoticeFor(op, err)
	w := cmd.ErrOrStderr()
	if n.Message != "" {
		fmt.Fprintf(w, "%s: %s\n", n.Title, n.Message)
	} else {
		fmt.Fprintln(w, n.Title)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, fields[k])
	}
	return err
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return errors.New("unknown output format " + format)
	}
}
