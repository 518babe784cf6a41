package heroctl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/data/repos"
	"github.com/yungbote/storefront-admin/internal/data/repos/testutil"
	apphttp "github.com/yungbote/storefront-admin/internal/http"
	httpH "github.com/yungbote/storefront-admin/internal/http/handlers"
	"github.com/yungbote/storefront-admin/internal/http/middleware"
	heroUC "github.com/yungbote/storefront-admin/internal/modules/hero"
)

const secret = "heroctl-test-secret"

type harness struct {
	t       *testing.T
	baseURL string
	token   string
	dir     string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	uc := heroUC.New(heroUC.UsecasesDeps{DB: db, Log: log, Variants: repos.NewHeroVariantRepo(db, log)})
	router := apphttp.NewRouter(apphttp.RouterConfig{
		Log:                log,
		AuthMiddleware:     middleware.NewAuthMiddleware(log, secret),
		HeroVariantHandler: httpH.NewHeroVariantHandler(log, uc),
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	tok, err := middleware.IssueAdminToken(secret, "heroctl-test", time.Hour)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}
	dir := t.TempDir()
	t.Setenv("HEROCTL_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("HEROCTL_BASE_URL", "")
	t.Setenv("HEROCTL_TOKEN", "")
	return &harness{t: t, baseURL: srv.URL, token: tok, dir: dir}
}

func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--base-url", h.baseURL, "--token", h.token}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func (h *harness) file(name, body string) string {
	h.t.Helper()
	p := filepath.Join(h.dir, name)
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		h.t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const summerDoc = `
variant_key: summer
title: Summer sale
subtitle: Up to 50% off
primary_cta:
  text: Shop now
  href: /sale
stats:
  - value: "10k"
    label: Customers
    icon: users
is_active: true
`

func TestCreateListShowActivateDelete(t *testing.T) {
	h := newHarness(t)

	if _, errOut, err := h.run("", "create", "-f", h.file("summer.yaml", summerDoc)); err != nil {
		t.Fatalf("create summer: %v (%s)", err, errOut)
	}
	if _, errOut, err := h.run("", "create", "-f", h.file("modern.yaml", "variant_key: modern\ntitle: Modern look\n")); err != nil {
		t.Fatalf("create modern: %v (%s)", err, errOut)
	}

	out, _, err := h.run("", "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 || !strings.HasPrefix(lines[1], "summer") || !strings.Contains(lines[1], "*") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	out, _, err = h.run("", "show", "summer")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "title: Summer sale") || !strings.Contains(out, "href: /sale") {
		t.Fatalf("unexpected show output:\n%s", out)
	}

	_, errOut, err := h.run("", "delete", "summer", "--yes")
	if err == nil || !strings.Contains(errOut, "Cannot delete the active variant") {
		t.Fatalf("delete active: err=%v stderr=%q", err, errOut)
	}

	if _, errOut, err := h.run("", "activate", "modern"); err != nil {
		t.Fatalf("activate: %v (%s)", err, errOut)
	}

	_, errOut, err = h.run("n\n", "delete", "summer")
	if err == nil || !strings.Contains(errOut, "Deletion cancelled") {
		t.Fatalf("declined delete: err=%v stderr=%q", err, errOut)
	}
	if _, errOut, err := h.run("y\n", "delete", "summer"); err != nil {
		t.Fatalf("confirmed delete: %v (%s)", err, errOut)
	}
}

func TestCreateRejectsDuplicateAndInvalid(t *testing.T) {
	h := newHarness(t)
	doc := h.file("a.yaml", "variant_key: a\ntitle: A\n")
	if _, _, err := h.run("", "create", "-f", doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, errOut, err := h.run("", "create", "-f", doc)
	if err == nil || !strings.Contains(errOut, "Duplicate variant key") || !strings.Contains(errOut, "variantKey") {
		t.Fatalf("duplicate: err=%v stderr=%q", err, errOut)
	}
	_, errOut, err = h.run("", "create", "-f", h.file("bad.yaml", "variant_key: Bad Key\n"))
	if err == nil || !strings.Contains(errOut, "title") {
		t.Fatalf("invalid: err=%v stderr=%q", err, errOut)
	}
}

func TestUpdateKeepsKey(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("", "create", "-f", h.file("s.yaml", summerDoc)); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, _, err := h.run("", "update", "summer", "-f", h.file("rename.yaml", "variant_key: winter\n")); err == nil {
		t.Fatalf("rename accepted")
	}
	if _, errOut, err := h.run("", "update", "summer", "-f", h.file("u.yaml", "title: Summer sale extended\nstats: []\n")); err != nil {
		t.Fatalf("update: %v (%s)", err, errOut)
	}
	out, _, err := h.run("", "show", "summer", "-o", "json")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Summer sale extended") || strings.Contains(out, "Customers") {
		t.Fatalf("unexpected variant:\n%s", out)
	}
}

func TestPreviewBothViewports(t *testing.T) {
	h := newHarness(t)
	if _, _, err := h.run("", "create", "-f", h.file("m.yaml", "variant_key: modern\ntitle: Modern\n")); err != nil {
		t.Fatalf("create: %v", err)
	}
	out, _, err := h.run("", "preview", "modern", "-o", "json")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !strings.Contains(out, `"desktop"`) || !strings.Contains(out, `"mobile"`) || !strings.Contains(out, `"template": "modern"`) {
		t.Fatalf("unexpected preview output:\n%s", out)
	}
	if _, _, err := h.run("", "preview", "modern", "--viewport", "tv"); err == nil {
		t.Fatalf("bad viewport accepted")
	}
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("ADMIN_JWT_SECRET", secret)
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"token", "--subject", "ops"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := middleware.NewAuthMiddleware(testutil.Logger(t), secret).Verify(strings.TrimSpace(out.String()))
	if err != nil || claims.Subject != "ops" || claims.Role != middleware.RoleAdmin {
		t.Fatalf("token not valid: %+v %v", claims, err)
	}
}

func TestLoadProfile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "heroctl.yaml")
	if err := os.WriteFile(p, []byte("base_url: http://admin.test\ntoken: abc\ntimeout_seconds: 5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HEROCTL_BASE_URL", "")
	t.Setenv("HEROCTL_TOKEN", "env-token")
	prof, err := LoadProfile(p)
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if prof.BaseURL != "http://admin.test" || prof.Token != "env-token" || prof.TimeoutSeconds != 5 {
		t.Fatalf("unexpected profile: %+v", prof)
	}
	if _, err := LoadProfile(filepath.Join(dir, "nope.yaml")); err != nil {
		t.Fatalf("missing profile should be empty, got %v", err)
	}
}

func TestCheckReportsBlockingAndAdvisory(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("", "check", "-f", h.file("ok.yaml", "variant_key: ok\ntitle: Ok\nprimary_cta:\n  text: Go\n  href: shop\n"))
	if err != nil {
		t.Fatalf("check with advisory only: %v", err)
	}
	if !strings.Contains(out, "warning\tprimaryCta_href") {
		t.Fatalf("unexpected check output:\n%s", out)
	}

	cats := "categories:\n" + strings.Repeat("  - name: c\n", 9)
	out, _, err = h.run("", "check", "-f", h.file("bad.yaml", "variant_key: Bad Key\n"+cats))
	if err == nil {
		t.Fatalf("blocking errors accepted")
	}
	for _, want := range []string{"error\tvariantKey", "error\ttitle", "error\tcategories"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "variantKey") > strings.Index(out, "title") {
		t.Fatalf("findings not in field order:\n%s", out)
	}
}

func TestIconsCommand(t *testing.T) {
	h := newHarness(t)
	out, _, err := h.run("", "icons")
	if err != nil {
		t.Fatalf("icons: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 2 || lines[0] != "award" || !strings.Contains(out, "\ntruck\n") {
		t.Fatalf("unexpected icons output:\n%s", out)
	}
}

func TestLookupCommands(t *testing.T) {
	h := newHarness(t)
	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/products/search":
			fmt.Fprintf(w, `{"results":[{"id":"p1","name":"%s shoe"}]}`, r.URL.Query().Get("q"))
		case "/api/categories/search":
			fmt.Fprint(w, `{"results":[{"id":"c1","name":"Shoes","image":"/c1.png"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"message":"no such catalog","code":"not_found"}}`)
		}
	}))
	t.Cleanup(catalog.Close)
	t.Setenv("HEROCTL_CONFIG", h.file("profile.yaml", "catalog_url: "+catalog.URL+"\n"))

	out, _, err := h.run("", "lookup", "products", "red")
	if err != nil || !strings.Contains(out, "p1") || !strings.Contains(out, "red shoe") {
		t.Fatalf("lookup products: %v\n%s", err, out)
	}
	out, _, err = h.run("", "lookup", "categories", "sho", "-o", "json")
	if err != nil || !strings.Contains(out, `"image": "/c1.png"`) {
		t.Fatalf("lookup categories: %v\n%s", err, out)
	}
}
