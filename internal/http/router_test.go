package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront-admin/internal/clients/heroapi"
	"github.com/yungbote/storefront-admin/internal/data/repos"
	"github.com/yungbote/storefront-admin/internal/data/repos/testutil"
	"github.com/yungbote/storefront-admin/internal/domain/hero"
	httpH "github.com/yungbote/storefront-admin/internal/http/handlers"
	httpMW "github.com/yungbote/storefront-admin/internal/http/middleware"
	heroUC "github.com/yungbote/storefront-admin/internal/modules/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/upload"
	"github.com/yungbote/storefront-admin/internal/modules/hero/validation"
)

const secret = "router-test-secret"

type memStore struct{ keys []string }

func (m *memStore) Put(_ context.Context, key, _ string, r io.Reader) error {
	_, err := io.Copy(io.Discard, r)
	m.keys = append(m.keys, key)
	return err
}
func (m *memStore) Delete(context.Context, string) error { return nil }
func (m *memStore) PublicURL(key string) string          { return "https://cdn.test/" + key }

func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	uc := heroUC.New(heroUC.UsecasesDeps{DB: db, Log: log, Variants: repos.NewHeroVariantRepo(db, log)})
	r := NewRouter(RouterConfig{
		Log:                log,
		AuthMiddleware:     httpMW.NewAuthMiddleware(log, secret),
		HeroVariantHandler: httpH.NewHeroVariantHandler(log, uc),
		UploadHandler:      httpH.NewUploadHandler(log, upload.NewService(log, &memStore{}, upload.Config{})),
		HealthHandler:      httpH.NewHealthHandler(nil),
	})
	tok, err := httpMW.IssueAdminToken(secret, "tester", time.Hour)
	if err != nil {
		t.Fatalf("IssueAdminToken: %v", err)
	}
	return r, tok
}

func do(t *testing.T, r *gin.Engine, tok, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Error struct {
		Message string            `json:"message"`
		Code    string            `json:"code"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestHealthcheckIsPublic(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, "", nethttp.MethodGet, "/healthcheck", nil)
	if rec.Code != nethttp.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: %d %q", rec.Code, rec.Body.String())
	}
	if rec := do(t, r, "", nethttp.MethodGet, "/readycheck", nil); rec.Code != nethttp.StatusOK {
		t.Fatalf("readycheck: %d", rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, "", nethttp.MethodGet, "/api/hero-variants", nil)
	if rec.Code != nethttp.StatusUnauthorized {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestVariantLifecycle(t *testing.T) {
	r, tok := newTestRouter(t)

	rec := do(t, r, tok, nethttp.MethodPost, "/api/hero-variants", hero.Variant{VariantKey: "default", Title: "Welcome", IsActive: true})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("create default: %d %s", rec.Code, rec.Body.String())
	}
	rec = do(t, r, tok, nethttp.MethodPost, "/api/hero-variants", hero.Variant{VariantKey: "modern", Title: "Modern"})
	if rec.Code != nethttp.StatusCreated {
		t.Fatalf("create modern: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, tok, nethttp.MethodPost, "/api/hero-variants", hero.Variant{VariantKey: "modern", Title: "Again"})
	if rec.Code != nethttp.StatusConflict || decodeEnvelope(t, rec).Error.Code != "duplicate_key" {
		t.Fatalf("duplicate: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, tok, nethttp.MethodPost, "/api/hero-variants", hero.Variant{VariantKey: "Bad Key"})
	env := decodeEnvelope(t, rec)
	if rec.Code != nethttp.StatusUnprocessableEntity || env.Error.Code != "validation_failed" {
		t.Fatalf("validation: %d %s", rec.Code, rec.Body.String())
	}
	if env.Error.Fields["variantKey"] == "" || env.Error.Fields["title"] == "" {
		t.Fatalf("fields missing: %+v", env.Error.Fields)
	}

	rec = do(t, r, tok, nethttp.MethodPatch, "/api/hero-variants/modern", map[string]any{"variant_key": "renamed"})
	if rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("rename: %d", rec.Code)
	}

	rec = do(t, r, tok, nethttp.MethodDelete, "/api/hero-variants/default", nil)
	if rec.Code != nethttp.StatusConflict || decodeEnvelope(t, rec).Error.Code != "protected_active_record" {
		t.Fatalf("delete active: %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(t, r, tok, nethttp.MethodPost, "/api/hero-variants/modern/activate", nil); rec.Code != nethttp.StatusOK {
		t.Fatalf("activate: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, r, "", nethttp.MethodGet, "/api/public/hero?viewport=mobile", nil)
	if rec.Code != nethttp.StatusOK || !strings.Contains(rec.Body.String(), `"template":"modern"`) {
		t.Fatalf("public hero: %d %s", rec.Code, rec.Body.String())
	}

	if rec = do(t, r, tok, nethttp.MethodDelete, "/api/hero-variants/default", nil); rec.Code != nethttp.StatusOK {
		t.Fatalf("delete inactive: %d %s", rec.Code, rec.Body.String())
	}
	if rec = do(t, r, tok, nethttp.MethodGet, "/api/hero-variants/default", nil); rec.Code != nethttp.StatusNotFound {
		t.Fatalf("get deleted: %d", rec.Code)
	}
	if rec = do(t, r, tok, nethttp.MethodGet, "/api/hero-variants/modern/preview?viewport=tv", nil); rec.Code != nethttp.StatusBadRequest {
		t.Fatalf("bad viewport: %d", rec.Code)
	}
}

func TestPublicHeroWithoutActive(t *testing.T) {
	r, _ := newTestRouter(t)
	rec := do(t, r, "", nethttp.MethodGet, "/api/public/hero", nil)
	if rec.Code != nethttp.StatusNotFound {
		t.Fatalf("status: %d", rec.Code)
	}
}

func TestHeroImageUpload(t *testing.T) {
	r, tok := newTestRouter(t)
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("file", "hero.png")
	_, _ = fw.Write(png)
	_ = mw.Close()

	req := httptest.NewRequest(nethttp.MethodPost, "/api/uploads/hero-image", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != nethttp.StatusOK {
		t.Fatalf("upload: %d %s", rec.Code, rec.Body.String())
	}
	var res upload.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil || !strings.HasPrefix(res.URL, "https://cdn.test/hero/") {
		t.Fatalf("unexpected result %+v (%v)", res, err)
	}

	rec = do(t, r, tok, nethttp.MethodPost, "/api/uploads/hero-image", nil)
	if rec.Code != nethttp.StatusBadRequest || decodeEnvelope(t, rec).Error.Code != "upload_rejected" {
		t.Fatalf("missing file: %d %s", rec.Code, rec.Body.String())
	}
}

// The editor drives the real router through the REST client.
func TestEditorOverREST(t *testing.T) {
	r, tok := newTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	client, err := heroapi.New(nil, heroapi.Config{BaseURL: srv.URL, Token: tok})
	if err != nil {
		t.Fatalf("heroapi.New: %v", err)
	}
	ctx := context.Background()
	ed := editor.New(client, editor.Options{Uploader: client})
	if err := ed.Refresh(ctx); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	for _, key := range []string{"a", "b"} {
		if err := ed.OpenCreate(); err != nil {
			t.Fatalf("OpenCreate: %v", err)
		}
		_ = ed.Change(validation.FieldVariantKey, key)
		_ = ed.Change(validation.FieldTitle, "Title "+key)
		_ = ed.SetActive(true)
		if _, err := ed.Submit(ctx); err != nil {
			t.Fatalf("Submit %s: %v", key, err)
		}
	}
	rows := ed.Rows()
	if len(rows) != 2 || rows[0].Key != "b" || !rows[0].IsActive || rows[1].IsActive {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	err = ed.Delete(ctx, "b", func(hero.Variant) bool { return true })
	if n := editor.NoticeFor(editor.OpDelete, err); n.Title != "Cannot delete the active variant" {
		t.Fatalf("unexpected notice: %+v", n)
	}
	if err := ed.Activate(ctx, "a"); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if err := ed.Delete(ctx, "b", func(hero.Variant) bool { return true }); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rows := ed.Rows(); len(rows) != 1 || rows[0].Key != "a" {
		t.Fatalf("unexpected rows after delete: %+v", rows)
	}
}
