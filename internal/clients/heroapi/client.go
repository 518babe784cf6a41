package heroapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/yungbote/storefront-admin/internal/domain/hero"
	"github.com/yungbote/storefront-admin/internal/modules/hero/editor"
	"github.com/yungbote/storefront-admin/internal/modules/hero/preview"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

// RemoteError is a non-2xx response decoded from the API error envelope.
type RemoteError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hero api %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("hero api %d: %s", e.Status, e.Message)
}

// UserMessage is the server's message, shown to the operator as is.
func (e *RemoteError) UserMessage() string { return e.Message }

// Unwrap exposes the domain sentinel for codes the editor reacts to.
func (e *RemoteError) Unwrap() error {
	switch e.Code {
	case "not_found":
		return hero.ErrNotFound
	case "duplicate_key":
		return hero.ErrDuplicateKey
	case "protected_active_record":
		return hero.ErrProtectedActiveRecord
	}
	return nil
}

type Config struct {
	BaseURL string
	Token   string
	// Timeout is off by default; requests end with their context.
	Timeout time.Duration
	// CatalogURL serves product and category search. Defaults to BaseURL.
	CatalogURL string
}

// Client talks to the hero admin API. It satisfies editor.Repository,
// editor.ImageUploader and both lookups.
type Client struct {
	log        *logger.Logger
	baseURL    string
	catalogURL string
	token      string
	httpClient *http.Client
}

var (
	_ editor.Repository     = (*Client)(nil)
	_ editor.ImageUploader  = (*Client)(nil)
	_ editor.ProductLookup  = (*Client)(nil)
	_ editor.CategoryLookup = (*Client)(nil)
)

func New(log *logger.Logger, cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("missing hero api base url")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid hero api base url %q: %w", base, err)
	}
	catalog := strings.TrimRight(strings.TrimSpace(cfg.CatalogURL), "/")
	if catalog == "" {
		catalog = base
	}
	if cfg.Timeout < 0 {
		cfg.Timeout = 0
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		log:        log.With("client", "HeroAPI"),
		baseURL:    base,
		catalogURL: catalog,
		token:      strings.TrimSpace(cfg.Token),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (c *Client) ListVariants(ctx context.Context) ([]hero.Variant, error) {
	var out struct {
		Variants []hero.Variant `json:"variants"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/api/hero-variants", nil, &out); err != nil {
		return nil, err
	}
	return out.Variants, nil
}

func (c *Client) GetVariant(ctx context.Context, key string) (*hero.Variant, error) {
	var out struct {
		Variant hero.Variant `json:"variant"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.variantURL(key, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out.Variant, nil
}

func (c *Client) CreateVariant(ctx context.Context, v hero.Variant) (*hero.Variant, error) {
	var out struct {
		Variant hero.Variant `json:"variant"`
	}
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/api/hero-variants", v, &out); err != nil {
		return nil, err
	}
	return &out.Variant, nil
}

func (c *Client) UpdateVariant(ctx context.Context, key string, patch hero.Patch) (*hero.Variant, error) {
	var out struct {
		Variant hero.Variant `json:"variant"`
	}
	if err := c.doJSON(ctx, http.MethodPatch, c.variantURL(key, ""), patch, &out); err != nil {
		return nil, err
	}
	return &out.Variant, nil
}

func (c *Client) DeleteVariant(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodDelete, c.variantURL(key, ""), nil, nil)
}

func (c *Client) SetActiveVariant(ctx context.Context, key string) error {
	return c.doJSON(ctx, http.MethodPost, c.variantURL(key, "activate"), nil, nil)
}

// Preview fetches the server rendering of the stored variant.
func (c *Client) Preview(ctx context.Context, key string, mode preview.Viewport) (preview.Rendering, error) {
	var out struct {
		Preview preview.Rendering `json:"preview"`
	}
	u := c.variantURL(key, "preview") + "?viewport=" + url.QueryEscape(string(mode))
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return preview.Rendering{}, err
	}
	return out.Preview, nil
}

func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", path.Base(filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/uploads/hero-image", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]editor.LookupResult, error) {
	return c.search(ctx, "/api/products/search", query)
}

func (c *Client) SearchCategories(ctx context.Context, query string) ([]editor.LookupResult, error) {
	return c.search(ctx, "/api/categories/search", query)
}

func (c *Client) search(ctx context.Context, p, query string) ([]editor.LookupResult, error) {
	var out struct {
		Results []editor.LookupResult `json:"results"`
	}
	u := c.catalogURL + p + "?q=" + url.QueryEscape(query)
	if err := c.doJSON(ctx, http.MethodGet, u, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *Client) variantURL(key, action string) string {
	u := c.baseURL + "/api/hero-variants/" + url.PathEscape(key)
	if action != "" {
		u += "/" + action
	}
	return u
}

func (c *Client) doJSON(ctx context.Context, method, u string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return readErr
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := decodeError(resp.StatusCode, raw)
		c.log.Warn("hero api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"status", rerr.Status,
			"code", rerr.Code,
		)
		return rerr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("hero api decode error: %w", err)
	}
	return nil
}

func decodeError(status int, raw []byte) *RemoteError {
	var env struct {
		Error struct {
			Message string            `json:"message"`
			Code    string            `json:"code"`
			Fields  map[string]string `json:"fields"`
		} `json:"error"`
	}
	rerr := &RemoteError{Status: status}
	if json.Unmarshal(raw, &env) == nil {
		rerr.Code = env.Error.Code
		rerr.Message = strings.TrimSpace(env.Error.Message)
		rerr.Fields = env.Error.Fields
	}
	return rerr
}
