package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/yungbote/storefront-admin/internal/platform/apierr"
	"github.com/yungbote/storefront-admin/internal/platform/envutil"
	"github.com/yungbote/storefront-admin/internal/platform/gcp"
	"github.com/yungbote/storefront-admin/internal/platform/logger"
)

const (
	DefaultMaxBytes int64 = 5 << 20
	keyPrefix             = "hero/"
)

var (
	ErrEmpty       = errors.New("upload is empty")
	ErrTooLarge    = errors.New("upload exceeds size limit")
	ErrUnsupported = errors.New("unsupported image type")
)

// allowed maps sniffed content types to the stored file extension.
var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type Config struct {
	MaxBytes int64
}

func ConfigFromEnv() Config {
	return Config{MaxBytes: envutil.Int64("HERO_UPLOAD_MAX_BYTES", DefaultMaxBytes)}
}

// Service stores hero background and product images and hands back their
// public URL.
type Service struct {
	log   *logger.Logger
	store gcp.ImageStore
	cfg   Config
}

func NewService(log *logger.Logger, store gcp.ImageStore, cfg Config) *Service {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{log: log.With("service", "HeroUpload"), store: store, cfg: cfg}
}

// Result describes a stored image.
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadImage reads at most MaxBytes from r, checks the sniffed type and
// stores the bytes under a fresh key. The filename only feeds the log.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	res, err := s.Store(ctx, filename, r)
	if err != nil {
		return "", err
	}
	return res.URL, nil
}

func (s *Service) Store(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	if s == nil || s.store == nil {
		return nil, apierr.New(http.StatusServiceUnavailable, "uploads_disabled", errors.New("image storage not configured"))
	}
	body, err := io.ReadAll(io.LimitReader(r, s.cfg.MaxBytes+1))
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "read_upload_failed", err)
	}
	switch {
	case len(body) == 0:
		return nil, apierr.New(http.StatusBadRequest, "upload_rejected", ErrEmpty)
	case int64(len(body)) > s.cfg.MaxBytes:
		return nil, apierr.New(http.StatusRequestEntityTooLarge, "upload_rejected",
			fmt.Errorf("%w: max %d bytes", ErrTooLarge, s.cfg.MaxBytes))
	}

	mt := mimetype.Detect(body)
	contentType := strings.SplitN(mt.String(), ";", 2)[0]
	ext, ok := allowed[contentType]
	if !ok {
		return nil, apierr.New(http.StatusBadRequest, "upload_rejected",
			fmt.Errorf("%w: %s", ErrUnsupported, contentType))
	}

	key := keyPrefix + uuid.New().String() + ext
	if err := s.store.Put(ctx, key, contentType, bytes.NewReader(body)); err != nil {
		s.log.Error("hero image upload failed", "key", key, "filename", path.Base(filename), "error", err)
		return nil, apierr.New(http.StatusBadGateway, "upload_failed", err)
	}
	res := &Result{
		URL:         s.store.PublicURL(key),
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(body)),
	}
	s.log.Info("hero image stored", "key", key, "content_type", contentType, "size", res.Size)
	return res, nil
}
