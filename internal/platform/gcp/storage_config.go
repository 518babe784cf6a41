package gcp

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type StorageMode string

const (
	StorageModeGCS      StorageMode = "gcs"
	StorageModeEmulator StorageMode = "gcs_emulator"
)

// StorageConfig describes where hero images live and how their public URLs
// are built.
type StorageConfig struct {
	Mode          StorageMode
	EmulatorHost  string
	PublicBaseURL string
	Bucket        string
	CDNDomain     string
}

type ConfigError struct {
	Var    string
	Value  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s: %s", e.Var, e.Reason)
	}
	return fmt.Sprintf("invalid %s=%q: %s", e.Var, e.Value, e.Reason)
}

// StorageConfigFromEnv reads OBJECT_STORAGE_MODE, STORAGE_EMULATOR_HOST,
// OBJECT_STORAGE_PUBLIC_BASE_URL, HERO_GCS_BUCKET_NAME and HERO_CDN_DOMAIN.
// An empty mode with an emulator host set selects the emulator.
func StorageConfigFromEnv() (StorageConfig, error) {
	cfg := StorageConfig{
		EmulatorHost:  strings.TrimRight(strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST")), "/"),
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("OBJECT_STORAGE_PUBLIC_BASE_URL")), "/"),
		Bucket:        strings.TrimSpace(os.Getenv("HERO_GCS_BUCKET_NAME")),
		CDNDomain:     strings.TrimSpace(os.Getenv("HERO_CDN_DOMAIN")),
	}
	raw := strings.TrimSpace(os.Getenv("OBJECT_STORAGE_MODE"))
	switch mode := StorageMode(strings.ToLower(raw)); mode {
	case "":
		cfg.Mode = StorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = StorageModeEmulator
		}
	case StorageModeGCS, StorageModeEmulator:
		cfg.Mode = mode
	default:
		return cfg, &ConfigError{Var: "OBJECT_STORAGE_MODE", Value: raw, Reason: fmt.Sprintf("allowed: %q, %q", StorageModeGCS, StorageModeEmulator)}
	}
	return cfg, cfg.Validate()
}

func (c StorageConfig) Validate() error {
	if c.Mode != StorageModeGCS && c.Mode != StorageModeEmulator {
		return &ConfigError{Var: "OBJECT_STORAGE_MODE", Value: string(c.Mode), Reason: "unsupported mode"}
	}
	if c.Bucket == "" {
		return &ConfigError{Var: "HERO_GCS_BUCKET_NAME", Reason: "must be set"}
	}
	if c.Mode == StorageModeEmulator {
		if c.EmulatorHost == "" {
			return &ConfigError{Var: "STORAGE_EMULATOR_HOST", Reason: "required in emulator mode"}
		}
		if !absoluteURL(c.EmulatorHost) {
			return &ConfigError{Var: "STORAGE_EMULATOR_HOST", Value: c.EmulatorHost, Reason: "expected absolute URL like http://fake-gcs:4443"}
		}
	}
	if c.PublicBaseURL != "" && !absoluteURL(c.PublicBaseURL) {
		return &ConfigError{Var: "OBJECT_STORAGE_PUBLIC_BASE_URL", Value: c.PublicBaseURL, Reason: "expected absolute URL like http://localhost:4443"}
	}
	return nil
}

func absoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// clientOptions returns storage client options for the configured mode. In
// GCS mode credentials come from GOOGLE_APPLICATION_CREDENTIALS_JSON (inline)
// or GOOGLE_APPLICATION_CREDENTIALS (path); otherwise ADC applies.
func (c StorageConfig) clientOptions() []option.ClientOption {
	if c.Mode == StorageModeEmulator {
		return []option.ClientOption{option.WithoutAuthentication()}
	}
	opts := []option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}
	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	switch {
	case creds == "":
	case strings.HasPrefix(creds, "{"):
		opts = append(opts, option.WithCredentialsJSON([]byte(creds)))
	default:
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	return opts
}
