package heroctl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/storefront-admin/internal/clients/heroapi"
)

// Profile is the on-disk heroctl configuration.
//
//	base_url: https://admin.shop.test
//	token: eyJ...
//	catalog_url: https://shop.test
//	timeout_seconds: 30
type Profile struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	CatalogURL     string `yaml:"catalog_url,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// DefaultProfilePath is $HEROCTL_CONFIG or ~/.config/heroctl.yaml.
func DefaultProfilePath() string {
	if p := strings.TrimSpace(os.Getenv("HEROCTL_CONFIG")); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "heroctl.yaml"
	}
	return filepath.Join(dir, "heroctl.yaml")
}

// LoadProfile reads path. A missing file yields an empty profile so flags
// and HEROCTL_* variables alone can drive the CLI.
func LoadProfile(path string) (Profile, error) {
	var p Profile
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return p, fmt.Errorf("read profile: %w", err)
	default:
		if err := yaml.Unmarshal(raw, &p); err != nil {
			return p, fmt.Errorf("parse profile %s: %w", path, err)
		}
	}
	if v := strings.TrimSpace(os.Getenv("HEROCTL_BASE_URL")); v != "" {
		p.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("HEROCTL_TOKEN")); v != "" {
		p.Token = v
	}
	return p, nil
}

func (p Profile) clientConfig() heroapi.Config {
	return heroapi.Config{
		BaseURL:    p.BaseURL,
		Token:      p.Token,
		CatalogURL: p.CatalogURL,
		Timeout:    time.Duration(p.TimeoutSeconds) * time.Second,
	}
}
