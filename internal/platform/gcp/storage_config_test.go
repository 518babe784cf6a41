package gcp

import (
	"errors"
	"testing"
)

func setStorageEnv(t *testing.T, mode, emulator, base string) {
	t.Helper()
	t.Setenv("OBJECT_STORAGE_MODE", mode)
	t.Setenv("STORAGE_EMULATOR_HOST", emulator)
	t.Setenv("OBJECT_STORAGE_PUBLIC_BASE_URL", base)
	t.Setenv("HERO_GCS_BUCKET_NAME", "hero-bucket")
	t.Setenv("HERO_CDN_DOMAIN", "")
}

func TestStorageConfigFromEnvModes(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		emulator string
		want     StorageMode
	}{
		{"default gcs", "", "", StorageModeGCS},
		{"explicit gcs ignores emulator", "gcs", "http://fake-gcs:4443", StorageModeGCS},
		{"explicit emulator", "GCS_EMULATOR", "http://fake-gcs:4443", StorageModeEmulator},
		{"emulator host implies emulator", "", "http://fake-gcs:4443/", StorageModeEmulator},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setStorageEnv(t, tc.mode, tc.emulator, "")
			cfg, err := StorageConfigFromEnv()
			if err != nil {
				t.Fatalf("StorageConfigFromEnv: %v", err)
			}
			if cfg.Mode != tc.want {
				t.Fatalf("mode: want=%q got=%q", tc.want, cfg.Mode)
			}
		})
	}
}

func TestStorageConfigFromEnvErrors(t *testing.T) {
	cases := []struct {
		name, mode, emulator, base, wantVar string
	}{
		{"bad mode", "s3", "", "", "OBJECT_STORAGE_MODE"},
		{"emulator without host", "gcs_emulator", "", "", "STORAGE_EMULATOR_HOST"},
		{"relative emulator host", "gcs_emulator", "fake-gcs:4443", "", "STORAGE_EMULATOR_HOST"},
		{"relative public base", "gcs", "", "localhost:4443", "OBJECT_STORAGE_PUBLIC_BASE_URL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setStorageEnv(t, tc.mode, tc.emulator, tc.base)
			_, err := StorageConfigFromEnv()
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Var != tc.wantVar {
				t.Fatalf("want ConfigError for %s, got %v", tc.wantVar, err)
			}
		})
	}
}

func TestStorageConfigRequiresBucket(t *testing.T) {
	setStorageEnv(t, "", "", "")
	t.Setenv("HERO_GCS_BUCKET_NAME", "")
	if _, err := StorageConfigFromEnv(); err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  StorageConfig
		key  string
		want string
	}{
		{
			name: "gcs default",
			cfg:  StorageConfig{Mode: StorageModeGCS, Bucket: "hero-bucket"},
			key:  "/hero/a.png",
			want: "https://storage.googleapis.com/hero-bucket/hero/a.png",
		},
		{
			name: "cdn wins",
			cfg:  StorageConfig{Mode: StorageModeEmulator, Bucket: "hero-bucket", CDNDomain: "cdn.example.com", EmulatorHost: "http://fake-gcs:4443"},
			key:  "hero/a.png",
			want: "https://cdn.example.com/hero/a.png",
		},
		{
			name: "emulator media url",
			cfg:  StorageConfig{Mode: StorageModeEmulator, Bucket: "hero-bucket", EmulatorHost: "http://fake-gcs:4443"},
			key:  "hero/a.png",
			want: "http://fake-gcs:4443/storage/v1/b/hero-bucket/o/hero%2Fa.png?alt=media",
		},
		{
			name: "emulator prefers public base",
			cfg:  StorageConfig{Mode: StorageModeEmulator, Bucket: "hero-bucket", EmulatorHost: "http://fake-gcs:4443", PublicBaseURL: "http://localhost:4443"},
			key:  "hero/a.png",
			want: "http://localhost:4443/storage/v1/b/hero-bucket/o/hero%2Fa.png?alt=media",
		},
		{
			name: "gcs with public base",
			cfg:  StorageConfig{Mode: StorageModeGCS, Bucket: "hero-bucket", PublicBaseURL: "https://assets.example.com"},
			key:  "hero/a.png",
			want: "https://assets.example.com/hero-bucket/hero/a.png",
		},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg, tc.key); got != tc.want {
			t.Fatalf("%s: want=%q got=%q", tc.name, tc.want, got)
		}
	}
}
