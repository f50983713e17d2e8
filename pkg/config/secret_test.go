package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeSecret(t *testing.T, content string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "api_key")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write secret: %v", err)
	}
	if err := os.Chmod(path, mode); err != nil {
		t.Fatalf("failed to chmod secret: %v", err)
	}
	return path
}

func TestReadSecretFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		mode    os.FileMode
		want    string
		wantErr bool
	}{
		{name: "owner only", content: "sk-or-v1-abc\n", mode: 0o600, want: "sk-or-v1-abc"},
		{name: "read only for all", content: "  sk-or-v1-abc  ", mode: 0o444, want: "sk-or-v1-abc"},
		{name: "group writable", content: "sk-or-v1-abc", mode: 0o660, wantErr: true},
		{name: "empty", content: " \n", mode: 0o600, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadSecretFile(writeSecret(t, tt.content, tt.mode))
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestReadSecretFile_Insecure(t *testing.T) {
	_, err := ReadSecretFile(writeSecret(t, "key", 0o666))
	if !errors.Is(err, ErrInsecureSecretFile) {
		t.Errorf("expected ErrInsecureSecretFile, got %v", err)
	}
}

func TestReadSecretFile_Missing(t *testing.T) {
	if _, err := ReadSecretFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigWithEnvOverrides_APIKeyFile(t *testing.T) {
	for _, name := range APIKeyEnvVars {
		t.Setenv(name, "")
	}
	keyPath := writeSecret(t, "sk-or-v1-fromfile\n", 0o400)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "aihub.yaml")
	content := "gateway:\n  api_key_file: " + keyPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfigWithEnvOverrides(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gateway.APIKey != "sk-or-v1-fromfile" {
		t.Errorf("expected key from file, got %q", cfg.Gateway.APIKey)
	}

	t.Setenv("AIHUB_API_KEY", "sk-or-v1-fromenv")
	cfg, err = LoadConfigWithEnvOverrides(cfgPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Gateway.APIKey != "sk-or-v1-fromenv" {
		t.Errorf("expected environment to win, got %q", cfg.Gateway.APIKey)
	}
}
