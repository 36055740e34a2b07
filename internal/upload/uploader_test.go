package upload

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func TestNew_MaterializesCredentialFiles(t *testing.T) {
	t.Setenv(SecretsEnv, b64(`{"installed":{}}`))
	t.Setenv(CredentialsEnv, b64(`{"access_token":"x"}`))
	root := t.TempDir()

	u, err := New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if u.SecretsPath() != filepath.Join(root, "secrets.json") {
		t.Errorf("SecretsPath = %q", u.SecretsPath())
	}
	got, err := os.ReadFile(u.SecretsPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"installed":{}}` {
		t.Errorf("secrets.json content = %q", got)
	}

	got, err = os.ReadFile(u.CredentialsPath())
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != `{"access_token":"x"}` {
		t.Errorf("credentials.json content = %q", got)
	}

	fi, err := os.Stat(u.SecretsPath())
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm() != 0o600 {
		t.Errorf("secrets.json mode = %v, want 0600", fi.Mode().Perm())
	}
}

func TestNew_MissingEnvWritesNothing(t *testing.T) {
	tests := []struct {
		name        string
		secrets     string // empty means unset
		credentials string
	}{
		{"both missing", "", ""},
		{"credentials missing", b64("{}"), ""},
		{"secrets missing", "", b64("{}")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(SecretsEnv)
			os.Unsetenv(CredentialsEnv)
			if tt.secrets != "" {
				t.Setenv(SecretsEnv, tt.secrets)
			}
			if tt.credentials != "" {
				t.Setenv(CredentialsEnv, tt.credentials)
			}
			root := t.TempDir()

			if _, err := New(root); err == nil {
				t.Fatal("New succeeded without both env vars")
			}

			entries, err := os.ReadDir(root)
			if err != nil {
				t.Fatal(err)
			}
			for _, e := range entries {
				t.Errorf("credential file written despite failure: %s", e.Name())
			}
		})
	}
}

func TestNew_InvalidBase64(t *testing.T) {
	t.Setenv(SecretsEnv, "not base64 !!!")
	t.Setenv(CredentialsEnv, b64("{}"))
	root := t.TempDir()

	if _, err := New(root); err == nil {
		t.Fatal("New accepted invalid base64")
	}
	entries, _ := os.ReadDir(root)
	if len(entries) != 0 {
		t.Errorf("credential files written despite decode failure: %v", entries)
	}
}
