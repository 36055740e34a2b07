package check

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/backmassage/lapsemaster/internal/config"
	"github.com/backmassage/lapsemaster/internal/upload"
)

// fakeDevice returns a path that exists, standing in for the render device.
func fakeDevice(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "renderD128")
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestCheckDeps_MissingDevice(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	cfg := config.DefaultConfig()
	cfg.VaapiDevice = filepath.Join(t.TempDir(), "renderD999")

	if err := CheckDeps(&cfg); !errors.Is(err, ErrNoVAAPIDevice) {
		t.Errorf("CheckDeps = %v, want ErrNoVAAPIDevice", err)
	}
}

func TestCheckDeps_UploadRequiresEnv(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	cfg := config.DefaultConfig()
	cfg.VaapiDevice = fakeDevice(t)
	cfg.Upload = true

	os.Unsetenv(upload.SecretsEnv)
	os.Unsetenv(upload.CredentialsEnv)
	if err := CheckDeps(&cfg); !errors.Is(err, ErrSecretsNotSet) {
		t.Errorf("CheckDeps = %v, want ErrSecretsNotSet", err)
	}

	t.Setenv(upload.SecretsEnv, "eyJ9")
	if err := CheckDeps(&cfg); !errors.Is(err, ErrCredentialsNotSet) {
		t.Errorf("CheckDeps = %v, want ErrCredentialsNotSet", err)
	}

	t.Setenv(upload.CredentialsEnv, "eyJ9")
	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps with env set = %v, want nil", err)
	}
}

func TestCheckDeps_NoUploadIgnoresEnv(t *testing.T) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not available")
	}
	cfg := config.DefaultConfig()
	cfg.VaapiDevice = fakeDevice(t)
	cfg.Upload = false

	os.Unsetenv(upload.SecretsEnv)
	os.Unsetenv(upload.CredentialsEnv)
	if err := CheckDeps(&cfg); err != nil {
		t.Errorf("CheckDeps without upload = %v, want nil", err)
	}
}
