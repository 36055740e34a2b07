// Package upload ships finished timelapse artifacts to YouTube.
//
// Credentials arrive as base64-encoded environment blobs (SECRETS_JSON holds
// the OAuth2 client secrets file, CREDENTIALS_JSON a previously authorized
// token) and are materialized to files once, at construction. The pipeline
// creates one Uploader lazily on first use and reuses it for the process
// lifetime.
package upload

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Environment variables carrying the base64-encoded credential files.
const (
	SecretsEnv     = "SECRETS_JSON"
	CredentialsEnv = "CREDENTIALS_JSON"
)

// Uploader holds the materialized credential file paths.
type Uploader struct {
	secretsPath     string
	credentialsPath string
}

// New decodes both credential blobs from the environment and writes them
// under configRoot as secrets.json and credentials.json. It fails before
// writing anything if either variable is absent or not valid base64.
func New(configRoot string) (*Uploader, error) {
	secrets, err := decodeEnv(SecretsEnv)
	if err != nil {
		return nil, err
	}
	credentials, err := decodeEnv(CredentialsEnv)
	if err != nil {
		return nil, err
	}

	u := &Uploader{
		secretsPath:     filepath.Join(configRoot, "secrets.json"),
		credentialsPath: filepath.Join(configRoot, "credentials.json"),
	}
	if err := os.WriteFile(u.secretsPath, secrets, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", u.secretsPath, err)
	}
	if err := os.WriteFile(u.credentialsPath, credentials, 0o600); err != nil {
		return nil, fmt.Errorf("write %s: %w", u.credentialsPath, err)
	}
	return u, nil
}

// SecretsPath returns the materialized client-secrets file path.
func (u *Uploader) SecretsPath() string { return u.secretsPath }

// CredentialsPath returns the materialized token file path.
func (u *Uploader) CredentialsPath() string { return u.credentialsPath }

// Upload sends the video at path to YouTube as a single private entry
// titled with the file's base name. Errors are returned to the caller; the
// pipeline logs them without aborting remaining work.
func (u *Uploader) Upload(ctx context.Context, path string) error {
	svc, err := u.service(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title: filepath.Base(path),
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus: "private",
		},
	}
	_, err = svc.Videos.Insert([]string{"snippet", "status"}, video).Media(f).Do()
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	return nil
}

// service builds a YouTube client from the materialized credential files.
func (u *Uploader) service(ctx context.Context) (*youtube.Service, error) {
	secrets, err := os.ReadFile(u.secretsPath)
	if err != nil {
		return nil, err
	}
	oauthCfg, err := google.ConfigFromJSON(secrets, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.secretsPath, err)
	}

	raw, err := os.ReadFile(u.credentialsPath)
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("parse %s: %w", u.credentialsPath, err)
	}

	return youtube.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, &token)))
}

// decodeEnv reads and base64-decodes one credential environment variable.
func decodeEnv(key string) ([]byte, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, fmt.Errorf("%s is not set", key)
	}
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return data, nil
}
