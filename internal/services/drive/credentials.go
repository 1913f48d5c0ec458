package drive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"

	"github.com/Hamdankim/pelangi-drive-be/internal/common"
	"github.com/Hamdankim/pelangi-drive-be/internal/interfaces"
	"github.com/Hamdankim/pelangi-drive-be/internal/models"
)

// Credentials locates the OAuth client secret and user token files. Values
// supplied through configuration are written to the credentials directory
// the first time they are needed.
type Credentials struct {
	dir              string
	tokenFile        string
	clientSecretFile string
	tokenJSON        string
	clientSecretJSON string
	logger           arbor.ILogger
}

var _ interfaces.CredentialReporter = (*Credentials)(nil)

func NewCredentials(cfg common.DriveConfig, logger arbor.ILogger) *Credentials {
	return &Credentials{
		dir:              cfg.CredentialsDir,
		tokenFile:        cfg.TokenFile,
		clientSecretFile: cfg.ClientSecretFile,
		tokenJSON:        cfg.TokenJSON,
		clientSecretJSON: cfg.ClientSecretJSON,
		logger:           logger,
	}
}

// Materialize writes configured credential documents into the credentials
// directory. Existing files are never overwritten.
func (c *Credentials) Materialize() error {
	return errors.Join(
		c.writeFromValue(c.tokenJSON, filepath.Join(c.dir, c.tokenFile)),
		c.writeFromValue(c.clientSecretJSON, filepath.Join(c.dir, c.clientSecretFile)),
	)
}

func (c *Credentials) writeFromValue(value, target string) error {
	if value == "" {
		return nil
	}
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	data, ok := decodeCredentialValue(value)
	if !ok {
		c.logger.Warn().Str("file", filepath.Base(target)).Msg("Ignoring credential value that is neither JSON nor base64")
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return fmt.Errorf("failed to create credentials dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(target), err)
	}

	c.logger.Debug().Str("file", target).Msg("Credential file written from configuration")
	return nil
}

// decodeCredentialValue accepts raw JSON (starting with "{") or base64.
func decodeCredentialValue(value string) ([]byte, bool) {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		return []byte(trimmed), true
	}
	decoded, err := base64.StdEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, false
	}
	return decoded, true
}

// ResolvePath returns ./name when it exists, otherwise the path inside the
// credentials directory.
func (c *Credentials) ResolvePath(name string) string {
	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, name)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	return filepath.Join(c.dir, name)
}

func (c *Credentials) readJSON(name string, into any) error {
	data, err := os.ReadFile(c.ResolvePath(name))
	if err != nil {
		return err
	}
	return json.Unmarshal(data, into)
}

// storedToken accepts both the Node client token layout (expiry_date in
// milliseconds) and the Go oauth2 layout (expiry as RFC 3339).
type storedToken struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiryDate   int64     `json:"expiry_date"`
	Expiry       time.Time `json:"expiry"`
}

func (t storedToken) oauth2Token() *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
		Expiry:       t.Expiry,
	}
	if t.ExpiryDate > 0 {
		tok.Expiry = time.UnixMilli(t.ExpiryDate)
	}
	// A zero expiry means "never expires" to oauth2; force a refresh instead.
	if tok.Expiry.IsZero() && tok.RefreshToken != "" {
		tok.Expiry = time.Unix(1, 0)
	}
	return tok
}

// TokenSource builds a refreshing token source from the client secret and
// stored token.
func (c *Credentials) TokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if err := c.Materialize(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to materialize credential files")
	}

	secret, err := os.ReadFile(c.ResolvePath(c.clientSecretFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read client secret: %w", err)
	}
	conf, err := google.ConfigFromJSON(secret, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret: %w", err)
	}

	var stored storedToken
	if err := c.readJSON(c.tokenFile, &stored); err != nil {
		return nil, fmt.Errorf("failed to read token: %w", err)
	}
	if stored.AccessToken == "" && stored.RefreshToken == "" {
		return nil, errors.New("token contains neither access_token nor refresh_token")
	}

	return conf.TokenSource(ctx, stored.oauth2Token()), nil
}

// CredentialStatus reports presence and readability of the credential files
// without contacting Google.
func (c *Credentials) CredentialStatus() models.CredentialStatus {
	if err := c.Materialize(); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to materialize credential files")
	}

	var status models.CredentialStatus
	status.Env.TokenSet = c.tokenJSON != ""
	status.Env.ClientSet = c.clientSecretJSON != ""

	if info, err := os.Stat(c.ResolvePath(c.tokenFile)); err == nil {
		status.Files.TokenExists = true
		status.Files.TokenSize = info.Size()
	}
	if info, err := os.Stat(c.ResolvePath(c.clientSecretFile)); err == nil {
		status.Files.ClientExists = true
		status.Files.ClientSize = info.Size()
	}

	var scratch map[string]any
	if err := c.readJSON(c.tokenFile, &scratch); err != nil {
		status.JSON.TokenError = err.Error()
	} else {
		status.JSON.TokenReadable = true
	}
	if err := c.readJSON(c.clientSecretFile, &scratch); err != nil {
		status.JSON.ClientError = err.Error()
	} else {
		status.JSON.ClientReadable = true
	}

	return status
}
