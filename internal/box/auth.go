package box

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/tonimelisma/box-go/internal/tokenfile"
)

// Endpoint is Box's OAuth2 endpoint. Box is not in the x/oauth2
// endpoints catalog, so it is defined here.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://account.box.com/api/oauth2/authorize",
	TokenURL: "https://api.box.com/oauth2/token",
}

// ErrMissingCredentials is returned when the configured credentials are
// incomplete for both auth modes. No network call is made in that case.
var ErrMissingCredentials = errors.New("box: missing credentials")

// Credentials selects one of two auth strategies:
//   - static mode: AccessToken alone (a developer token from the Box
//     app console; short-lived, no refresh)
//   - refresh mode: ClientID + ClientSecret + RefreshToken, with access
//     tokens minted and re-minted by the OAuth2 library
//
// When both are present, the static token wins — it is the explicit
// "use exactly this token" escape hatch.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// Validate checks that the credentials are complete for at least one
// auth mode. The error names the missing fields so the fix is obvious.
func (c Credentials) Validate() error {
	if c.AccessToken != "" {
		return nil
	}

	var missing []string

	if c.ClientID == "" {
		missing = append(missing, "client_id")
	}

	if c.ClientSecret == "" {
		missing = append(missing, "client_secret")
	}

	if c.RefreshToken == "" {
		missing = append(missing, "refresh_token")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: set access_token for static mode, or provide %s",
			ErrMissingCredentials, strings.Join(missing, ", "))
	}

	return nil
}

// TokenSource validates the credentials and builds a token source for
// Client. In refresh mode one eager token fetch is performed so bad
// credentials fail here, at construction, rather than on the first API
// call. Refreshed tokens are persisted to tokenPath (empty disables
// persistence).
//
// ctx must outlive the returned source — it is bound to the underlying
// oauth2 refresh machinery. Callers should pass context.Background()
// for long-lived sessions.
func (c Credentials) TokenSource(ctx context.Context, tokenPath string, logger *slog.Logger) (TokenSource, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.AccessToken != "" {
		logger.Debug("using static access token")

		return staticSource(c.AccessToken), nil
	}

	cfg := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Endpoint:     Endpoint,
	}

	seed := c.seedToken(tokenPath, logger)
	src := cfg.TokenSource(ctx, seed)

	// Eager fetch: surface invalid or revoked refresh tokens now rather
	// than on the first API call. Token-endpoint rejections are tagged
	// ErrUnauthorized so callers can distinguish them from network faults.
	tok, err := src.Token()
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			return nil, fmt.Errorf("box: authenticating with refresh token: %w: %w", ErrUnauthorized, err)
		}

		return nil, fmt.Errorf("box: authenticating with refresh token: %w", err)
	}

	logger.Info("authenticated",
		slog.Time("token_expiry", tok.Expiry),
	)

	ps := &persistingSource{
		src:       src,
		tokenPath: tokenPath,
		logger:    logger,
	}
	ps.persist(tok)

	return ps, nil
}

// seedToken builds the token that primes the oauth2 refresh machinery.
// A previously persisted token is reused when it belongs to the same
// refresh token, avoiding a needless refresh round-trip; otherwise the
// configured refresh token is seeded with an already-expired access
// token so the library refreshes immediately.
func (c Credentials) seedToken(tokenPath string, logger *slog.Logger) *oauth2.Token {
	if tokenPath != "" {
		saved, err := tokenfile.Load(tokenPath)
		if err != nil {
			logger.Warn("ignoring unreadable token file",
				slog.String("path", tokenPath),
				slog.String("error", err.Error()),
			)
		} else if saved != nil && saved.RefreshToken == c.RefreshToken {
			logger.Debug("reusing persisted token",
				slog.String("path", tokenPath),
				slog.Time("expiry", saved.Expiry),
			)

			return saved
		}
	}

	return &oauth2.Token{
		RefreshToken: c.RefreshToken,
		Expiry:       time.Now().Add(-time.Minute),
	}
}

// staticSource returns a fixed bearer token (developer token mode).
type staticSource string

func (s staticSource) Token() (string, error) {
	return string(s), nil
}

// persistingSource adapts oauth2.TokenSource to box.TokenSource and
// writes every newly minted access token to disk, so a later run can
// reuse it instead of spending a refresh. Persistence failures are
// logged and otherwise ignored — a transfer should not abort because
// the token cache is unwritable.
type persistingSource struct {
	src       oauth2.TokenSource
	tokenPath string
	logger    *slog.Logger

	lastAccess string
}

func (p *persistingSource) Token() (string, error) {
	t, err := p.src.Token()
	if err != nil {
		p.logger.Warn("token acquisition failed", slog.String("error", err.Error()))
		return "", fmt.Errorf("box: obtaining token: %w", err)
	}

	if t.AccessToken != p.lastAccess {
		p.logger.Info("token refreshed",
			slog.Time("new_expiry", t.Expiry),
		)
		p.persist(t)
	}

	return t.AccessToken, nil
}

func (p *persistingSource) persist(t *oauth2.Token) {
	p.lastAccess = t.AccessToken

	if p.tokenPath == "" {
		return
	}

	if err := tokenfile.Save(p.tokenPath, t); err != nil {
		p.logger.Warn("failed to persist token",
			slog.String("path", p.tokenPath),
			slog.String("error", err.Error()),
		)

		return
	}

	p.logger.Debug("persisted token to disk",
		slog.String("path", p.tokenPath),
	)
}
