package portal

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/tanq16/berdl/internal/forms"
	"github.com/tanq16/berdl/internal/utils"
)

var notRegisteredMarker = []byte("not registered")

// IsNotRegistered reports whether a login response body is the portal's
// "not registered" page. This text match is the only signal the portal gives.
func IsNotRegistered(body []byte) bool {
	return bytes.Contains(body, notRegisteredMarker)
}

// Authenticate posts the login form over session so that the portal's
// session cookies are stored in it. cfg.Login must already carry identity.
func Authenticate(ctx context.Context, session *utils.Session, identity string, cfg *forms.Config) error {
	return DefaultEndpoints.Authenticate(ctx, session, identity, cfg)
}

// Authenticate is the package-level Authenticate against e.LoginURL.
func (e Endpoints) Authenticate(ctx context.Context, session *utils.Session, identity string, cfg *forms.Config) error {
	endpoint := e.LoginURL
	l := logger(ctx)
	l.Debug().Str("op", "portal/auth").Str("identity", identity).Msgf("posting login form to %s", endpoint)
	resp, err := session.PostForm(ctx, endpoint, cfg.Headers, cfg.Login)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	if IsNotRegistered(body) {
		l.Warn().Str("op", "portal/auth").Str("identity", identity).Msg("portal reports identity is not registered")
		return &AuthorizationError{Identity: identity}
	}
	l.Info().Str("op", "portal/auth").Str("identity", identity).Msg("login accepted")
	return nil
}
