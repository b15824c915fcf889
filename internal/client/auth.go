package client

import (
	"context"
	"errors"
	"net/http"

	"smartcity-ops/internal/session"
)

// AuthClient drives the backend's token endpoints and keeps the
// session store in step with them.
type AuthClient struct {
	api  *API
	sess *session.Store
}

// NewAuthClient builds an auth client sharing the API's transport.
func NewAuthClient(api *API, sess *session.Store) *AuthClient {
	return &AuthClient{api: api, sess: sess}
}

// Credentials is a login form. The UI field is a username; the backend
// endpoint names it "login".
type Credentials struct {
	Username string
	Password string
}

// LoginResult is what a successful login yields.
type LoginResult struct {
	Token          string
	OrganizationID string
}

// Login exchanges credentials for a bearer token and records the token
// and owning organization in the session.
func (a *AuthClient) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	if creds.Username == "" || creds.Password == "" {
		return LoginResult{}, errors.New("client: empty credentials")
	}
	var resp map[string]any
	body := map[string]any{"login": creds.Username, "password": creds.Password}
	if err := a.api.tr.Do(ctx, http.MethodPost, "/auth/login/", body, &resp); err != nil {
		return LoginResult{}, err
	}
	token, _ := resp["token"].(string)
	if token == "" {
		return LoginResult{}, errors.New("client: login response carries no token")
	}
	result := LoginResult{Token: token, OrganizationID: organizationID(resp)}
	a.sess.SetToken(token)
	if result.OrganizationID != "" {
		a.sess.SetOrganizationID(result.OrganizationID)
	}
	return result, nil
}

// Validate checks the held token against the backend. The backend has
// two affirmative shapes in the wild: a boolean "valid" flag and a
// literal "Valid token" detail string. A fresh organization id in the
// response refreshes the stored one. A 401 clears the token at the
// transport layer, so a stale session heals itself here.
func (a *AuthClient) Validate(ctx context.Context) (bool, error) {
	if a.sess.Token() == "" {
		return false, nil
	}
	var resp map[string]any
	if err := a.api.tr.Do(ctx, http.MethodGet, "/auth/validate/", nil, &resp); err != nil {
		return false, err
	}
	valid, _ := resp["valid"].(bool)
	detail, _ := resp["detail"].(string)
	if !valid && detail != "Valid token" {
		return false, nil
	}
	if org := organizationID(resp); org != "" {
		a.sess.SetOrganizationID(org)
	}
	return true, nil
}

// Logout forgets the session locally. The backend keeps no server-side
// session state worth revoking for token auth.
func (a *AuthClient) Logout() {
	a.sess.Clear()
}

func organizationID(resp map[string]any) string {
	if id, ok := resp["organization_id"].(string); ok && id != "" {
		return id
	}
	if user, ok := resp["user"].(map[string]any); ok {
		if id, ok := user["organization_id"].(string); ok {
			return id
		}
	}
	return ""
}
