package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spec-kit/helpdesk-dashboard/internal/domain"
)

// FirebaseProvider signs users in through the Identity Toolkit REST API
// used by Firebase Authentication.
type FirebaseProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewFirebaseProvider builds a provider against baseURL, normally
// https://identitytoolkit.googleapis.com.
func NewFirebaseProvider(httpClient *http.Client, baseURL, apiKey string) *FirebaseProvider {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FirebaseProvider{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID     string `json:"localId"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

type identityError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn implements IdentityProvider.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (domain.Identity, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	endpoint := p.baseURL + "/v1/accounts:signInWithPassword?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Identity{}, classifyIdentityError(resp)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: decoding response: %w", ErrProviderUnavailable, err)
	}
	if out.LocalID == "" {
		return domain.Identity{}, fmt.Errorf("%w: response without localId", ErrProviderUnavailable)
	}
	if out.Email == "" {
		out.Email = email
	}
	return domain.Identity{UserID: out.LocalID, Email: out.Email, DisplayName: out.DisplayName}, nil
}

// classifyIdentityError maps Identity Toolkit error messages such as
// "EMAIL_NOT_FOUND" or "TOO_MANY_ATTEMPTS_TRY_LATER : ..." onto sentinels.
func classifyIdentityError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var parsed identityError
	if json.Unmarshal(raw, &parsed) != nil || parsed.Error.Message == "" {
		return fmt.Errorf("%w: HTTP %d", ErrProviderUnavailable, resp.StatusCode)
	}

	code, _, _ := strings.Cut(parsed.Error.Message, " ")
	switch code {
	case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
		return ErrInvalidCredentials
	case "INVALID_EMAIL":
		return ErrInvalidEmail
	case "USER_DISABLED":
		return ErrUserDisabled
	}
	return fmt.Errorf("%w: HTTP %d: %s", ErrProviderUnavailable, resp.StatusCode, parsed.Error.Message)
}
