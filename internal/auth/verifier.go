package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Identity is the verified principal behind a Google ID token.
type Identity struct {
	UID   string
	Email string
	Name  string
}

// IdentityVerifier checks an externally issued ID token and returns who it
// belongs to.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*Identity, error)
}

// GoogleVerifier validates ID tokens against Google's tokeninfo endpoint.
type GoogleVerifier struct {
	endpoint   string
	httpClient *http.Client
}

func NewGoogleVerifier(endpoint string) *GoogleVerifier {
	return &GoogleVerifier{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, idToken string) (*Identity, error) {
	reqURL := v.endpoint + "?id_token=" + url.QueryEscape(idToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tokeninfo request: %w", err)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tokeninfo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tokeninfo rejected token: status %d", resp.StatusCode)
	}

	var payload struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode tokeninfo response: %w", err)
	}
	if payload.Sub == "" {
		return nil, fmt.Errorf("tokeninfo response missing sub")
	}

	return &Identity{UID: payload.Sub, Email: payload.Email, Name: payload.Name}, nil
}
