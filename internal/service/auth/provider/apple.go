package provider

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

const (
	appleKeysURL = "https://appleid.apple.com/auth/keys"
	appleIssuer  = "https://appleid.apple.com"
)

// appleProvider verifies the identity token produced by Sign in with Apple
// against Apple's published signing keys. Apple only shares the user's name
// on first authorization, so the profile may carry an email alone.
type appleProvider struct {
	client   *http.Client
	clientID string
}

func NewApple(clientID string) Provider {
	return &appleProvider{
		client:   &http.Client{Timeout: 10 * time.Second},
		clientID: clientID,
	}
}

func (p *appleProvider) Name() model.AuthProvider {
	return model.ProviderApple
}

func (p *appleProvider) Exchange(ctx context.Context, token string) (*Profile, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return p.fetchKey(ctx, kid)
	},
		jwt.WithIssuer(appleIssuer),
		jwt.WithAudience(p.clientID),
		jwt.WithValidMethods([]string{"RS256"}),
	)
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid apple identity token")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, apperrors.NewUnauthorized("apple identity token is missing an email")
	}

	return &Profile{Email: email}, nil
}

func (p *appleProvider) fetchKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, appleKeysURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build keys request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailable("apple", err)
	}
	defer resp.Body.Close()

	var keys struct {
		Keys []struct {
			Kid string `json:"kid"`
			N   string `json:"n"`
			E   string `json:"e"`
		} `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&keys); err != nil {
		return nil, fmt.Errorf("failed to decode apple keys: %w", err)
	}

	for _, key := range keys.Keys {
		if key.Kid != kid {
			continue
		}

		n, err := base64.RawURLEncoding.DecodeString(key.N)
		if err != nil {
			return nil, fmt.Errorf("failed to decode key modulus: %w", err)
		}
		e, err := base64.RawURLEncoding.DecodeString(key.E)
		if err != nil {
			return nil, fmt.Errorf("failed to decode key exponent: %w", err)
		}

		return &rsa.PublicKey{
			N: new(big.Int).SetBytes(n),
			E: int(new(big.Int).SetBytes(e).Int64()),
		}, nil
	}

	return nil, fmt.Errorf("no apple signing key matches kid %q", kid)
}
