package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prettystyles/booking-api/internal/model"
	apperrors "github.com/prettystyles/booking-api/pkg/errors"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

type googleProvider struct {
	client *http.Client
}

func NewGoogle() Provider {
	return &googleProvider{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *googleProvider) Name() model.AuthProvider {
	return model.ProviderGoogle
}

func (p *googleProvider) Exchange(ctx context.Context, token string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		googleUserInfoURL+"?access_token="+url.QueryEscape(token), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build userinfo request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailable("google", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUnauthorized("invalid google token")
	}

	var info struct {
		Email      string `json:"email"`
		GivenName  string `json:"given_name"`
		FamilyName string `json:"family_name"`
		Picture    string `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode google userinfo: %w", err)
	}

	return &Profile{
		Email:     info.Email,
		FirstName: info.GivenName,
		LastName:  info.FamilyName,
		AvatarURL: info.Picture,
	}, nil
}
