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

const facebookMeURL = "https://graph.facebook.com/me"

type facebookProvider struct {
	client *http.Client
}

func NewFacebook() Provider {
	return &facebookProvider{
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *facebookProvider) Name() model.AuthProvider {
	return model.ProviderFacebook
}

func (p *facebookProvider) Exchange(ctx context.Context, token string) (*Profile, error) {
	q := url.Values{}
	q.Set("fields", "email,first_name,last_name,picture")
	q.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookMeURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build graph request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUnavailable("facebook", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUnauthorized("invalid facebook token")
	}

	var info struct {
		Email     string `json:"email"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Picture   struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode facebook profile: %w", err)
	}

	return &Profile{
		Email:     info.Email,
		FirstName: info.FirstName,
		LastName:  info.LastName,
		AvatarURL: info.Picture.Data.URL,
	}, nil
}
