package provider

import (
	"context"
	"fmt"

	"github.com/prettystyles/booking-api/internal/model"
)

// Profile is what a social sign-in yields: just enough identity to create or
// match a local account. The OAuth handshake itself happens on the client
// against the provider's SDK; this package only exchanges the resulting token
// for a profile.
type Profile struct {
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// Provider exchanges a client-obtained provider token for a user profile.
type Provider interface {
	Name() model.AuthProvider
	Exchange(ctx context.Context, token string) (*Profile, error)
}

// Registry holds the configured sign-in providers keyed by name.
type Registry struct {
	providers map[model.AuthProvider]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	m := make(map[model.AuthProvider]Provider, len(providers))
	for _, p := range providers {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

func (r *Registry) Get(name model.AuthProvider) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("unsupported sign-in provider: %s", name)
	}
	return p, nil
}
