// Package identity keeps track of the current user's GitHub username.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/josephgoksu/DBAtlas/models"
	"github.com/josephgoksu/DBAtlas/store"
)

// UsernameSetting is the settings key holding the username.
const UsernameSetting = "github_username"

// ErrInvalidUsername is returned when a username is not a valid GitHub handle.
var ErrInvalidUsername = errors.New("invalid GitHub username")

// Provider reads and writes the current username in a store.
type Provider struct {
	store store.Store
}

// NewProvider returns a Provider backed by s.
func NewProvider(s store.Store) *Provider {
	return &Provider{store: s}
}

// Username returns the stored username, or "" when none is set.
func (p *Provider) Username(ctx context.Context) (string, error) {
	v, err := p.store.Read(ctx, store.SettingKey(UsernameSetting))
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read username: %w", err)
	}
	return strings.TrimSpace(v), nil
}

// SetUsername stores name after trimming a leading "@" and whitespace.
func (p *Provider) SetUsername(ctx context.Context, name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "@")
	if !models.ValidUsername(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidUsername, name)
	}
	if err := p.store.Write(ctx, store.SettingKey(UsernameSetting), name); err != nil {
		return "", fmt.Errorf("write username: %w", err)
	}
	return name, nil
}

// Clear removes the stored username.
func (p *Provider) Clear(ctx context.Context) error {
	return p.store.Delete(ctx, store.SettingKey(UsernameSetting))
}
