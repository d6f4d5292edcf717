package identity

import (
	"context"
)

// UserProfile is the attribute set returned by the provider's
// describe-current-user endpoint.
type UserProfile struct {
	UserName string
	Email    string
}

// HostedURLs are the provider-hosted pages the client redirects to for
// flows this service does not implement itself.
type HostedURLs struct {
	Login          string `json:"login"`
	ForgotPassword string `json:"forgot_password"`
	SignUp         string `json:"signup"`
}

// Provider defines the contract for the external identity provider.
type Provider interface {
	// ExchangeCode trades an authorization code (from the hosted login
	// redirect) for an access token.
	ExchangeCode(ctx context.Context, code string) (string, error)

	// Authenticate performs a direct username/password credential exchange
	// for non-redirect flows.
	Authenticate(ctx context.Context, username, password string) (string, error)

	// DescribeUser resolves the access token into user attributes.
	DescribeUser(ctx context.Context, accessToken string) (*UserProfile, error)

	// ListGroups returns the group memberships for a user, provider order.
	ListGroups(ctx context.Context, username string) ([]string, error)

	// HostedURLs returns the login/forgot-password/signup redirect targets.
	HostedURLs() HostedURLs
}
