package api

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentials holds the OAuth2 client-credentials grant settings used
// to obtain platform access tokens.
type ClientCredentials struct {
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
}

// ClientCredentialsTokenSource returns a caching token source for the given
// grant. The HTTP client from cfg is used for token requests so TLS settings
// apply to the token endpoint as well.
func ClientCredentialsTokenSource(ctx context.Context, cfg *Config, cc *ClientCredentials) (oauth2.TokenSource, error) {
	if cc == nil {
		return nil, errors.New("client credentials cannot be nil")
	}
	if cc.ClientID == "" || cc.ClientSecret == "" || cc.TokenURL == "" {
		return nil, errors.New("client_id, client_secret and token_url are required")
	}

	if cfg != nil && cfg.HttpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, cfg.HttpClient)
	}

	grant := &clientcredentials.Config{
		ClientID:     cc.ClientID,
		ClientSecret: cc.ClientSecret,
		TokenURL:     cc.TokenURL,
		Scopes:       cc.Scopes,
	}
	return grant.TokenSource(ctx), nil
}
