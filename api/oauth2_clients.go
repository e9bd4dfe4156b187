package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-viper/mapstructure/v2"
)

// OAuth2Client is an entry of the platform's external OAuth2 client registry.
type OAuth2Client struct {
	Name     string `mapstructure:"name" json:"name"`
	ClientID string `mapstructure:"clientId" json:"clientId"`
	TokenURL string `mapstructure:"tokenUrl" json:"tokenUrl"`
}

// OAuth2Clients is used to query the external OAuth2 client registry.
type OAuth2Clients struct {
	c *Client
}

// OAuth2Clients returns the client for registry API calls.
func (c *Client) OAuth2Clients() *OAuth2Clients {
	return &OAuth2Clients{c: c}
}

// List returns every registered OAuth2 client.
func (o *OAuth2Clients) List() ([]*OAuth2Client, error) {
	return o.ListWithContext(context.Background())
}

// ListWithContext returns every registered OAuth2 client. An empty registry
// yields an empty slice.
func (o *OAuth2Clients) ListWithContext(ctx context.Context) ([]*OAuth2Client, error) {
	ctx, cancelFunc := o.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := o.c.NewRequest(http.MethodGet, "/v1/oauth2-clients")

	resp, err := o.c.rawRequestWithContext(ctx, r)
	if resp != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	resource, err := ParseResource(resp.Body)
	if err != nil {
		return nil, err
	}
	if resource == nil || resource.Data == nil {
		return []*OAuth2Client{}, nil
	}

	var clients []*OAuth2Client
	if err := mapstructure.Decode(resource.Data["clients"], &clients); err != nil {
		return nil, fmt.Errorf("failed to decode oauth2 clients: %w", err)
	}
	if clients == nil {
		clients = []*OAuth2Client{}
	}
	return clients, nil
}
