package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-viper/mapstructure/v2"
)

// LoginMethodInput is the normalized payload accepted by the platform's
// create and update endpoints.
type LoginMethodInput struct {
	Name                string         `json:"name"`
	Description         string         `json:"description"`
	LoginMethodType     string         `json:"loginMethodType"`
	Source              int            `json:"source"`
	Target              int            `json:"target"`
	SourceConfiguration map[string]any `json:"sourceConfiguration"`
	TargetConfiguration map[string]any `json:"targetConfiguration,omitempty"`
}

// LoginMethod is a login method record as stored by the platform.
type LoginMethod struct {
	Name                string         `mapstructure:"name" json:"name"`
	Description         string         `mapstructure:"description" json:"description"`
	LoginMethodType     string         `mapstructure:"loginMethodType" json:"loginMethodType"`
	Source              int            `mapstructure:"source" json:"source"`
	Target              int            `mapstructure:"target" json:"target"`
	SourceConfiguration map[string]any `mapstructure:"sourceConfiguration" json:"sourceConfiguration"`
	TargetConfiguration map[string]any `mapstructure:"targetConfiguration" json:"targetConfiguration"`
}

// LoginMethodOutput is returned by mutating login method calls.
type LoginMethodOutput struct {
	Name    string `mapstructure:"name" json:"name"`
	Message string `mapstructure:"message" json:"message"`
}

// LoginMethods is used to perform login method operations on the platform.
type LoginMethods struct {
	c *Client
}

// LoginMethods returns the client for login method API calls.
func (c *Client) LoginMethods() *LoginMethods {
	return &LoginMethods{c: c}
}

func loginMethodPath(name string) string {
	return "/v1/login-methods/" + url.PathEscape(name)
}

// Read fetches a login method by name.
func (l *LoginMethods) Read(name string) (*LoginMethod, error) {
	return l.ReadWithContext(context.Background(), name)
}

// ReadWithContext fetches a login method by name. A missing record yields a
// *ResponseError for which IsNotFound reports true.
func (l *LoginMethods) ReadWithContext(ctx context.Context, name string) (*LoginMethod, error) {
	ctx, cancelFunc := l.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := l.c.NewRequest(http.MethodGet, loginMethodPath(name))

	resp, err := l.c.rawRequestWithContext(ctx, r)
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
		return nil, errors.New("data from server response is empty")
	}

	var method LoginMethod
	if err := mapstructure.Decode(resource.Data, &method); err != nil {
		return nil, fmt.Errorf("failed to decode login method: %w", err)
	}
	return &method, nil
}

// List returns every login method known to the platform.
func (l *LoginMethods) List() ([]*LoginMethod, error) {
	return l.ListWithContext(context.Background())
}

// ListWithContext returns every login method known to the platform.
func (l *LoginMethods) ListWithContext(ctx context.Context) ([]*LoginMethod, error) {
	ctx, cancelFunc := l.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := l.c.NewRequest(http.MethodGet, "/v1/login-methods")

	resp, err := l.c.rawRequestWithContext(ctx, r)
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
		return []*LoginMethod{}, nil
	}

	var methods []*LoginMethod
	if err := mapstructure.Decode(resource.Data["loginMethods"], &methods); err != nil {
		return nil, fmt.Errorf("failed to decode login methods: %w", err)
	}
	if methods == nil {
		methods = []*LoginMethod{}
	}
	return methods, nil
}

// Create submits a new login method.
func (l *LoginMethods) Create(input *LoginMethodInput) (*LoginMethodOutput, error) {
	return l.CreateWithContext(context.Background(), input)
}

// CreateWithContext submits a new login method. The request is never retried.
func (l *LoginMethods) CreateWithContext(ctx context.Context, input *LoginMethodInput) (*LoginMethodOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ctx, cancelFunc := l.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := l.c.NewRequest(http.MethodPost, "/v1/login-methods")
	if err := r.SetJSONBody(input); err != nil {
		return nil, err
	}

	return l.mutate(ctx, r)
}

// Update replaces the login method stored under name.
func (l *LoginMethods) Update(name string, input *LoginMethodInput) (*LoginMethodOutput, error) {
	return l.UpdateWithContext(context.Background(), name, input)
}

// UpdateWithContext replaces the login method stored under name. The request
// is never retried.
func (l *LoginMethods) UpdateWithContext(ctx context.Context, name string, input *LoginMethodInput) (*LoginMethodOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	ctx, cancelFunc := l.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := l.c.NewRequest(http.MethodPut, loginMethodPath(name))
	if err := r.SetJSONBody(input); err != nil {
		return nil, err
	}

	return l.mutate(ctx, r)
}

// Delete removes a login method.
func (l *LoginMethods) Delete(name string) (*LoginMethodOutput, error) {
	return l.DeleteWithContext(context.Background(), name)
}

// DeleteWithContext removes a login method.
func (l *LoginMethods) DeleteWithContext(ctx context.Context, name string) (*LoginMethodOutput, error) {
	ctx, cancelFunc := l.c.withConfiguredTimeout(ctx)
	defer cancelFunc()

	r := l.c.NewRequest(http.MethodDelete, loginMethodPath(name))
	return l.mutate(ctx, r)
}

func (l *LoginMethods) mutate(ctx context.Context, r *Request) (*LoginMethodOutput, error) {
	resp, err := l.c.rawRequestWithContext(ctx, r)
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

	output := &LoginMethodOutput{}
	if resource == nil || resource.Data == nil {
		return output, nil
	}
	if err := mapstructure.Decode(resource.Data, output); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return output, nil
}
