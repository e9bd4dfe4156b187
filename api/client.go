package api

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/go-secure-stdlib/parseutil"
	"golang.org/x/net/http2"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	EnvAddress       = "LCADMIN_ADDR"
	EnvCACert        = "LCADMIN_CACERT"
	EnvClientTimeout = "LCADMIN_CLIENT_TIMEOUT"
	EnvSkipVerify    = "LCADMIN_SKIP_VERIFY"
	EnvMaxRetries    = "LCADMIN_MAX_RETRIES"
	EnvToken         = "LCADMIN_TOKEN"
	EnvRateLimit     = "LCADMIN_RATE_LIMIT"

	// RequestIDHeader carries a per-request identifier so platform-side logs
	// can be correlated with ours.
	RequestIDHeader = "X-Request-Id"
)

// Config configures a Client. Build it with DefaultConfig and adjust the
// fields; NewClient fills any zero retry waits from the defaults.
type Config struct {
	modifyLock sync.RWMutex

	// Address is the base URL of the platform admin API.
	Address string

	HttpClient *http.Client

	// Retry waits bound the backoff between attempts on 5xx and transport
	// errors.
	MinRetryWait time.Duration
	MaxRetryWait time.Duration

	// MaxRetries applies to GET requests only; POST, PUT and DELETE are sent
	// exactly once.
	MaxRetries int

	// Timeout bounds every call unless ctx already carries an earlier
	// deadline. Zero disables it.
	Timeout time.Duration

	Backoff    retryablehttp.Backoff
	CheckRetry retryablehttp.CheckRetry
	Logger     retryablehttp.LeveledLogger

	// Limiter throttles outgoing requests when set.
	Limiter *rate.Limiter

	// TokenSource takes precedence over the static token.
	TokenSource oauth2.TokenSource

	// Error is set by DefaultConfig when the defaults or the environment
	// could not be applied.
	Error error
}

// TLSConfig holds the TLS settings applied to the default transport.
type TLSConfig struct {
	CACert        string // PEM bundle path
	TLSServerName string // SNI override
	Insecure      bool
}

// DefaultConfig returns a default configuration for the client. It is
// safe to modify the return value of this function.
//
// The default Address is https://127.0.0.1:8443, but this can be overridden by
// setting the `LCADMIN_ADDR` environment variable.
//
// If an error is encountered, the Error field on the returned *Config will be populated with the specific error.
func DefaultConfig() *Config {
	config := &Config{
		Address:      "https://127.0.0.1:8443",
		HttpClient:   cleanhttp.DefaultPooledClient(),
		Timeout:      time.Second * 60,
		MinRetryWait: time.Millisecond * 1000,
		MaxRetryWait: time.Millisecond * 1500,
		MaxRetries:   2,
		Backoff:      retryablehttp.RateLimitLinearJitterBackoff,
	}

	transport := config.HttpClient.Transport.(*http.Transport)
	transport.TLSHandshakeTimeout = 10 * time.Second
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	if err := http2.ConfigureTransport(transport); err != nil {
		config.Error = err
		return config
	}

	if err := config.ReadEnvironment(); err != nil {
		config.Error = err
		return config
	}

	config.HttpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return config
}

func (c *Config) configureTLS(t *TLSConfig) error {
	if c.HttpClient == nil {
		c.HttpClient = DefaultConfig().HttpClient
	}
	transport, ok := c.HttpClient.Transport.(*http.Transport)
	if !ok {
		return errors.New("cannot configure TLS on a non-default transport")
	}
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	clientTLSConfig := transport.TLSClientConfig

	if t.CACert != "" {
		pem, err := os.ReadFile(t.CACert)
		if err != nil {
			return fmt.Errorf("failed to read CA cert %q: %w", t.CACert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return fmt.Errorf("no certificates found in %q", t.CACert)
		}
		clientTLSConfig.RootCAs = pool
	}

	if t.Insecure {
		clientTLSConfig.InsecureSkipVerify = true
	}

	if t.TLSServerName != "" {
		clientTLSConfig.ServerName = t.TLSServerName
	}

	return nil
}

// ConfigureTLS takes a set of TLS configurations and applies those to the
// HTTP client.
func (c *Config) ConfigureTLS(t *TLSConfig) error {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	return c.configureTLS(t)
}

// envOverrides are the settings found in the environment. A zero value
// leaves the corresponding Config field alone.
type envOverrides struct {
	address    string
	caCert     string
	insecure   bool
	timeout    time.Duration
	maxRetries *int
	limiter    *rate.Limiter
}

func readEnv() (*envOverrides, error) {
	env := &envOverrides{
		address: os.Getenv(EnvAddress),
		caCert:  os.Getenv(EnvCACert),
	}

	if v := os.Getenv(EnvMaxRetries); v != "" {
		n, err := parseutil.SafeParseIntRange(v, 0, math.MaxInt)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s: %w", EnvMaxRetries, err)
		}
		retries := int(n)
		env.maxRetries = &retries
	}
	if v := os.Getenv(EnvRateLimit); v != "" {
		r, burst, err := parseRateLimit(v)
		if err != nil {
			return nil, err
		}
		env.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
	if v := os.Getenv(EnvClientTimeout); v != "" {
		d, err := parseutil.ParseDurationSecond(v)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s", EnvClientTimeout)
		}
		env.timeout = d
	}
	if v := os.Getenv(EnvSkipVerify); v != "" {
		insecure, err := parseutil.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s", EnvSkipVerify)
		}
		env.insecure = insecure
	}
	return env, nil
}

// ReadEnvironment applies the LCADMIN_* variables to c. If any of them is
// invalid, c is left unchanged.
func (c *Config) ReadEnvironment() error {
	env, err := readEnv()
	if err != nil {
		return err
	}

	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	if env.caCert != "" || env.insecure {
		if err := c.configureTLS(&TLSConfig{CACert: env.caCert, Insecure: env.insecure}); err != nil {
			return err
		}
	}
	if env.limiter != nil {
		c.Limiter = env.limiter
	}
	if env.address != "" {
		c.Address = env.address
	}
	if env.maxRetries != nil {
		c.MaxRetries = *env.maxRetries
	}
	if env.timeout != 0 {
		c.Timeout = env.timeout
	}
	return nil
}

func parseRateLimit(val string) (rate float64, burst int, err error) {
	_, err = fmt.Sscanf(val, "%f:%d", &rate, &burst)
	if err != nil {
		rate, err = strconv.ParseFloat(val, 64)
		if err != nil {
			err = fmt.Errorf("%v was provided but incorrectly formatted", EnvRateLimit)
		}
		burst = int(rate)
	}

	return rate, burst, err
}

// Client is the client to the platform admin API. Create a client with NewClient.
type Client struct {
	modifyLock sync.RWMutex
	addr       *url.URL
	config     *Config
	token      string
}

// NewClient returns a new client for the given configuration.
//
// If the configuration is nil, DefaultConfig() is used.
//
// If the environment variable `LCADMIN_TOKEN` is present, the token will be
// automatically added to the client. Otherwise, you must manually call
// `SetToken()` or configure a TokenSource.
func NewClient(c *Config) (*Client, error) {
	def := DefaultConfig()
	if def.Error != nil {
		return nil, fmt.Errorf("error encountered setting up default configuration: %w", def.Error)
	}

	if c == nil {
		c = def
	}

	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()

	if c.MinRetryWait == 0 {
		c.MinRetryWait = def.MinRetryWait
	}

	if c.MaxRetryWait == 0 {
		c.MaxRetryWait = def.MaxRetryWait
	}

	if c.HttpClient == nil {
		c.HttpClient = def.HttpClient
	}
	if c.HttpClient.Transport == nil {
		c.HttpClient.Transport = def.HttpClient.Transport
	}

	u, err := url.Parse(c.Address)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid address %q: scheme and host are required", c.Address)
	}

	client := &Client{
		addr:   u,
		config: c,
	}

	if token := os.Getenv(EnvToken); token != "" {
		client.token = token
	}

	return client, nil
}

// Address returns the URL the client is configured to connect to
func (c *Client) Address() string {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()

	return c.addr.String()
}

// updateConfig runs fn with the config write-locked.
func (c *Client) updateConfig(fn func(*Config)) {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()
	c.config.modifyLock.Lock()
	defer c.config.modifyLock.Unlock()

	fn(c.config)
}

// readConfig runs fn with the config read-locked.
func (c *Client) readConfig(fn func(*Config)) {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()
	c.config.modifyLock.RLock()
	defer c.config.modifyLock.RUnlock()

	fn(c.config)
}

func (c *Client) SetMaxRetries(retries int) {
	c.updateConfig(func(cfg *Config) { cfg.MaxRetries = retries })
}

func (c *Client) MaxRetries() (retries int) {
	c.readConfig(func(cfg *Config) { retries = cfg.MaxRetries })
	return retries
}

func (c *Client) SetClientTimeout(timeout time.Duration) {
	c.updateConfig(func(cfg *Config) { cfg.Timeout = timeout })
}

func (c *Client) ClientTimeout() (timeout time.Duration) {
	c.readConfig(func(cfg *Config) { timeout = cfg.Timeout })
	return timeout
}

// SetLogger sets the leveled logger handed to the retryable HTTP client.
func (c *Client) SetLogger(logger retryablehttp.LeveledLogger) {
	c.updateConfig(func(cfg *Config) { cfg.Logger = logger })
}

// Token returns the static token, empty when none is set.
func (c *Client) Token() string {
	c.modifyLock.RLock()
	defer c.modifyLock.RUnlock()
	return c.token
}

// SetToken sets the static bearer token sent with every request.
func (c *Client) SetToken(v string) {
	c.modifyLock.Lock()
	defer c.modifyLock.Unlock()
	c.token = v
}

// NewRequest creates a new raw request object for the configured platform.
func (c *Client) NewRequest(method, requestPath string) *Request {
	c.modifyLock.RLock()
	addr := c.addr
	token := c.token
	c.modifyLock.RUnlock()

	// requestPath arrives escaped; keep that form so names containing "/"
	// stay a single segment. The join must not clean the path, or a name
	// such as ".." would address a different resource.
	rawPath := strings.TrimSuffix(addr.Path, "/") + "/" + strings.TrimPrefix(requestPath, "/")
	unescaped, err := url.PathUnescape(rawPath)
	if err != nil {
		unescaped = rawPath
	}

	return &Request{
		Method: method,
		URL: &url.URL{
			User:    addr.User,
			Scheme:  addr.Scheme,
			Host:    addr.Host,
			Path:    unescaped,
			RawPath: rawPath,
		},
		Host:        addr.Host,
		ClientToken: token,
		RequestID:   uuid.NewString(),
		Params:      make(map[string][]string),
	}
}

// requestSettings is a consistent snapshot of the Config taken per request.
type requestSettings struct {
	limiter     *rate.Limiter
	tokenSource oauth2.TokenSource
	retry       retryablehttp.Client
}

func (c *Client) settings(method string) *requestSettings {
	s := &requestSettings{}
	c.readConfig(func(cfg *Config) {
		s.limiter = cfg.Limiter
		s.tokenSource = cfg.TokenSource
		s.retry = retryablehttp.Client{
			HTTPClient:   cfg.HttpClient,
			RetryWaitMin: cfg.MinRetryWait,
			RetryWaitMax: cfg.MaxRetryWait,
			RetryMax:     cfg.MaxRetries,
			Backoff:      cfg.Backoff,
			CheckRetry:   cfg.CheckRetry,
			Logger:       cfg.Logger,
			ErrorHandler: retryablehttp.PassthroughErrorHandler,
		}
	})
	if s.retry.Backoff == nil {
		s.retry.Backoff = retryablehttp.RateLimitLinearJitterBackoff
	}
	if s.retry.CheckRetry == nil {
		s.retry.CheckRetry = DefaultRetryPolicy
	}
	// A create or update must reach the platform at most once.
	if !isIdempotent(method) {
		s.retry.RetryMax = 0
	}
	return s
}

func (c *Client) rawRequestWithContext(ctx context.Context, r *Request) (*Response, error) {
	s := c.settings(r.Method)

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if s.tokenSource != nil {
		tok, err := s.tokenSource.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to obtain access token: %w", err)
		}
		r.ClientToken = tok.AccessToken
	}

	req, err := r.toRetryableHTTP()
	if err != nil {
		return nil, err
	}
	req.Request = req.Request.WithContext(ctx)

	resp, err := s.retry.Do(req)
	if resp == nil {
		return nil, err
	}
	result := &Response{Response: resp}
	if err != nil {
		return result, err
	}
	return result, result.Error()
}

// withConfiguredTimeout wraps the context with a timeout from the client configuration.
func (c *Client) withConfiguredTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := c.ClientTimeout()

	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}

	return ctx, func() {}
}

func isIdempotent(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}

// DefaultRetryPolicy is the default retry policy used by new Client objects.
// It is retryablehttp.DefaultRetryPolicy, except that 404s are never retried
// since the existence probe depends on seeing them promptly.
func DefaultRetryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if resp != nil && resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}
