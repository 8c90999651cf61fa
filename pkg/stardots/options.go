package stardots

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/stardots-io/stardots-sdk-go/pkg/api"
)

// Version is the SDK version reported in the x-stardots-extra header.
const Version = "1.0.0"

// Defaults applied by New.
const (
	DefaultEndpoint = "https://api.stardots.io"
	DefaultTimeout  = 30 * time.Second
)

// Options configures the client behavior.
type Options struct {
	endpoint         string
	timeout          time.Duration
	httpClient       api.HttpRequestDoer
	logger           zerolog.Logger
	clock            Clock
	rand             RandSource
	validateRequests bool
}

func defaultOptions() *Options {
	return &Options{
		endpoint: DefaultEndpoint,
		timeout:  DefaultTimeout,
		logger:   zerolog.Nop(),
		clock:    systemClock{},
		rand:     globalRand{},
	}
}

// Option configures the client.
type Option func(*Options)

// WithEndpoint sets the service base URL.
// Default is https://api.stardots.io.
func WithEndpoint(endpoint string) Option {
	return func(o *Options) {
		o.endpoint = endpoint
	}
}

// WithTimeout sets the upper bound for each call, covering the request and
// reading the response body. A context with an earlier deadline still wins.
// Default is 30s.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithHTTPClient sets the doer used to send requests, typically an
// *http.Client with custom transport settings or a test stub.
func WithHTTPClient(doer api.HttpRequestDoer) Option {
	return func(o *Options) {
		o.httpClient = doer
	}
}

// WithLogger sets the logger for per-request debug events.
// Default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.logger = l
	}
}

// WithClock replaces the time source used for timestamps and nonces.
func WithClock(c Clock) Option {
	return func(o *Options) {
		o.clock = c
	}
}

// WithRandSource replaces the random source used for nonces.
// It must be safe for concurrent use if the client is shared.
func WithRandSource(r RandSource) Option {
	return func(o *Options) {
		o.rand = r
	}
}

// WithRequestValidation checks every outgoing request against the bundled
// OpenAPI document and fails the call with a ValidationError instead of
// sending a malformed request.
func WithRequestValidation() Option {
	return func(o *Options) {
		o.validateRequests = true
	}
}
