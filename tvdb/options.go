package tvdb

import (
	"net/http"
	"time"
)

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL      string
	imageBaseURL string
	timeout      time.Duration
	userAgent    string
	httpClient   *http.Client
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL:      DefaultBaseURL,
		imageBaseURL: DefaultImageBaseURL,
		timeout:      30 * time.Second,
		userAgent:    "tvdbarr",
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURL = baseURL
	}
}

// WithImageBaseURL overrides the base URL banner, poster and image paths resolve against.
func WithImageBaseURL(imageBaseURL string) Option {
	return func(o *clientOptions) {
		o.imageBaseURL = imageBaseURL
	}
}

// WithTimeout sets the HTTP client timeout. Ignored when WithHTTPClient is used.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}
