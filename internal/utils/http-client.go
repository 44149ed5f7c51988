package utils

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

type HTTPClientConfig struct {
	Timeout       time.Duration // zero means no overall deadline
	KATimeout     time.Duration
	ProxyURL      string
	ProxyUsername string
	ProxyPassword string
	UserAgent     string
	Headers       map[string]string
}

// Session is a cookie-carrying HTTP client. Cookies set by one response are
// sent with every later request made through the same Session until Close.
// A Session is not safe for concurrent use.
type Session struct {
	client *http.Client
	jar    *cookiejar.Jar
	config HTTPClientConfig
}

func NewSession(cfg HTTPClientConfig) (*Session, error) {
	if cfg.KATimeout == 0 {
		cfg.KATimeout = 90 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		IdleConnTimeout:     cfg.KATimeout,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		DisableCompression:  true,
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := parseProxyURL(cfg.ProxyURL)
		if err != nil {
			return nil, err
		}
		if cfg.ProxyUsername != "" {
			if cfg.ProxyPassword != "" {
				proxyURL.User = url.UserPassword(cfg.ProxyUsername, cfg.ProxyPassword)
			} else {
				proxyURL.User = url.User(cfg.ProxyUsername)
			}
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}
	return &Session{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			Jar:       jar,
		},
		jar:    jar,
		config: cfg,
	}, nil
}

// parseProxyURL accepts a full proxy URL or a bare host:port, which is taken as http.
func parseProxyURL(raw string) (*url.URL, error) {
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	proxyURL, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL: %w", err)
	}
	if proxyURL.Host == "" {
		return nil, fmt.Errorf("invalid proxy URL %q: missing host", raw)
	}
	return proxyURL, nil
}

// Do sends req after applying the session user agent and the session-wide
// headers, which take precedence over headers already set on req.
func (s *Session) Do(req *http.Request) (*http.Response, error) {
	if s.config.UserAgent != "" {
		req.Header.Set("User-Agent", s.config.UserAgent)
	}
	for k, v := range s.config.Headers {
		req.Header.Set(k, v)
	}
	return s.client.Do(req)
}

// PostForm sends fields URL-encoded to link with the given request headers.
// The caller owns the returned response body.
func (s *Session) PostForm(ctx context.Context, link string, headers, fields map[string]string) (*http.Response, error) {
	values := url.Values{}
	for k, v := range fields {
		values.Set(k, v)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, link, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return s.Do(req)
}

func (s *Session) Cookies(u *url.URL) []*http.Cookie {
	if s.jar == nil {
		return nil
	}
	return s.jar.Cookies(u)
}

// Close discards the session cookies and idle connections.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
	s.client.Jar = nil
	s.jar = nil
}
