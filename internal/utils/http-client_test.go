package utils

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestSessionKeepsCookiesUntilClose(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/set":
			http.SetCookie(w, &http.Cookie{Name: "session", Value: "s1", Path: "/"})
		case "/check":
			if c, err := r.Cookie("session"); err == nil {
				io.WriteString(w, c.Value)
			}
		}
	}))
	defer ts.Close()

	s, err := NewSession(HTTPClientConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, path := range []string{"/set", "/check"} {
		resp, err := s.PostForm(context.Background(), ts.URL+path, nil, nil)
		if err != nil {
			t.Fatalf("post %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if path == "/check" && string(body) != "s1" {
			t.Errorf("cookie not sent back, got %q", body)
		}
	}

	u, _ := url.Parse(ts.URL)
	if len(s.Cookies(u)) != 1 {
		t.Errorf("expected one cookie in the jar, got %d", len(s.Cookies(u)))
	}
	s.Close()
	if len(s.Cookies(u)) != 0 {
		t.Error("expected cookies to be discarded on Close")
	}
}

func TestSessionPostFormHeaders(t *testing.T) {
	var got http.Header
	var form url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		r.ParseForm()
		form = r.PostForm
	}))
	defer ts.Close()

	s, err := NewSession(HTTPClientConfig{
		UserAgent: "berdl-test",
		Headers:   map[string]string{"X-Override": "session"},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	headers := map[string]string{
		"User-Agent": "from-form",
		"X-Override": "form",
		"X-Form":     "kept",
	}
	fields := map[string]string{"ctl00$Name": "someone@example.com", "__VIEWSTATE": "a+b/c="}
	resp, err := s.PostForm(context.Background(), ts.URL, headers, fields)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	tests := []struct{ header, want string }{
		{"User-Agent", "berdl-test"},
		{"X-Override", "session"},
		{"X-Form", "kept"},
		{"Content-Type", "application/x-www-form-urlencoded"},
	}
	for _, tt := range tests {
		if v := got.Get(tt.header); v != tt.want {
			t.Errorf("header %s = %q, want %q", tt.header, v, tt.want)
		}
	}
	for k, v := range fields {
		if form.Get(k) != v {
			t.Errorf("field %s = %q, want %q", k, form.Get(k), v)
		}
	}
}

func TestNewSessionProxy(t *testing.T) {
	tests := []struct {
		proxy   string
		want    string
		wantErr bool
	}{
		{"http://proxy.example.com:8080", "http://bob:pw@proxy.example.com:8080", false},
		{"proxy.example.com:3128", "http://bob:pw@proxy.example.com:3128", false},
		{"http://[::1", "", true},
		{"http://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.proxy, func(t *testing.T) {
			s, err := NewSession(HTTPClientConfig{ProxyURL: tt.proxy, ProxyUsername: "bob", ProxyPassword: "pw"})
			if tt.wantErr {
				if err == nil {
					s.Close()
					t.Fatalf("expected an error for proxy %q", tt.proxy)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer s.Close()
			req, _ := http.NewRequest(http.MethodPost, "https://ndber.seai.ie/", nil)
			got, err := s.client.Transport.(*http.Transport).Proxy(req)
			if err != nil {
				t.Fatalf("unexpected proxy error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("got proxy %q, want %q", got, tt.want)
			}
		})
	}
}
