// Package forms holds the header and form-field values posted to the BER
// Research Tool portal.
package forms

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EmailField is the login form field carrying the registered email address.
const EmailField = "ctl00$DefaultContent$Register$dfRegister$Name"

var ErrMissingSection = errors.New("form configuration section missing")

//go:embed defaults.yaml
var defaultsDocument []byte

// Config maps each portal action to its form fields, plus the headers shared
// by every request. JSON documents decode into it as well.
type Config struct {
	Headers         map[string]string `yaml:"headers" json:"headers"`
	Login           map[string]string `yaml:"login" json:"login"`
	DownloadAllData map[string]string `yaml:"download_all_data" json:"download_all_data"`
}

// Default returns a fresh copy of the bundled form configuration.
func Default() *Config {
	cfg, err := Parse(defaultsDocument)
	if err != nil {
		panic(fmt.Sprintf("bundled form defaults are invalid: %v", err))
	}
	return cfg
}

// Parse decodes a complete form document. All three sections must be present.
func Parse(data []byte) (*Config, error) {
	cfg, err := decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Load reads a form document from path and lays it over the bundled defaults:
// every field the file names replaces the default value for that field.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open form file: %w", err)
	}
	defer file.Close()

	var overrides Config
	if err := yaml.NewDecoder(file).Decode(&overrides); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not decode form file %s: %w", path, err)
	}
	cfg := Default()
	merge(cfg.Headers, overrides.Headers)
	merge(cfg.Login, overrides.Login)
	merge(cfg.DownloadAllData, overrides.DownloadAllData)
	return cfg, nil
}

func decode(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("could not decode form document: %w", err)
	}
	return &cfg, nil
}

func merge(dst, src map[string]string) {
	for k, v := range src {
		dst[k] = v
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: headers", ErrMissingSection)
	}
	switch {
	case c.Headers == nil:
		return fmt.Errorf("%w: headers", ErrMissingSection)
	case c.Login == nil:
		return fmt.Errorf("%w: login", ErrMissingSection)
	case c.DownloadAllData == nil:
		return fmt.Errorf("%w: download_all_data", ErrMissingSection)
	}
	return nil
}

// Clone returns a deep copy. Nil sections stay nil.
func (c *Config) Clone() *Config {
	return &Config{
		Headers:         cloneMap(c.Headers),
		Login:           cloneMap(c.Login),
		DownloadAllData: cloneMap(c.DownloadAllData),
	}
}

// WithIdentity returns a copy of c whose login form carries email.
// c itself is left untouched.
func (c *Config) WithIdentity(email string) *Config {
	out := c.Clone()
	if out.Login == nil {
		out.Login = make(map[string]string)
	}
	out.Login[EmailField] = email
	return out
}

func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cloneMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
