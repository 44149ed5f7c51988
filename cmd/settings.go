package cmd

import (
	"fmt"
	"io"
	u "net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tanq16/berdl/internal/forms"
	"github.com/tanq16/berdl/internal/output"
	"github.com/tanq16/berdl/internal/progress"
	"github.com/tanq16/berdl/internal/utils"
)

type settings struct {
	Email         string        `mapstructure:"email"`
	OutputDir     string        `mapstructure:"output-dir"`
	Forms         string        `mapstructure:"forms"`
	Progress      string        `mapstructure:"progress"`
	Timeout       time.Duration `mapstructure:"timeout"`
	KATimeout     time.Duration `mapstructure:"keep-alive-timeout"`
	UserAgent     string        `mapstructure:"user-agent"`
	ProxyURL      string        `mapstructure:"proxy"`
	ProxyUsername string        `mapstructure:"proxy-username"`
	ProxyPassword string        `mapstructure:"proxy-password"`
	S3            string        `mapstructure:"s3"`
	Profile       string        `mapstructure:"profile"`
	Debug         bool          `mapstructure:"debug"`
	LoginURL      string        `mapstructure:"login-url"`
	DownloadURL   string        `mapstructure:"download-url"`
	Headers       []string      `mapstructure:"-"`
}

// loadSettings resolves options from flags, BERDL_* environment variables
// and an optional config file, in that order of precedence.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	v := viper.New()
	v.SetEnvPrefix("BERDL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}
	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, err
	}
	// commas are legal inside header values, so skip viper's list parsing
	headers, err := cmd.Flags().GetStringArray("header")
	if err != nil {
		return nil, err
	}
	s.Headers = headers
	return &s, nil
}

func (s *settings) httpConfig() utils.HTTPClientConfig {
	userAgent := s.UserAgent
	if userAgent == "randomize" {
		userAgent = utils.GetRandomUserAgent()
	}
	proxyURL, proxyUsername, proxyPassword := s.ProxyURL, s.ProxyUsername, s.ProxyPassword
	// Check if proxy URL contains auth
	parsedProxy, err := u.Parse(proxyURL)
	if err == nil && parsedProxy.User != nil && proxyUsername == "" {
		proxyUsername = parsedProxy.User.Username()
		if password, set := parsedProxy.User.Password(); set {
			proxyPassword = password
		}
		parsedProxy.User = nil
		proxyURL = parsedProxy.String()
	}
	return utils.HTTPClientConfig{
		Timeout:       s.Timeout,
		KATimeout:     s.KATimeout,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     userAgent,
		Headers:       utils.ParseHeaderArgs(s.Headers),
	}
}

func loadForms(path string) (*forms.Config, error) {
	if path == "" {
		return forms.Default(), nil
	}
	log.Debug().Str("op", "cmd/settings").Msgf("loading form overrides from %s", path)
	return forms.Load(path)
}

func newSink(kind string, w io.Writer) (progress.Sink, error) {
	switch strings.ToLower(kind) {
	case "bar", "":
		return output.NewBarSink(w), nil
	case "line":
		return output.NewLineSink(w), nil
	case "log":
		return progress.NewLogSink(log.Logger, 64*1024*1024), nil
	case "none":
		return progress.Nop, nil
	default:
		return nil, fmt.Errorf("unknown progress display %q (want bar, line, log or none)", kind)
	}
}
