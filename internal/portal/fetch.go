// Package portal logs in to the SEAI BER Research Tool and streams the BER
// public search archive to disk.
package portal

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tanq16/berdl/internal/forms"
	"github.com/tanq16/berdl/internal/progress"
	"github.com/tanq16/berdl/internal/utils"
)

var ErrNoIdentity = errors.New("an email address is required")

// Endpoints are the two portal pages a fetch posts to.
type Endpoints struct {
	LoginURL    string
	DownloadURL string
}

var DefaultEndpoints = Endpoints{
	LoginURL:    utils.LoginURL,
	DownloadURL: utils.DownloadURL,
}

type fetcher struct {
	endpoints  Endpoints
	httpConfig utils.HTTPClientConfig
	fs         afero.Fs
}

// Option configures FetchDatabase.
type Option func(f *fetcher)

// WithEndpoints points the login and download requests somewhere else.
func WithEndpoints(e Endpoints) Option {
	return func(f *fetcher) {
		f.endpoints = e
	}
}

// WithHTTPConfig sets timeouts, proxy, user agent and extra headers of the session.
func WithHTTPConfig(cfg utils.HTTPClientConfig) Option {
	return func(f *fetcher) {
		f.httpConfig = cfg
	}
}

// WithFs writes the archive through fs instead of the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(f *fetcher) {
		f.fs = fs
	}
}

// ArchivePath is where FetchDatabase saves the archive for saveDir.
// An empty saveDir means the current directory.
func ArchivePath(saveDir string) string {
	if saveDir == "" {
		saveDir = "."
	}
	return filepath.Join(saveDir, utils.ArchiveName)
}

// FetchDatabase logs in as identity and downloads BERPublicsearch.zip into
// saveDir over one session. A nil cfg uses the bundled form defaults and a nil
// sink discards progress. cfg is never modified. Errors from the login and
// download steps are returned as-is.
func FetchDatabase(ctx context.Context, identity, saveDir string, cfg *forms.Config, sink progress.Sink, opts ...Option) error {
	f := fetcher{
		endpoints: DefaultEndpoints,
		fs:        afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(&f)
	}
	if identity == "" {
		return ErrNoIdentity
	}
	if cfg == nil {
		cfg = forms.Default()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if sink == nil {
		sink = progress.Nop
	}
	dest := ArchivePath(saveDir)
	runLog := log.With().Str("run", uuid.NewString()).Logger()
	ctx = runLog.WithContext(ctx)
	runLog.Debug().Str("op", "portal/fetch").Str("identity", identity).Msgf("fetching archive into %s", dest)

	session, err := utils.NewSession(f.httpConfig)
	if err != nil {
		return err
	}
	defer session.Close()

	withIdentity := cfg.WithIdentity(identity)
	if err := f.endpoints.Authenticate(ctx, session, identity, withIdentity); err != nil {
		return err
	}
	return f.endpoints.Download(ctx, session, f.fs, withIdentity, dest, sink)
}

// logger returns the run logger stored in ctx, falling back to the global one.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}
