package portal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/afero"
	"github.com/tanq16/berdl/internal/forms"
	"github.com/tanq16/berdl/internal/progress"
	"github.com/tanq16/berdl/internal/utils"
)

// Download posts the "download all data" form over an authenticated session
// and streams the response into dest, truncating any existing file.
// On error dest may hold a partial archive.
func Download(ctx context.Context, session *utils.Session, cfg *forms.Config, dest string, sink progress.Sink) error {
	return DefaultEndpoints.Download(ctx, session, afero.NewOsFs(), cfg, dest, sink)
}

// Download is the package-level Download against e.DownloadURL, writing through fs.
func (e Endpoints) Download(ctx context.Context, session *utils.Session, fs afero.Fs, cfg *forms.Config, dest string, sink progress.Sink) (err error) {
	endpoint := e.DownloadURL
	l := logger(ctx)
	if sink == nil {
		sink = progress.Nop
	}
	l.Debug().Str("op", "portal/download").Msgf("posting download form to %s", endpoint)
	resp, err := session.PostForm(ctx, endpoint, cfg.Headers, cfg.DownloadAllData)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &TransportError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}
	total := max(resp.ContentLength, 0)
	if total == 0 {
		l.Debug().Str("op", "portal/download").Msg("server did not report a content length")
	}

	file, err := fs.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return &StorageError{Path: dest, Op: "creating", Err: err}
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = &StorageError{Path: dest, Op: "closing", Err: closeErr}
		}
	}()

	tracker := sink.Start(total)
	defer tracker.Finish()

	written, err := copyBlocks(file, resp.Body, tracker)
	if err != nil {
		var storageErr *StorageError
		if errors.As(err, &storageErr) {
			storageErr.Path = dest
			return storageErr
		}
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	if total > 0 && written != total {
		return &TransportError{Endpoint: endpoint, Err: fmt.Errorf("response ended after %d of %d bytes", written, total)}
	}
	if err := file.Sync(); err != nil {
		return &StorageError{Path: dest, Op: "syncing", Err: err}
	}
	l.Info().Str("op", "portal/download").Int64("bytes", written).Msgf("saved archive to %s", dest)
	return nil
}

// copyBlocks moves src into dst one utils.BlockSize block at a time, so an
// S byte body takes exactly ceil(S/BlockSize) writes and tracker advances.
// Only io.EOF ends the body. Write failures come back as *StorageError,
// any other read failure as-is.
func copyBlocks(dst io.Writer, src io.Reader, tracker progress.Tracker) (int64, error) {
	buf := make([]byte, utils.BlockSize)
	var written int64
	for {
		n, readErr := fillBlock(src, buf)
		if n > 0 {
			if _, err := dst.Write(buf[:n]); err != nil {
				return written, &StorageError{Op: "writing", Err: err}
			}
			written += int64(n)
			tracker.Advance(int64(n))
		}
		switch {
		case readErr == nil:
		case readErr == io.EOF:
			return written, nil
		default:
			return written, readErr
		}
	}
}

// fillBlock reads into buf until it is full or src fails. Unlike io.ReadFull
// it returns src's error unchanged, so a body cut off by the connection keeps
// its io.ErrUnexpectedEOF while a clean end stays io.EOF.
func fillBlock(src io.Reader, buf []byte) (int, error) {
	filled := 0
	for filled < len(buf) {
		n, err := src.Read(buf[filled:])
		filled += n
		if err != nil {
			return filled, err
		}
	}
	return filled, nil
}
