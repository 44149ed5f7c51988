package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/berdl/internal/output"
	"github.com/tanq16/berdl/internal/portal"
	"github.com/tanq16/berdl/internal/publish"
	"github.com/tanq16/berdl/internal/utils"
)

var BerdlVersion = "dev"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "berdl [EMAIL] [OPTIONS]",
		Short: "Download the SEAI BER public search database",
		Long: `Log in to the SEAI BER Research Tool with a registered email address and
download BERPublicsearch.zip.

Examples:
  berdl me@example.com
  berdl me@example.com --output-dir ./data --progress line
  BERDL_EMAIL=me@example.com berdl --s3 s3://mybucket/ber/`,
		Version:       BerdlVersion,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runFetch(cmd, args); err != nil {
				reportError(err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringP("email", "e", "", "Registered email address (or first argument)")
	cmd.Flags().StringP("output-dir", "o", ".", "Directory to save BERPublicsearch.zip in")
	cmd.Flags().StringP("forms", "f", "", "YAML or JSON file overriding the bundled form values")
	cmd.Flags().StringP("progress", "p", "bar", "Progress display: bar, line, log or none")
	cmd.Flags().DurationP("timeout", "t", 0, "Overall request timeout, 0 for none (eg. 30m)")
	cmd.Flags().DurationP("keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m, 80s)")
	cmd.Flags().StringP("user-agent", "a", "", "User agent overriding the form headers, or \"randomize\"")
	cmd.Flags().String("proxy", "", "HTTP/HTTPS proxy URL (e.g., proxy.example.com:8080)")
	cmd.Flags().String("proxy-username", "", "Proxy username (if not provided in proxy URL)")
	cmd.Flags().String("proxy-password", "", "Proxy password (if not provided in proxy URL)")
	cmd.Flags().StringArrayP("header", "H", []string{}, "Custom headers (like 'Referer: https://ndber.seai.ie'); can be specified multiple times")
	cmd.Flags().String("s3", "", "Upload the archive to this S3 location after downloading (s3://BUCKET/KEY)")
	cmd.Flags().String("profile", "", "AWS profile to use for --s3")
	cmd.Flags().String("config", "", "YAML config file providing any of these options")
	cmd.Flags().Bool("debug", false, "Enable debug logging")
	cmd.Flags().String("login-url", portal.DefaultEndpoints.LoginURL, "Login endpoint")
	cmd.Flags().String("download-url", portal.DefaultEndpoints.DownloadURL, "Download endpoint")
	cmd.Flags().MarkHidden("login-url")
	cmd.Flags().MarkHidden("download-url")

	cmd.AddCommand(newFormsCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runFetch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	utils.InitLogger(s.Debug)
	if len(args) > 0 {
		s.Email = args[0]
	}
	if s.Email == "" {
		return errors.New("no email address provided (argument, --email or BERDL_EMAIL)")
	}
	var target publish.Target
	if s.S3 != "" {
		if target, err = publish.ParseS3URI(s.S3); err != nil {
			return err
		}
	}
	cfg, err := loadForms(s.Forms)
	if err != nil {
		return err
	}
	sink, err := newSink(s.Progress, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dest := portal.ArchivePath(s.OutputDir)
	output.PrintInfo(fmt.Sprintf("Logging in to the BER Research Tool as %s", s.Email))
	err = portal.FetchDatabase(ctx, s.Email, s.OutputDir, cfg, sink,
		portal.WithHTTPConfig(s.httpConfig()),
		portal.WithEndpoints(portal.Endpoints{LoginURL: s.LoginURL, DownloadURL: s.DownloadURL}),
	)
	if err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Saved %s", dest))

	if s.S3 == "" {
		return nil
	}
	publisher, err := publish.NewS3Publisher(ctx, s.Profile)
	if err != nil {
		return err
	}
	location, err := publisher.Publish(ctx, dest, target)
	if err != nil {
		return err
	}
	output.PrintSuccess(fmt.Sprintf("Uploaded to %s", location))
	return nil
}

func reportError(err error) {
	log.Debug().Str("op", "cmd/root").Err(err).Msg("fetch failed")
	var authErr *portal.AuthorizationError
	var transportErr *portal.TransportError
	var storageErr *portal.StorageError
	switch {
	case errors.As(err, &authErr):
		output.PrintError("Access denied by the BER Research Tool")
		output.PrintDetail(err.Error())
	case errors.As(err, &transportErr):
		output.PrintError("Portal request failed")
		output.PrintDetail(err.Error())
	case errors.As(err, &storageErr):
		output.PrintError("Could not save the archive")
		output.PrintDetail(err.Error())
		output.PrintWarning(fmt.Sprintf("%s may be incomplete", storageErr.Path))
	default:
		output.PrintError(err.Error())
	}
}
