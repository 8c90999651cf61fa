// Package main provides a CLI for the StarDots object storage API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stardots-io/stardots-sdk-go/pkg/stardots"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// persistentKeys are the root flags mirrored into viper.
var persistentKeys = []string{"endpoint", "key", "secret", "timeout", "json", "verbose", "log-format"}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "stardots",
		Short: "StarDots object storage CLI",
		Long: `A command-line client for the StarDots object storage API.

This tool allows you to:
  - List, create, delete and publish spaces
  - List, upload and delete files
  - Issue access tickets for files in private spaces

Settings are read from flags, then STARDOTS_* environment variables, then
$HOME/.stardots.yaml:
  STARDOTS_ENDPOINT - API endpoint (default: https://api.stardots.io)
  STARDOTS_KEY      - client key
  STARDOTS_SECRET   - client secret`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(v, cfgFile)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.stardots.yaml)")
	pf.String("endpoint", stardots.DefaultEndpoint, "API endpoint")
	pf.String("key", "", "client key (or STARDOTS_KEY env)")
	pf.String("secret", "", "client secret (or STARDOTS_SECRET env)")
	pf.Duration("timeout", stardots.DefaultTimeout, "per-request timeout")
	pf.Bool("json", false, "print the response envelope as JSON")
	pf.Bool("verbose", false, "log every request")
	pf.String("log-format", "console", "log format (console or json)")
	for _, name := range persistentKeys {
		cobra.CheckErr(v.BindPFlag(name, pf.Lookup(name)))
	}

	v.SetEnvPrefix("stardots")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newSpaceCmd(v))
	root.AddCommand(newFileCmd(v))
	root.AddCommand(newVersionCmd(v))
	return root
}

// initConfig reads the config file. A missing default file is not an error;
// a missing file named by --config is.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigName(".stardots")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}

// newLogger builds the CLI logger: warnings only unless --verbose.
func newLogger(v *viper.Viper, out io.Writer) (zerolog.Logger, error) {
	level := zerolog.WarnLevel
	if v.GetBool("verbose") {
		level = zerolog.DebugLevel
	}

	var w io.Writer
	switch format := v.GetString("log-format"); format {
	case "json":
		w = out
	case "console", "":
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// newClient creates an API client from the resolved settings
func newClient(cmd *cobra.Command, v *viper.Viper) (*stardots.Client, error) {
	logger, err := newLogger(v, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	return stardots.New(v.GetString("key"), v.GetString("secret"),
		stardots.WithEndpoint(v.GetString("endpoint")),
		stardots.WithTimeout(v.GetDuration("timeout")),
		stardots.WithLogger(logger),
	)
}

type envelope interface {
	Header() stardots.CommonResponse
}

// execute runs one API call. With --json the envelope is printed as is;
// otherwise render prints it for humans. A business failure still prints
// the JSON envelope but returns an error so the process exits non-zero.
func execute[T envelope](cmd *cobra.Command, v *viper.Viper, call func(context.Context, *stardots.Client) (*T, error), render func(io.Writer, *T)) error {
	c, err := newClient(cmd, v)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	resp, err := call(cmd.Context(), c)
	if resp == nil {
		if err == nil {
			return errors.New("empty response")
		}
		return describe(err)
	}

	out := cmd.OutOrStdout()
	jsonOutput := v.GetBool("json")
	if jsonOutput {
		if jerr := outputJSON(out, resp); jerr != nil {
			return jerr
		}
	}
	if err != nil {
		return describe(err)
	}

	if h := (*resp).Header(); !h.Success {
		return &businessError{header: h}
	}
	if !jsonOutput {
		render(out, resp)
	}
	return nil
}

// businessError reports a response with success false.
type businessError struct {
	header stardots.CommonResponse
}

func (e *businessError) Error() string {
	if e.header.RequestId != "" {
		return fmt.Sprintf("%s (code %d, request %s)", e.header.Message, e.header.Code, e.header.RequestId)
	}
	return fmt.Sprintf("%s (code %d)", e.header.Message, e.header.Code)
}

func describe(err error) error {
	switch {
	case stardots.IsTimeout(err):
		return fmt.Errorf("request timed out: %w", err)
	case stardots.IsValidationError(err):
		return fmt.Errorf("invalid request: %w", err)
	case stardots.IsStatusError(err):
		return fmt.Errorf("server rejected the request: %w", err)
	case stardots.IsDecodeError(err):
		return fmt.Errorf("unreadable response: %w", err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

// Version command
func newVersionCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the SDK version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if v.GetBool("json") {
				return outputJSON(cmd.OutOrStdout(), map[string]string{"version": stardots.Version})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "stardots %s\n", stardots.Version)
			return err
		},
	}
}
