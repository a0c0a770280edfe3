// Samplegen pre-generates a short audio sample for every voice offered by a
// local Kokoro text-to-speech service, so a web UI can preview voices
// without synthesizing on demand.
//
// Usage:
//
//	samplegen [--api-url http://localhost:8880] [--batch-size 3] [--force]
//	samplegen serve [--port 8090]
package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/nadzzz/samplegen/internal/config"
	"github.com/nadzzz/samplegen/internal/report"
	"github.com/nadzzz/samplegen/internal/sample"
	"github.com/nadzzz/samplegen/internal/server"
	"github.com/nadzzz/samplegen/internal/tts"
	"github.com/nadzzz/samplegen/internal/tts/kokoro"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		// The unreachable case was already explained on stdout.
		if !errors.Is(err, tts.ErrServiceUnreachable) {
			slog.Error("samplegen failed", "error", err)
		}
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:           "samplegen",
		Short:         "Generate a voice sample for every Kokoro voice",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(configFile, cmd)
			if err != nil {
				return err
			}
			// A run is never cancelled midway; only per-request timeouts apply.
			return generate(context.Background(), cfg, afero.NewOsFs(), out)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to config file (e.g. configs/samplegen.yaml)")
	pf.String("output-dir", "web/voice_samples", "directory the samples are written to")
	pf.String("log-level", "warn", "log level: debug|info|warn|error")
	pf.String("log-format", "text", "log format: text|json")

	f := cmd.Flags()
	f.String("api-url", "http://localhost:8880", "Kokoro FastAPI base URL")
	f.Int("batch-size", 3, "number of parallel requests (keep low for CPU)")
	f.Bool("force", false, "delete and regenerate all existing samples")

	cmd.AddCommand(newServeCmd(&configFile))
	return cmd
}

func newServeCmd(configFile *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve generated samples over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configFile, cmd)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			store := sample.NewStore(afero.NewOsFs(), cfg.Sample.OutputDir, cfg.Sample.Format)
			srv := server.New(cfg.Server.Port, store)
			srv.SetReady(true)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().Int("port", 8090, "HTTP port to listen on")
	return cmd
}

func loadConfig(configFile string, cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	config.SetupLogging(cfg.Logging)
	slog.Debug("samplegen starting", "version", version, "command", cmd.Name())
	return cfg, nil
}

// generate runs one batch. It fails only when the voice list cannot be
// fetched or the output directory cannot be created; per-voice failures
// are reported in the summary.
func generate(ctx context.Context, cfg *config.Config, fs afero.Fs, out io.Writer) error {
	p := report.New(out)

	store := sample.NewStore(fs, cfg.Sample.OutputDir, cfg.Sample.Format)
	if err := store.Ensure(); err != nil {
		return err
	}

	client := kokoro.New(cfg.Kokoro)
	defer client.Close()

	p.Fetching(client.BaseURL())
	voices, err := client.ListVoices(ctx)
	if err != nil {
		p.Unreachable(client.BaseURL(), err)
		return err
	}

	p.Header(len(voices), cfg.Sample.Text, store.Dir(), cfg.Batch.Size)
	if cfg.Batch.Force {
		p.Cleared()
	}

	gen := sample.NewGenerator(client, store, sample.Request{
		Text:   cfg.Sample.Text,
		Format: cfg.Sample.Format,
		Speed:  cfg.Sample.Speed,
	}, sample.Options{
		Workers: cfg.Batch.Size,
		Force:   cfg.Batch.Force,
	})

	summary := gen.Run(ctx, voices, p.Result)
	p.Summary(summary)
	return nil
}
