package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/jackwu/passingthoughts/config"
	"github.com/jackwu/passingthoughts/logger"
	"github.com/jackwu/passingthoughts/metrics"
	"github.com/jackwu/passingthoughts/seed"
	"github.com/jackwu/passingthoughts/store"
	"github.com/jackwu/passingthoughts/sweeper"
	"github.com/jackwu/passingthoughts/tui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// NewRootCmd constructs the root command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:           "passingthoughts",
		Short:         "Jot down thoughts that fade away after a few seconds",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			// --list: print the starting thoughts as plain text (for testing / scripting)
			if list {
				texts, err := seedTexts(cfg)
				if err != nil {
					return err
				}
				for _, t := range texts {
					fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			}

			return run(cmd.Context(), cfg)
		},
	}

	f := cmd.Flags()
	f.Duration("ttl", store.DefaultTTL, "How long a thought stays before it disappears")
	f.Duration("sweep-interval", sweeper.DefaultInterval, "How often expired thoughts are removed")
	f.String("log-file", "", "Write JSON logs to this file")
	f.BoolP("debug", "d", false, "Log at debug level")
	f.String("seed-file", "", "YAML file with the starting thoughts")
	f.Bool("no-seed", false, "Start with an empty list")
	f.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9102")
	f.BoolVar(&list, "list", false, "Print the starting thoughts and exit")
	return cmd
}

// loadConfig reads the environment, then applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	f := cmd.Flags()
	if f.Changed("ttl") {
		cfg.TTL, _ = f.GetDuration("ttl")
	}
	if f.Changed("sweep-interval") {
		cfg.SweepInterval, _ = f.GetDuration("sweep-interval")
	}
	if f.Changed("log-file") {
		cfg.LogFile, _ = f.GetString("log-file")
	}
	if debug, _ := f.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	if f.Changed("seed-file") {
		cfg.SeedFile, _ = f.GetString("seed-file")
	}
	if f.Changed("no-seed") {
		cfg.NoSeed, _ = f.GetBool("no-seed")
	}
	if f.Changed("metrics-addr") {
		cfg.MetricsAddr, _ = f.GetString("metrics-addr")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func seedTexts(cfg *config.Config) ([]string, error) {
	switch {
	case cfg.NoSeed:
		return nil, nil
	case cfg.SeedFile != "":
		return seed.Load(cfg.SeedFile)
	default:
		return seed.Defaults(), nil
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log, closer, err := logger.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info().
		Dur("ttl", cfg.TTL).
		Dur("sweep_interval", cfg.SweepInterval).
		Str("seed_file", cfg.SeedFile).
		Bool("no_seed", cfg.NoSeed).
		Msg("starting")

	texts, err := seedTexts(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	clock := clockwork.NewRealClock()
	st := store.New(clock, cfg.TTL,
		store.WithLogger(log.With().Str("component", "store").Logger()),
		store.WithMetrics(metrics.New(reg)),
	)
	st.Seed(texts...)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.MetricsAddr != "" {
		go func() {
			if err := metrics.Serve(ctx, cfg.MetricsAddr, reg, log); err != nil {
				log.Error().Err(err).Msg("metrics server")
			}
		}()
	}

	m := tui.NewModel(st,
		tui.WithLogger(log.With().Str("component", "tui").Logger()),
		tui.WithNow(clock.Now()),
	)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	sw := sweeper.New(clock, cfg.SweepInterval, log.With().Str("component", "sweeper").Logger())
	swDone := make(chan struct{})
	go func() {
		defer close(swDone)
		_ = sw.Run(ctx, func(now time.Time) { p.Send(tui.SweepMsg{Now: now}) })
	}()

	_, err = p.Run()

	// the sweeper must be gone before the store is dropped
	cancel()
	<-swDone

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		log.Error().Err(err).Msg("program exited")
		return errors.Wrap(err, "run ui")
	}
	log.Info().Msg("stopped")
	return nil
}
