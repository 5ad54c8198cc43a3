package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arasaka-range/ad-check-debug/src/internal/runner"
	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/config"
	"github.com/arasaka-range/ad-check-debug/src/pkg/report"
	"github.com/arasaka-range/ad-check-debug/src/pkg/store"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "run",
})

func run(cmd *cobra.Command, opts *runner.Options) error {
	if err := prepareOptions(cmd, opts); err != nil {
		return err
	}
	logger.WithField("opts", opts).Debug("Running..")

	orch := compose.NewClient(compose.NewExecRunner(), opts.ComposeFile)

	st, closeStore, err := newStore(orch, opts)
	if err != nil {
		return err
	}
	defer closeStore()

	dbg, err := runner.NewRunnerDebug(cmd.Context(), opts, orch, st, report.NewWriter(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	if err := dbg.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := dbg.Process(); err != nil {
		return fmt.Errorf("failed to process: %w", err)
	}
	return nil
}

// prepareOptions merges the config file under explicit flags and validates
// the result. Shared by the root and rebuild commands.
func prepareOptions(cmd *cobra.Command, opts *runner.Options) error {
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if opts.ConfigFile != "" {
		f, err := config.Load(opts.ConfigFile)
		if err != nil {
			return fmt.Errorf("invalid config file: %w", err)
		}
		opts.ApplyFile(f, cmd.Flags().Changed)
	}

	if err := validateOptions(opts); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func newStore(orch compose.Orchestrator, opts *runner.Options) (store.Store, func(), error) {
	if opts.DBDSN != "" {
		st, err := store.NewSQLStore(opts.DBDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open direct database connection: %w", err)
		}
		return st, func() { _ = st.Close() }, nil
	}
	st := store.NewComposeStore(orch, opts.DBService, opts.DBUser, opts.DBPassword, opts.DBName)
	return st, func() {}, nil
}

func validateOptions(opts *runner.Options) error {
	if opts.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	if opts.Port < 1 || opts.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got: %d", opts.Port)
	}
	if opts.User == "" {
		return fmt.Errorf("user must not be empty")
	}
	if opts.Domain == "" {
		return fmt.Errorf("domain must not be empty")
	}
	if opts.BaseDN == "" {
		return fmt.Errorf("base-dn must not be empty")
	}
	return nil
}
