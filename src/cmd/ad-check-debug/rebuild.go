package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arasaka-range/ad-check-debug/src/internal/runner"
	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/report"
)

func newRebuildCmd(opts *runner.Options) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Tear down, rebuild all images without cache, and redeploy",
		Long: `rebuild runs the full redeploy recipe: compose down with orphan removal,
removal of the stack images, a no-cache rebuild of the base image and the
three images layered on it, then compose up with database overwrite enabled.
The scoring database is wiped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRebuild(cmd, opts, yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Skip the confirmation prompt")

	return cmd
}

func runRebuild(cmd *cobra.Command, opts *runner.Options, yes bool) error {
	if err := prepareOptions(cmd, opts); err != nil {
		return err
	}

	if !yes && !confirm("This wipes the scoring database. Continue? [y/N] ") {
		fmt.Println("aborted")
		return nil
	}

	orch := compose.NewClient(compose.NewExecRunner(), opts.ComposeFile)

	reb, err := runner.NewRunnerRebuild(cmd.Context(), opts, orch, orch, report.NewWriter(os.Stdout))
	if err != nil {
		return fmt.Errorf("failed to create runner: %w", err)
	}
	if err := reb.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	if err := reb.Process(); err != nil {
		return fmt.Errorf("failed to process: %w", err)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
