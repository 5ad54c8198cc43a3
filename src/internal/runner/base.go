package runner

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/report"
)

var logger *log.Entry = log.New().WithFields(log.Fields{
	"package": "runner",
})

type RunnerBase struct {
	Context context.Context
	Options *Options

	Compose compose.Orchestrator
	Report  *report.Writer
}

func NewRunnerBase(
	ctx context.Context,
	options *Options,
	orch compose.Orchestrator,
	rep *report.Writer,
) (*RunnerBase, error) {
	runner := &RunnerBase{
		Context: ctx,
		Options: options,
		Compose: orch,
		Report:  rep,
	}
	return runner, nil
}

func (r *RunnerBase) Initialize() error {
	logger.Info("Initializing runner: starting...")

	if r.Compose == nil || r.Report == nil {
		return fmt.Errorf("orchestrator and report writer are required")
	}

	// The probe is best effort; a wrong guess surfaces on the first real
	// compose command.
	if c, ok := r.Compose.(*compose.Client); ok {
		logger.Info("Initializing runner: resolving compose invocation")
		c.ResolvePrefix(r.Context)
	}

	logger.Info("Initializing runner: done.")
	return nil
}
