package runner

import (
	"context"
	"fmt"

	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/report"
)

// Image and service names of the scoring stack. The base image must be
// rebuilt before the images that layer on top of it.
var (
	stackImages = []string{
		"scoringengine/base",
		"scoringengine/engine",
		"scoringengine/worker",
		"scoringengine/web",
	}
	baseService       = "base"
	dependentServices = []string{"engine", "worker", "web"}
)

// overwriteDBEnv tells the stack to re-seed the database on startup.
const overwriteDBEnv = "SCORINGENGINE_OVERWRITE_DB=true"

// RunnerRebuild tears the stack down, rebuilds all images without cache,
// and brings the stack back up with a fresh database.
type RunnerRebuild struct {
	RunnerBase

	Stack compose.StackManager
}

var _ RunnerInterface = (*RunnerRebuild)(nil)

func NewRunnerRebuild(
	ctx context.Context,
	options *Options,
	orch compose.Orchestrator,
	stack compose.StackManager,
	rep *report.Writer,
) (*RunnerRebuild, error) {
	baseRunner, err := NewRunnerBase(ctx, options, orch, rep)
	if err != nil {
		return nil, err
	}
	return &RunnerRebuild{
		RunnerBase: *baseRunner,
		Stack:      stack,
	}, nil
}

func (r *RunnerRebuild) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}
	if r.Stack == nil {
		return fmt.Errorf("stack manager is required")
	}
	return nil
}

func (r *RunnerRebuild) Process() error {
	logger.Info("Rebuild: starting...")

	r.Report.Section("Tearing down stack")
	output, err := r.Stack.Down(r.Context, true)
	if err != nil {
		r.Report.Raw(output)
		return err
	}
	r.Report.Raw(output)

	r.Report.Section("Removing images")
	for _, image := range stackImages {
		output, err := r.Stack.RemoveImage(r.Context, image)
		if err != nil {
			// a missing image is the common case after a partial rebuild
			logger.WithError(err).WithField("image", image).Warn("Could not remove image")
			r.Report.Warn("could not remove %s: %v", image, err)
			continue
		}
		r.Report.Raw(output)
	}

	r.Report.Section("Rebuilding base image (no cache)")
	output, err = r.Stack.Build(r.Context, true, baseService)
	if err != nil {
		r.Report.Raw(output)
		return err
	}
	r.Report.Raw(output)

	r.Report.Section("Rebuilding dependent images (no cache)")
	output, err = r.Stack.Build(r.Context, true, dependentServices...)
	if err != nil {
		r.Report.Raw(output)
		return err
	}
	r.Report.Raw(output)

	r.Report.Section("Bringing stack up")
	output, err = r.Stack.Up(r.Context, true, overwriteDBEnv)
	if err != nil {
		r.Report.Raw(output)
		return err
	}
	r.Report.Raw(output)

	r.Report.OK("stack rebuilt, database will be overwritten on startup")
	return nil
}
