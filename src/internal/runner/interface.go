package runner

type RunnerInterface interface {
	// Initialize verifies collaborators and resolves how the container
	// orchestrator will be invoked.
	Initialize() error

	// Main routine to process the runner
	Process() error
}
