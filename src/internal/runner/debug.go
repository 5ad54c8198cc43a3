package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/directory"
	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
	"github.com/arasaka-range/ad-check-debug/src/pkg/report"
	"github.com/arasaka-range/ad-check-debug/src/pkg/store"
)

// logTail is how many matching worker log lines the report shows.
const logTail = 20

// ProbeFunc is the direct-LDAP probe signature, injectable for tests.
type ProbeFunc func(url, bindDN, password, baseDN, user string) (*models.ProbeResult, error)

// RunnerDebug runs the diagnostic sequence for ActiveDirectoryCheck.
type RunnerDebug struct {
	RunnerBase

	Store store.Store
	Probe ProbeFunc
}

var _ RunnerInterface = (*RunnerDebug)(nil)

func NewRunnerDebug(
	ctx context.Context,
	options *Options,
	orch compose.Orchestrator,
	st store.Store,
	rep *report.Writer,
) (*RunnerDebug, error) {
	baseRunner, err := NewRunnerBase(ctx, options, orch, rep)
	if err != nil {
		return nil, err
	}
	return &RunnerDebug{
		RunnerBase: *baseRunner,
		Store:      st,
		Probe:      directory.Probe,
	}, nil
}

func (r *RunnerDebug) Initialize() error {
	if err := r.RunnerBase.Initialize(); err != nil {
		return err
	}
	if r.Store == nil {
		return fmt.Errorf("store is required")
	}
	return nil
}

// Process runs every report section in order. Fail-fast: any unexpected
// command failure aborts the run, except the log excerpt whose empty result
// is an expected condition.
func (r *RunnerDebug) Process() error {
	logger.Info("Process: starting...")

	if err := r.serviceStatus(); err != nil {
		return err
	}

	if !r.Options.NoLogs {
		r.workerLogs()
	}

	output, err := r.ldapSearch()
	if err != nil {
		return err
	}

	r.accountScan(output)

	if r.Options.DirectProbe {
		r.directProbe()
	}

	if err := r.matcherRows("Matcher configuration (current)"); err != nil {
		return err
	}

	if err := r.applyFixes(); err != nil {
		return err
	}

	if err := r.matcherRows("Matcher configuration (post-fix)"); err != nil {
		return err
	}

	return r.recentChecks()
}

func (r *RunnerDebug) serviceStatus() error {
	r.Report.Section("Service status")
	output, err := r.Compose.PS(r.Context)
	if err != nil {
		r.Report.Raw(output)
		return fmt.Errorf("service status: %w", err)
	}
	r.Report.Raw(output)
	return nil
}

// workerLogs shows the tail of worker log lines that belong to this check
// type. Nothing here is fatal: no matching lines is the expected outcome on
// a quiet stack, and an unreadable log is reported and skipped.
func (r *RunnerDebug) workerLogs() {
	r.Report.Section(fmt.Sprintf("Worker logs (last %d matching lines)", logTail))
	logs, err := r.Compose.Logs(r.Context, WorkerService)
	if err != nil {
		logger.WithError(err).Warn("Could not fetch worker logs")
		r.Report.Warn("could not fetch worker logs: %v", err)
		return
	}
	matched := directory.FilterLogLines(logs, directory.LogNeedles, logTail)
	if len(matched) == 0 {
		r.Report.Info("no worker log lines mention %s", store.CheckName)
		return
	}
	r.Report.Raw(strings.Join(matched, "\n"))
}

// ldapSearch replays the scorer's exact ldapsearch invocation from inside
// the worker container, captures the output to a temp file, and echoes it.
func (r *RunnerDebug) ldapSearch() (string, error) {
	r.Report.Section("ldapsearch (from worker container)")
	r.Report.Info("URL: %s", r.Options.LDAPURL())
	r.Report.Info("Bind DN: %s", r.Options.BindDN())
	r.Report.Info("Base DN: %s", r.Options.BaseDN)

	args := directory.SearchArgs(r.Options.LDAPURL(), r.Options.BindDN(), r.Options.Password, r.Options.BaseDN)
	output, err := r.Compose.Exec(r.Context, WorkerService, args...)

	if path, werr := writeCapture(output); werr != nil {
		logger.WithError(werr).Warn("Could not write capture file")
	} else {
		r.Report.Info("output captured to %s", path)
	}
	r.Report.Raw(output)

	if err != nil {
		return output, fmt.Errorf("ldapsearch in worker: %w", err)
	}
	return output, nil
}

func writeCapture(output string) (string, error) {
	f, err := os.CreateTemp("", "ad_check_ldapsearch_*.txt")
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(output); err != nil {
		return "", err
	}
	return f.Name(), nil
}

func (r *RunnerDebug) accountScan(output string) {
	r.Report.Section("Account scan")
	line := directory.AccountLine(r.Options.User)
	if directory.ContainsAccount(output, r.Options.User) {
		r.Report.OK("found %q in ldapsearch output", line)
	} else {
		r.Report.Fail("%q not present in ldapsearch output", line)
	}
}

// directProbe binds from the debug host itself. A failure here is a
// finding, not an abort: it means the DC is unreachable from outside the
// worker too.
func (r *RunnerDebug) directProbe() {
	r.Report.Section("Direct LDAP probe (from this host)")
	result, err := r.Probe(r.Options.LDAPURL(), r.Options.BindDN(), r.Options.Password, r.Options.BaseDN, r.Options.User)
	if err != nil {
		r.Report.Fail("direct probe failed: %v", err)
		return
	}
	r.Report.OK("bind and search succeeded, %d person entries", result.Entries)
	if result.FoundAccount {
		r.Report.OK("account %s present in directory", r.Options.User)
	} else {
		r.Report.Warn("account %s not among returned entries", r.Options.User)
	}
}

func (r *RunnerDebug) matcherRows(title string) error {
	r.Report.Section(title)
	rows, err := r.Store.MatcherRows(r.Context)
	if err != nil {
		return fmt.Errorf("matcher query: %w", err)
	}
	if len(rows) == 0 {
		r.Report.Info("no environments rows for %s", store.CheckName)
		return nil
	}
	header := []string{"env_id", "service", "matching_content", "hex"}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		table = append(table, []string{
			row.EnvironmentID, row.ServiceName, row.MatchingContent, row.MatchingContentHex,
		})
	}
	r.Report.Table(header, table)
	return nil
}

// applyFixes issues the requested matcher updates. Both flags together are
// accepted and applied in order, so the regex form ends up stored last.
func (r *RunnerDebug) applyFixes() error {
	if r.Options.FixMatcher {
		content := store.LiteralMatcher(r.Options.User)
		if err := r.Store.SetMatcher(r.Context, content); err != nil {
			return fmt.Errorf("fixing matcher: %w", err)
		}
		r.Report.OK("matching_content set to literal %q", content)
	}
	if r.Options.FixMatcherRegex {
		content := store.RegexMatcher(r.Options.User)
		if err := r.Store.SetMatcher(r.Context, content); err != nil {
			return fmt.Errorf("fixing matcher (regex): %w", err)
		}
		r.Report.OK("matching_content set to regex %q", content)
	}
	return nil
}

func (r *RunnerDebug) recentChecks() error {
	r.Report.Section("Recent check results")
	checks, err := r.Store.RecentChecks(r.Context, 5)
	if err != nil {
		return fmt.Errorf("recent checks query: %w", err)
	}
	if len(checks) == 0 {
		r.Report.Info("no checks recorded for %s yet", store.CheckName)
		return nil
	}
	for _, c := range checks {
		r.Report.Info("check %s: result=%s reason=%s", c.ID, c.Result, c.Reason)
		r.Report.Raw("  command: " + c.Command + "\n")
		r.Report.Raw("  output: " + c.Output + "\n")
	}
	return nil
}
