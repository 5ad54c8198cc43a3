package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
)

// fakeOrchestrator records Exec calls and plays back canned output.
type fakeOrchestrator struct {
	execArgv []string
	output   string
	err      error
}

func (f *fakeOrchestrator) PS(ctx context.Context) (string, error) { return "", nil }
func (f *fakeOrchestrator) Logs(ctx context.Context, service string) (string, error) {
	return "", nil
}
func (f *fakeOrchestrator) Exec(ctx context.Context, service string, argv ...string) (string, error) {
	f.execArgv = append([]string{service}, argv...)
	return f.output, f.err
}

func TestParseBatchOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   [][]string
	}{
		{
			name:   "empty",
			output: "",
			want:   nil,
		},
		{
			name:   "single row",
			output: "3\tad\tsAMAccountName: sarasaka\t73414D\n",
			want:   [][]string{{"3", "ad", "sAMAccountName: sarasaka", "73414D"}},
		},
		{
			name:   "escaped newline and tab inside a value",
			output: "1\tok\treason\tcmd\tline1\\nline2\\tend\n",
			want:   [][]string{{"1", "ok", "reason", "cmd", "line1\nline2\tend"}},
		},
		{
			name:   "escaped backslash survives",
			output: "3\tad\tsAMAccountName:\\\\s*sarasaka\tHEX\n",
			want:   [][]string{{"3", "ad", `sAMAccountName:\s*sarasaka`, "HEX"}},
		},
		{
			name:   "blank lines skipped",
			output: "1\ta\tb\tc\n\n2\td\te\tf\n",
			want:   [][]string{{"1", "a", "b", "c"}, {"2", "d", "e", "f"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseBatchOutput(tt.output)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseBatchOutput() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComposeStoreMatcherRows(t *testing.T) {
	orch := &fakeOrchestrator{
		output: "3\tad\tsAMAccountName: sarasaka\t73414D4163636F756E744E616D653A207361726173616B61\n",
	}
	st := NewComposeStore(orch, "mysql", "root", "toor", "scoring_engine")

	rows, err := st.MatcherRows(context.Background())
	if err != nil {
		t.Fatalf("MatcherRows() error = %v", err)
	}

	want := []models.MatcherRow{{
		EnvironmentID:      "3",
		ServiceName:        "ad",
		MatchingContent:    "sAMAccountName: sarasaka",
		MatchingContentHex: "73414D4163636F756E744E616D653A207361726173616B61",
	}}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("MatcherRows() = %v, want %v", rows, want)
	}

	// the query must go through the database service's batch-mode client
	if orch.execArgv[0] != "mysql" {
		t.Errorf("Exec service = %q, want mysql", orch.execArgv[0])
	}
	joined := strings.Join(orch.execArgv, " ")
	for _, fragment := range []string{"--batch", "--skip-column-names", "-u root", "-ptoor", "scoring_engine", "-e"} {
		if !strings.Contains(joined, fragment) {
			t.Errorf("mysql argv missing %q: %v", fragment, orch.execArgv)
		}
	}
}

func TestComposeStoreExecFailure(t *testing.T) {
	orch := &fakeOrchestrator{err: fmt.Errorf("exec in mysql: boom")}
	st := NewComposeStore(orch, "mysql", "root", "toor", "scoring_engine")

	if _, err := st.MatcherRows(context.Background()); err == nil {
		t.Fatal("MatcherRows() expected error, got nil")
	}
	if err := st.SetMatcher(context.Background(), "x"); err == nil {
		t.Fatal("SetMatcher() expected error, got nil")
	}
}

func TestComposeStoreRecentChecks(t *testing.T) {
	orch := &fakeOrchestrator{
		output: "12\tfalse\tTimeout\tldapsearch -x ...\tresult: 0 Success\\ntruncated\n" +
			"11\ttrue\tNULL\tldapsearch -x ...\tsAMAccountName: sarasaka\n",
	}
	st := NewComposeStore(orch, "mysql", "root", "toor", "scoring_engine")

	checks, err := st.RecentChecks(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentChecks() error = %v", err)
	}
	if len(checks) != 2 {
		t.Fatalf("RecentChecks() returned %d rows, want 2", len(checks))
	}
	if checks[0].ID != "12" || checks[0].Result != "false" {
		t.Errorf("first check = %+v", checks[0])
	}
	if !strings.Contains(checks[0].Output, "\n") {
		t.Errorf("escaped newline not decoded: %q", checks[0].Output)
	}
}
