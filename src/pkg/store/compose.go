package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/arasaka-range/ad-check-debug/src/pkg/compose"
	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
)

// ComposeStore issues SQL through the mysql client inside the database
// service container, the same path the deployed engine uses.
type ComposeStore struct {
	orch     compose.Orchestrator
	service  string
	user     string
	password string
	database string
}

var _ Store = (*ComposeStore)(nil)

func NewComposeStore(orch compose.Orchestrator, service, user, password, database string) *ComposeStore {
	return &ComposeStore{
		orch:     orch,
		service:  service,
		user:     user,
		password: password,
		database: database,
	}
}

// query runs sqlText in batch mode without the header row, so the output is
// plain tab-separated values.
func (s *ComposeStore) query(ctx context.Context, sqlText string) ([][]string, error) {
	logger.WithField("sql", sqlText).Debug("Running query via container mysql client")
	argv := []string{
		"mysql", "--batch", "--skip-column-names",
		"-u", s.user, "-p" + s.password,
		s.database, "-e", sqlText,
	}
	output, err := s.orch.Exec(ctx, s.service, argv...)
	if err != nil {
		return nil, fmt.Errorf("mysql in %s: %w", s.service, err)
	}
	return parseBatchOutput(output), nil
}

func (s *ComposeStore) MatcherRows(ctx context.Context) ([]models.MatcherRow, error) {
	rows, err := s.query(ctx, matcherSelect())
	if err != nil {
		return nil, err
	}
	var out []models.MatcherRow
	for _, row := range rows {
		if len(row) < 4 {
			return nil, fmt.Errorf("unexpected matcher row shape: %q", row)
		}
		out = append(out, models.MatcherRow{
			EnvironmentID:      row[0],
			ServiceName:        row[1],
			MatchingContent:    row[2],
			MatchingContentHex: row[3],
		})
	}
	return out, nil
}

func (s *ComposeStore) SetMatcher(ctx context.Context, content string) error {
	_, err := s.query(ctx, matcherUpdate(content))
	return err
}

func (s *ComposeStore) RecentChecks(ctx context.Context, limit int) ([]models.CheckRow, error) {
	rows, err := s.query(ctx, recentChecksSelect(limit))
	if err != nil {
		return nil, err
	}
	var out []models.CheckRow
	for _, row := range rows {
		if len(row) < 5 {
			return nil, fmt.Errorf("unexpected checks row shape: %q", row)
		}
		out = append(out, models.CheckRow{
			ID:      row[0],
			Result:  row[1],
			Reason:  row[2],
			Command: row[3],
			Output:  row[4],
		})
	}
	return out, nil
}

// parseBatchOutput splits mysql --batch output into unescaped cells. Batch
// mode escapes tab, newline, NUL and backslash inside values, so splitting
// on raw separators first is safe.
func parseBatchOutput(output string) [][]string {
	var rows [][]string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cells := strings.Split(line, "\t")
		row := make([]string, len(cells))
		for i, cell := range cells {
			row[i] = unescapeBatch(cell)
		}
		rows = append(rows, row)
	}
	return rows
}

func unescapeBatch(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\':
			b.WriteByte('\\')
		default:
			b.WriteByte('\\')
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
