package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
)

// SQLStore issues the same SQL text over a direct driver connection, for
// stacks whose database port is reachable from the debug host.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening mysql connection: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) MatcherRows(ctx context.Context) ([]models.MatcherRow, error) {
	rows, err := s.db.QueryContext(ctx, matcherSelect())
	if err != nil {
		return nil, fmt.Errorf("querying matcher rows: %w", err)
	}
	defer rows.Close()

	var out []models.MatcherRow
	for rows.Next() {
		var r models.MatcherRow
		var content, hex sql.NullString
		if err := rows.Scan(&r.EnvironmentID, &r.ServiceName, &content, &hex); err != nil {
			return nil, fmt.Errorf("scanning matcher row: %w", err)
		}
		r.MatchingContent = content.String
		r.MatchingContentHex = hex.String
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetMatcher(ctx context.Context, content string) error {
	if _, err := s.db.ExecContext(ctx, matcherUpdate(content)); err != nil {
		return fmt.Errorf("updating matching_content: %w", err)
	}
	return nil
}

func (s *SQLStore) RecentChecks(ctx context.Context, limit int) ([]models.CheckRow, error) {
	rows, err := s.db.QueryContext(ctx, recentChecksSelect(limit))
	if err != nil {
		return nil, fmt.Errorf("querying recent checks: %w", err)
	}
	defer rows.Close()

	var out []models.CheckRow
	for rows.Next() {
		var r models.CheckRow
		var reason, command, output sql.NullString
		if err := rows.Scan(&r.ID, &r.Result, &reason, &command, &output); err != nil {
			return nil, fmt.Errorf("scanning checks row: %w", err)
		}
		r.Reason = reason.String
		r.Command = command.String
		r.Output = output.String
		out = append(out, r)
	}
	return out, rows.Err()
}
