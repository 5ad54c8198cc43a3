package store

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/arasaka-range/ad-check-debug/src/pkg/models"
)

var logger = log.WithField("package", "store")

// Store is the relational-store surface the runner consumes. Two
// implementations exist: one shelling into the database container's mysql
// client, one over a direct driver connection when --db-dsn is given.
type Store interface {
	// MatcherRows returns the environments rows owned by services whose
	// check_name is CheckName, raw value and hex expansion included.
	MatcherRows(ctx context.Context) ([]models.MatcherRow, error)

	// SetMatcher overwrites matching_content for those same rows.
	SetMatcher(ctx context.Context, content string) error

	// RecentChecks returns the most recent check executions, newest first,
	// output truncated to 300 characters by the query itself.
	RecentChecks(ctx context.Context, limit int) ([]models.CheckRow, error)
}
