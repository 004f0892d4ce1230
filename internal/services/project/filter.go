package project

import (
	"strings"
	"time"

	"github.com/freelancehub/backend/internal/models"
)

// FilterOptions narrows a project list. Zero-value fields are no-ops and
// both filters are ANDed.
type FilterOptions struct {
	// Case-insensitive substring match on the title.
	TitleContains string
	// Inclusive range on the update timestamp. Both must be set for the
	// range to apply.
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
}

// Filter returns the projects matching opts, preserving input order.
func Filter(projects []models.Project, opts FilterOptions) []models.Project {
	needle := strings.ToLower(strings.TrimSpace(opts.TitleContains))
	ranged := opts.UpdatedFrom != nil && opts.UpdatedTo != nil

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if needle != "" && !strings.Contains(strings.ToLower(p.Title), needle) {
			continue
		}
		if ranged && (p.UpdatedAt.Before(*opts.UpdatedFrom) || p.UpdatedAt.After(*opts.UpdatedTo)) {
			continue
		}
		out = append(out, p)
	}
	return out
}
