package project

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/freelancehub/backend/internal/models"
)

func titled(title string, updated time.Time) models.Project {
	return models.Project{Title: title, UpdatedAt: updated}
}

func titles(projects []models.Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Title)
	}
	return out
}

func TestFilterTitleCaseInsensitive(t *testing.T) {
	now := time.Now()
	in := []models.Project{
		titled("Build API", now),
		titled("Design Logo", now),
		titled("api gateway", now),
	}

	got := Filter(in, FilterOptions{TitleContains: "api"})
	assert.Equal(t, []string{"Build API", "api gateway"}, titles(got))
}

func TestFilterDateRangeInclusive(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []models.Project{
		titled("before", base.Add(-time.Hour)),
		titled("at start", base),
		titled("inside", base.Add(30*time.Minute)),
		titled("at end", base.Add(time.Hour)),
		titled("after", base.Add(2*time.Hour)),
	}

	from := base
	to := base.Add(time.Hour)
	got := Filter(in, FilterOptions{UpdatedFrom: &from, UpdatedTo: &to})
	assert.Equal(t, []string{"at start", "inside", "at end"}, titles(got))
}

func TestFilterCombinedAndNoOps(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []models.Project{
		titled("Build API", base),
		titled("api gateway", base.Add(48*time.Hour)),
		titled("Design Logo", base),
	}

	// Both filters AND together.
	from := base.Add(-time.Minute)
	to := base.Add(time.Minute)
	got := Filter(in, FilterOptions{TitleContains: "api", UpdatedFrom: &from, UpdatedTo: &to})
	assert.Equal(t, []string{"Build API"}, titles(got))

	// Absent filters are no-ops and order is preserved.
	got = Filter(in, FilterOptions{})
	assert.Equal(t, []string{"Build API", "api gateway", "Design Logo"}, titles(got))

	// A range missing one bound does not apply.
	got = Filter(in, FilterOptions{UpdatedFrom: &from})
	assert.Len(t, got, 3)
}
