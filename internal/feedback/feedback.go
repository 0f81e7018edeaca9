package feedback

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"courselens/internal/llm"
	"courselens/internal/store"
)

// Report is the combined feedback view for one module: quantitative rating
// aggregation, raw comments, and (when the LLM collaborator is configured)
// structured insights.
type Report struct {
	ModuleID     int64             `json:"module_id"`
	ModuleName   *string           `json:"module_name"`
	Quantitative store.RatingStats `json:"quantitative"`
	Comments     []string          `json:"comments"`
	Insights     *Insights         `json:"insights,omitempty"`
}

// Reporter builds module and course feedback reports. provider may be nil,
// in which case reports carry no insights.
type Reporter struct {
	db       *store.DB
	provider llm.Provider
	stats    *gocache.Cache
}

// NewReporter creates a feedback reporter
func NewReporter(db *store.DB, provider llm.Provider) *Reporter {
	return &Reporter{
		db:       db,
		provider: provider,
		stats:    gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// ModuleReport builds the feedback report for one module
func (r *Reporter) ModuleReport(ctx context.Context, moduleID int64) (*Report, error) {
	stats, err := r.ratingStats(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	comments, err := r.db.ModuleComments(ctx, moduleID)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ModuleID:     moduleID,
		Quantitative: stats,
		Comments:     comments,
	}

	if name, ok, err := r.db.ModuleName(ctx, moduleID); err != nil {
		return nil, err
	} else if ok {
		report.ModuleName = &name
	}

	if r.provider != nil && len(comments) > 0 {
		report.Insights = r.summarize(ctx, comments, report.ModuleName, stats)
	}

	return report, nil
}

// CourseReport builds the module feedback report for every module that has
// completions, keyed by module id.
func (r *Reporter) CourseReport(ctx context.Context) (map[int64]*Report, error) {
	ids, err := r.db.ModuleIDsWithCompletions(ctx)
	if err != nil {
		return nil, err
	}

	reports := make(map[int64]*Report, len(ids))
	for _, id := range ids {
		report, err := r.ModuleReport(ctx, id)
		if err != nil {
			return nil, err
		}
		reports[id] = report
	}
	return reports, nil
}

// ratingStats memoizes the aggregation query so a course-wide report does
// not re-run it for modules already seen.
func (r *Reporter) ratingStats(ctx context.Context, moduleID int64) (store.RatingStats, error) {
	key := fmt.Sprintf("stats:%d", moduleID)
	if cached, found := r.stats.Get(key); found {
		return cached.(store.RatingStats), nil
	}

	stats, err := r.db.ModuleRatingStats(ctx, moduleID)
	if err != nil {
		return store.RatingStats{}, err
	}
	r.stats.Set(key, stats, gocache.DefaultExpiration)
	return stats, nil
}
