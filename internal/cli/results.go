package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/portfolio-labs/ptrack/internal/lastresults"
	"github.com/portfolio-labs/ptrack/internal/model"
	"github.com/portfolio-labs/ptrack/internal/store"
)

var errNotProjectListing = errors.New("not a project listing")

// saveLastResults records a numbered listing for follow-up commands. A
// failure is returned as a warning; the listing itself already succeeded.
func saveLastResults(source lastresults.Source, query string, results []model.Result) []Warning {
	lr, err := lastresults.NewFromResults(source, query, results)
	if err == nil {
		err = lastresults.Write(getDataDir(), lr)
	}
	if err != nil {
		logger.Warn("failed to save last results", zap.Error(err))
		return []Warning{{Code: WarnResultsNotSaved, Message: err.Error()}}
	}
	return nil
}

func toResults[T model.Result](items []T) []model.Result {
	out := make([]model.Result, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// parseResultNumber reads "3" or "#3" as a listing number.
func parseResultNumber(ref string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(ref), "#"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// resolveProject finds a project by key, ID or number from the last
// project or deadline listing. A plain number that is not a listing row is
// tried as a key.
func resolveProject(ctx context.Context, s *store.Store, ref string) (model.Project, error) {
	if n, ok := parseResultNumber(ref); ok {
		lr, err := lastresults.Read(getDataDir())
		switch {
		case err == nil && (lr.Source == lastresults.SourceProjects || lr.Source == lastresults.SourceDeadlines):
			results, err := lr.GetByNumbers([]int{n})
			if err != nil {
				return model.Project{}, err
			}
			p, ok := results[0].(model.Project)
			if !ok {
				return model.Project{}, fmt.Errorf("result %d is a %s: %w", n, results[0].GetKind(), errNotProjectListing)
			}
			return s.GetProject(ctx, p.ID)
		case err != nil && !errors.Is(err, lastresults.ErrNoLastResults):
			return model.Project{}, err
		case strings.HasPrefix(strings.TrimSpace(ref), "#"):
			if err == nil {
				return model.Project{}, fmt.Errorf("last listing was %s: %w", lr.Source, errNotProjectListing)
			}
			return model.Project{}, err
		}
	}
	return s.GetProject(ctx, strings.TrimSpace(ref))
}

// projectLookupErrorCode picks the code for a resolveProject failure.
func projectLookupErrorCode(err error) string {
	if errors.Is(err, lastresults.ErrNoLastResults) || errors.Is(err, lastresults.ErrNumberOutOfRange) {
		return lastResultsErrorCode(err)
	}
	if errors.Is(err, errNotProjectListing) {
		return ErrInvalidInput
	}
	return storeErrorCode(err)
}
