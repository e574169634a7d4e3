// internal/app/features/registry/statistics.go
package registry

import (
	"context"

	memberstore "github.com/sroam/sroregistry/internal/app/store/members"
	"github.com/sroam/sroregistry/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// TopRegionsLimit is the number of regions reported by Statistics.
const TopRegionsLimit = 10

// StatusCounts is the per-status breakdown.
type StatusCounts struct {
	Active    int64 `json:"active"`
	Excluded  int64 `json:"excluded"`
	Suspended int64 `json:"suspended"`
}

// Statistics is the registry summary returned by GET /registry/statistics.
type Statistics struct {
	Total    int64                     `json:"total"`
	ByStatus StatusCounts              `json:"byStatus"`
	ByRegion []memberstore.RegionCount `json:"byRegion"`
}

// Statistics computes totals on every call; the independent counts run concurrently.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var st Statistics
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.Total, err = s.members.Count(gctx, bson.M{})
		return err
	})
	g.Go(func() (err error) {
		st.ByStatus.Active, err = s.members.CountByStatus(gctx, models.MemberStatusActive)
		return err
	})
	g.Go(func() (err error) {
		st.ByStatus.Excluded, err = s.members.CountByStatus(gctx, models.MemberStatusExcluded)
		return err
	})
	g.Go(func() (err error) {
		st.ByStatus.Suspended, err = s.members.CountByStatus(gctx, models.MemberStatusSuspended)
		return err
	})
	g.Go(func() (err error) {
		st.ByRegion, err = s.members.TopRegions(gctx, TopRegionsLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		return Statistics{}, err
	}
	return st, nil
}
