package risk

import (
	"context"
	"errors"
	"fmt"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
	"github.com/group2dev/landmark-api/internal/pkg/viewmodel"
)

// OverviewMonths are the months covered by the admin overview.
var OverviewMonths = []int{1, 2, 3, 4, 5}

var (
	ErrLandmarkNotFound = errors.New("landmark not found")
	ErrRiskDataNotFound = errors.New("risk data not found")
)

// Result is the risk of one landmark for one month.
type Result struct {
	LandmarkID           uint    `json:"landmarkId"`
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	RiskScore            float64 `json:"riskScore"`
	RiskLevelDescription string  `json:"riskLevelDescription"`
}

// MonthlyRisk is one cell of the monthly overview.
type MonthlyRisk struct {
	RiskScore float64 `json:"riskScore"`
	RiskLevel string  `json:"riskLevel"`
}

// LandmarkMonthly is a landmark with its per-month risk; months without both
// indices map to null.
type LandmarkMonthly struct {
	viewmodel.Landmark
	MonthlyData map[int]*MonthlyRisk `json:"monthlyData"`
}

type Service struct {
	landmarks repository.LandmarkRepository
	rasters   repository.RasterRepository
}

func NewService(landmarks repository.LandmarkRepository, rasters repository.RasterRepository) *Service {
	return &Service{landmarks: landmarks, rasters: rasters}
}

// ByMonth scores a landmark for one month. Both NDVI and NDMI means are required.
func (s *Service) ByMonth(ctx context.Context, landmarkID uint, year, month int) (*Result, error) {
	exists, err := s.landmarks.Exists(ctx, landmarkID)
	if err != nil {
		return nil, fmt.Errorf("check landmark %d: %w", landmarkID, err)
	}
	if !exists {
		return nil, ErrLandmarkNotFound
	}

	stats, err := s.rasters.StatsByMonth(ctx, landmarkID, year, month)
	if err != nil {
		return nil, fmt.Errorf("load raster stats: %w", err)
	}
	ndvi, ndmi, ok := indexMeans(stats)
	if !ok {
		return nil, fmt.Errorf("%w: landmark %d %04d-%02d", ErrRiskDataNotFound, landmarkID, year, month)
	}

	score := Score(ndvi, ndmi)
	return &Result{
		LandmarkID:           landmarkID,
		Year:                 year,
		Month:                month,
		RiskScore:            score,
		RiskLevelDescription: Level(score),
	}, nil
}

// MonthlyOverview pages through all landmarks with their January to May risk.
// Stats for the whole page are loaded with one query.
func (s *Service) MonthlyOverview(ctx context.Context, year, page, size int) (viewmodel.PageResponse[LandmarkMonthly], error) {
	total, err := s.landmarks.Count(ctx)
	if err != nil {
		return viewmodel.PageResponse[LandmarkMonthly]{}, fmt.Errorf("count landmarks: %w", err)
	}
	landmarks, err := s.landmarks.ListPage(ctx, page*size, size)
	if err != nil {
		return viewmodel.PageResponse[LandmarkMonthly]{}, fmt.Errorf("list landmarks: %w", err)
	}

	ids := make([]uint, 0, len(landmarks))
	for _, l := range landmarks {
		ids = append(ids, l.ID)
	}
	stats, err := s.rasters.StatsForMonths(ctx, ids, year, OverviewMonths)
	if err != nil {
		return viewmodel.PageResponse[LandmarkMonthly]{}, fmt.Errorf("load raster stats: %w", err)
	}

	grouped := make(map[uint]map[int][]models.RasterStat, len(ids))
	for _, st := range stats {
		if grouped[st.LandmarkID] == nil {
			grouped[st.LandmarkID] = map[int][]models.RasterStat{}
		}
		grouped[st.LandmarkID][st.Month] = append(grouped[st.LandmarkID][st.Month], st)
	}

	content := make([]LandmarkMonthly, 0, len(landmarks))
	for i := range landmarks {
		monthly := make(map[int]*MonthlyRisk, len(OverviewMonths))
		for _, month := range OverviewMonths {
			monthly[month] = nil
			if ndvi, ndmi, ok := indexMeans(grouped[landmarks[i].ID][month]); ok {
				score := Score(ndvi, ndmi)
				monthly[month] = &MonthlyRisk{RiskScore: score, RiskLevel: Level(score)}
			}
		}
		content = append(content, LandmarkMonthly{
			Landmark:    viewmodel.FromLandmark(&landmarks[i]),
			MonthlyData: monthly,
		})
	}

	return viewmodel.NewPage(content, page, size, total), nil
}

func indexMeans(stats []models.RasterStat) (ndvi, ndmi float64, ok bool) {
	var haveNDVI, haveNDMI bool
	for _, st := range stats {
		if st.ValMean == nil {
			continue
		}
		switch st.IndexType {
		case models.IndexNDVI:
			ndvi, haveNDVI = *st.ValMean, true
		case models.IndexNDMI:
			ndmi, haveNDMI = *st.ValMean, true
		}
	}
	return ndvi, ndmi, haveNDVI && haveNDMI
}
