// Package repositorytest provides in-memory repositories for tests.
package repositorytest

import (
	"context"
	"slices"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/group2dev/landmark-api/app/models"
	"github.com/group2dev/landmark-api/app/repository"
)

// NewRepositories wires a full in-memory repository set.
func NewRepositories() (*repository.Repositories, *Store) {
	s := &Store{
		users:      map[uint]models.User{},
		boundaries: map[string]models.AdmBoundaryGeometry{},
		landmarks:  map[uint]models.Landmark{},
		notes:      map[uint]models.Note{},
	}
	return &repository.Repositories{
		User:     (*userRepo)(s),
		Boundary: (*boundaryRepo)(s),
		Landmark: (*landmarkRepo)(s),
		Raster:   (*rasterRepo)(s),
		Note:     (*noteRepo)(s),
	}, s
}

// Store holds the rows of every in-memory repository.
type Store struct {
	mu         sync.Mutex
	nextID     uint
	users      map[uint]models.User
	boundaries map[string]models.AdmBoundaryGeometry
	landmarks  map[uint]models.Landmark
	rasters    []models.RasterSimplified
	notes      map[uint]models.Note

	// Err, when set, is returned by every repository call.
	Err error
	// UserReads counts FindByID calls.
	UserReads int
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

func (s *Store) AddUser(u models.User) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	if u.Role == "" {
		u.Role = models.ROLE_USER
	}
	s.users[u.ID] = u
	return &u
}

func (s *Store) User(id uint) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	return u, ok
}

func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func (s *Store) AddBoundary(b models.AdmBoundaryGeometry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boundaries[b.AdmCode] = b
}

func (s *Store) AddLandmark(l models.Landmark) *models.Landmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.id()
	}
	s.landmarks[l.ID] = l
	return &l
}

func (s *Store) AddRaster(r models.RasterSimplified) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		r.ID = s.id()
	}
	s.rasters = append(s.rasters, r)
}

func (s *Store) AddNote(n models.Note) *models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.ID == 0 {
		n.ID = s.id()
	}
	s.notes[n.ID] = n
	return &n
}

func (s *Store) NoteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes)
}

func (s *Store) withBoundary(l models.Landmark) models.Landmark {
	if b, ok := s.boundaries[l.AdmCode]; ok {
		l.AdmBoundary = &models.AdmBoundary{AdmCode: b.AdmCode, AdmName: b.AdmName, Level: b.Level}
	}
	return l
}

type userRepo Store

func (r *userRepo) FindByProviderAndExternalID(_ context.Context, provider models.AuthProvider, externalID string) (*models.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, u := range s.users {
		if u.Provider == provider && u.ExternalID == externalID {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *userRepo) FindByID(_ context.Context, id uint) (*models.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UserReads++
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *userRepo) Save(_ context.Context, user *models.User) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if user.ID == 0 {
		for _, u := range s.users {
			if u.Provider == user.Provider && u.ExternalID == user.ExternalID {
				return gorm.ErrDuplicatedKey
			}
		}
		user.ID = s.id()
	}
	s.users[user.ID] = *user
	return nil
}

type boundaryRepo Store

func (r *boundaryRepo) GetByCode(_ context.Context, admCode string) (*models.AdmBoundaryGeometry, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	b, ok := s.boundaries[admCode]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (r *boundaryRepo) Exists(_ context.Context, admCode string) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.boundaries[admCode]
	return ok, nil
}

func (r *boundaryRepo) ListSimplifiedByLevel(_ context.Context, level int16, _ float64) ([]models.AdmBoundaryGeometry, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.AdmBoundaryGeometry
	for _, b := range s.boundaries {
		if b.Level == level {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b models.AdmBoundaryGeometry) int { return strings.Compare(a.AdmCode, b.AdmCode) })
	return out, nil
}

type landmarkRepo Store

func (r *landmarkRepo) Create(_ context.Context, l *models.Landmark) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	l.ID = s.id()
	s.landmarks[l.ID] = *l
	return nil
}

func (r *landmarkRepo) GetByID(_ context.Context, id uint) (*models.Landmark, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	l, ok := s.landmarks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	l = s.withBoundary(l)
	return &l, nil
}

func (r *landmarkRepo) Exists(_ context.Context, id uint) (bool, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	_, ok := s.landmarks[id]
	return ok, nil
}

func (r *landmarkRepo) filter(keep func(models.Landmark) bool) ([]models.Landmark, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Landmark
	for _, l := range s.landmarks {
		if keep(l) {
			out = append(out, s.withBoundary(l))
		}
	}
	slices.SortFunc(out, func(a, b models.Landmark) int { return int(a.ID) - int(b.ID) })
	return out, nil
}

func (r *landmarkRepo) ListAll(_ context.Context) ([]models.Landmark, error) {
	return r.filter(func(models.Landmark) bool { return true })
}

func (r *landmarkRepo) SearchByName(_ context.Context, name string) ([]models.Landmark, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	return r.filter(func(l models.Landmark) bool { return strings.Contains(strings.ToLower(l.Name), needle) })
}

func (r *landmarkRepo) ListByAdmCode(_ context.Context, admCode string) ([]models.Landmark, error) {
	return r.filter(func(l models.Landmark) bool { return l.AdmCode == admCode })
}

func (r *landmarkRepo) ListPage(ctx context.Context, offset, limit int) ([]models.Landmark, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *landmarkRepo) Count(_ context.Context) (int64, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	return int64(len(s.landmarks)), nil
}

func (r *landmarkRepo) Delete(_ context.Context, id uint) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.landmarks, id)
	return nil
}

type rasterRepo Store

func (r *rasterRepo) ListSimplified(_ context.Context, landmarkID uint, year, month int, _ float64) ([]models.RasterSimplified, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.RasterSimplified
	for _, ras := range s.rasters {
		if ras.LandmarkID == landmarkID && ras.Year == year && ras.Month == month {
			out = append(out, ras)
		}
	}
	return out, nil
}

func (r *rasterRepo) StatsByMonth(ctx context.Context, landmarkID uint, year, month int) ([]models.RasterStat, error) {
	return r.StatsForMonths(ctx, []uint{landmarkID}, year, []int{month})
}

func (r *rasterRepo) StatsForMonths(_ context.Context, landmarkIDs []uint, year int, months []int) ([]models.RasterStat, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.RasterStat
	for _, ras := range s.rasters {
		if ras.Year != year || !slices.Contains(landmarkIDs, ras.LandmarkID) || !slices.Contains(months, ras.Month) {
			continue
		}
		out = append(out, models.RasterStat{
			LandmarkID: ras.LandmarkID,
			Year:       ras.Year,
			Month:      ras.Month,
			IndexType:  ras.IndexType,
			ValMean:    ras.ValMean,
		})
	}
	return out, nil
}

type noteRepo Store

func (r *noteRepo) Create(_ context.Context, n *models.Note) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	n.ID = s.id()
	s.notes[n.ID] = *n
	return nil
}

func (r *noteRepo) GetByID(_ context.Context, id uint) (*models.Note, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	n, ok := s.notes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &n, nil
}

func (r *noteRepo) ListByUserAndLandmark(_ context.Context, userID, landmarkID uint) ([]models.Note, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Note
	for _, n := range s.notes {
		if n.UserID == userID && n.LandmarkID == landmarkID {
			out = append(out, n)
		}
	}
	// newest first
	slices.SortFunc(out, func(a, b models.Note) int { return int(b.ID) - int(a.ID) })
	return out, nil
}

func (r *noteRepo) Delete(_ context.Context, id uint) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	delete(s.notes, id)
	return nil
}
