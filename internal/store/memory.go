package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmallory42/super-fpl/internal/models"
)

// MemoryStore keeps every record in process memory. Useful for development
// and tests; the day-partition and miss semantics match the other backends.
type MemoryStore struct {
	mu       sync.RWMutex
	players  map[string]models.Player
	teams    map[string]models.Team
	fixtures map[string]models.Fixture
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:  make(map[string]models.Player),
		teams:    make(map[string]models.Team),
		fixtures: make(map[string]models.Fixture),
		now:      time.Now,
	}
}

func (s *MemoryStore) Connect(ctx context.Context) error { return nil }
func (s *MemoryStore) Close(ctx context.Context) error   { return nil }

func (s *MemoryStore) PutPlayers(ctx context.Context, players []models.Player) error {
	day := Day(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range players {
		p.CacheID = cacheKey(p.ID, day)
		p.DateGenerated = day
		s.players[p.CacheID] = p
	}
	return nil
}

func (s *MemoryStore) PutTeams(ctx context.Context, teams []models.Team) error {
	day := Day(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range teams {
		t.CacheID = cacheKey(t.ID, day)
		t.DateGenerated = day
		s.teams[t.CacheID] = t
	}
	return nil
}

func (s *MemoryStore) PutFixtures(ctx context.Context, fixtures []models.Fixture) error {
	day := Day(s.now())
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range fixtures {
		f.CacheID = cacheKey(f.ID, day)
		f.DateGenerated = day
		s.fixtures[f.CacheID] = f
	}
	return nil
}

func (s *MemoryStore) GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error) {
	day := Day(s.now())
	s.mu.RLock()
	var players []models.Player
	for _, p := range s.players {
		if p.DateGenerated == day {
			players = append(players, p)
		}
	}
	s.mu.RUnlock()

	if len(players) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return filterPlayers(players, filter)
}

func (s *MemoryStore) GetTeams(ctx context.Context) ([]models.Team, error) {
	day := Day(s.now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	var teams []models.Team
	for _, t := range s.teams {
		if t.DateGenerated == day {
			teams = append(teams, t)
		}
	}
	if len(teams) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *MemoryStore) GetFixtures(ctx context.Context) ([]models.Fixture, error) {
	day := Day(s.now())
	s.mu.RLock()
	defer s.mu.RUnlock()
	var fixtures []models.Fixture
	for _, f := range s.fixtures {
		if f.DateGenerated == day {
			fixtures = append(fixtures, f)
		}
	}
	if len(fixtures) == 0 {
		return nil, ErrNoData
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].ID < fixtures[j].ID })
	return fixtures, nil
}

func (s *MemoryStore) ValueRange(ctx context.Context) ([]float64, error) {
	players, err := s.GetPlayers(ctx, nil)
	if err != nil {
		return nil, err
	}
	return playerValueRange(players)
}
