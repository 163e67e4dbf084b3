package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dmallory42/super-fpl/internal/models"
)

// FileStore persists each (collection, day) partition as a JSON file under
// a data directory, e.g. players-24082026.json. Writes rewrite the whole
// partition file under a process-wide lock; last writer wins.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates a store rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{
		dir: dir,
		now: time.Now,
	}
}

func (s *FileStore) Connect(ctx context.Context) error {
	return os.MkdirAll(s.dir, 0o755)
}

func (s *FileStore) Close(ctx context.Context) error { return nil }

func (s *FileStore) partitionPath(collection string) string {
	return filepath.Join(s.dir, collection+"-"+Day(s.now())+".json")
}

// readPartition loads the partition file into dest (a map keyed by entity
// id). A missing file is a cache miss.
func (s *FileStore) readPartition(collection string, dest interface{}) error {
	data, err := os.ReadFile(s.partitionPath(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNoData
		}
		return fmt.Errorf("reading %s partition: %w", collection, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decoding %s partition: %w", collection, err)
	}
	return nil
}

func (s *FileStore) writePartition(collection string, records interface{}) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding %s partition: %w", collection, err)
	}
	if err := os.WriteFile(s.partitionPath(collection), data, 0o644); err != nil {
		return fmt.Errorf("writing %s partition: %w", collection, err)
	}
	return nil
}

func (s *FileStore) PutPlayers(ctx context.Context, players []models.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := map[string]models.Player{}
	if err := s.readPartition(collPlayers, &existing); err != nil && !errors.Is(err, ErrNoData) {
		return err
	}

	day := Day(s.now())
	for _, p := range players {
		p.CacheID = cacheKey(p.ID, day)
		p.DateGenerated = day
		existing[cacheKey(p.ID, day)] = p
	}
	return s.writePartition(collPlayers, existing)
}

func (s *FileStore) PutTeams(ctx context.Context, teams []models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := map[string]models.Team{}
	if err := s.readPartition(collTeams, &existing); err != nil && !errors.Is(err, ErrNoData) {
		return err
	}

	day := Day(s.now())
	for _, t := range teams {
		t.CacheID = cacheKey(t.ID, day)
		t.DateGenerated = day
		existing[cacheKey(t.ID, day)] = t
	}
	return s.writePartition(collTeams, existing)
}

func (s *FileStore) PutFixtures(ctx context.Context, fixtures []models.Fixture) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := map[string]models.Fixture{}
	if err := s.readPartition(collFixtures, &existing); err != nil && !errors.Is(err, ErrNoData) {
		return err
	}

	day := Day(s.now())
	for _, f := range fixtures {
		f.CacheID = cacheKey(f.ID, day)
		f.DateGenerated = day
		existing[cacheKey(f.ID, day)] = f
	}
	return s.writePartition(collFixtures, existing)
}

func (s *FileStore) GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error) {
	s.mu.Lock()
	records := map[string]models.Player{}
	err := s.readPartition(collPlayers, &records)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	players := make([]models.Player, 0, len(records))
	for _, p := range records {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return filterPlayers(players, filter)
}

func (s *FileStore) GetTeams(ctx context.Context) ([]models.Team, error) {
	s.mu.Lock()
	records := map[string]models.Team{}
	err := s.readPartition(collTeams, &records)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	teams := make([]models.Team, 0, len(records))
	for _, t := range records {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *FileStore) GetFixtures(ctx context.Context) ([]models.Fixture, error) {
	s.mu.Lock()
	records := map[string]models.Fixture{}
	err := s.readPartition(collFixtures, &records)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}

	fixtures := make([]models.Fixture, 0, len(records))
	for _, f := range records {
		fixtures = append(fixtures, f)
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].ID < fixtures[j].ID })
	return fixtures, nil
}

func (s *FileStore) ValueRange(ctx context.Context) ([]float64, error) {
	players, err := s.GetPlayers(ctx, nil)
	if err != nil {
		return nil, err
	}
	return playerValueRange(players)
}
