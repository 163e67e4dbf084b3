package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/dmallory42/super-fpl/internal/models"
)

// RedisStore keeps each (collection, day) partition in a redis hash keyed by
// entity id, with records as JSON. Filtering happens in-process after the
// partition is loaded; redis only sees opaque values.
type RedisStore struct {
	url    string
	client *redis.Client
	logger logrus.FieldLogger
	now    func() time.Time
}

// NewRedisStore creates a store against the given redis URL. Connect must
// be called before use.
func NewRedisStore(url string, logger logrus.FieldLogger) *RedisStore {
	return &RedisStore{
		url:    url,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisStore) Connect(ctx context.Context) error {
	opt, err := redis.ParseURL(s.url)
	if err != nil {
		return fmt.Errorf("parsing redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}

	s.client = client
	s.logger.Info("Connected to key-value store")
	return nil
}

func (s *RedisStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisStore) partitionKey(collection string) string {
	return collection + ":" + Day(s.now())
}

func (s *RedisStore) putAll(ctx context.Context, collection string, records map[int]interface{}) error {
	key := s.partitionKey(collection)
	pipe := s.client.Pipeline()
	for id, record := range records {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshalling %s record %d: %w", collection, id, err)
		}
		pipe.HSet(ctx, key, strconv.Itoa(id), data)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("writing %s partition: %w", collection, err)
	}
	return nil
}

func (s *RedisStore) PutPlayers(ctx context.Context, players []models.Player) error {
	day := Day(s.now())
	records := make(map[int]interface{}, len(players))
	for _, p := range players {
		p.CacheID = cacheKey(p.ID, day)
		p.DateGenerated = day
		records[p.ID] = p
	}
	return s.putAll(ctx, collPlayers, records)
}

func (s *RedisStore) PutTeams(ctx context.Context, teams []models.Team) error {
	day := Day(s.now())
	records := make(map[int]interface{}, len(teams))
	for _, t := range teams {
		t.CacheID = cacheKey(t.ID, day)
		t.DateGenerated = day
		records[t.ID] = t
	}
	return s.putAll(ctx, collTeams, records)
}

func (s *RedisStore) PutFixtures(ctx context.Context, fixtures []models.Fixture) error {
	day := Day(s.now())
	records := make(map[int]interface{}, len(fixtures))
	for _, f := range fixtures {
		f.CacheID = cacheKey(f.ID, day)
		f.DateGenerated = day
		records[f.ID] = f
	}
	return s.putAll(ctx, collFixtures, records)
}

func (s *RedisStore) loadPartition(ctx context.Context, collection string) (map[string]string, error) {
	values, err := s.client.HGetAll(ctx, s.partitionKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading %s partition: %w", collection, err)
	}
	if len(values) == 0 {
		return nil, ErrNoData
	}
	return values, nil
}

func (s *RedisStore) GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error) {
	values, err := s.loadPartition(ctx, collPlayers)
	if err != nil {
		return nil, err
	}

	players := make([]models.Player, 0, len(values))
	for field, data := range values {
		var p models.Player
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("decoding player %s: %w", field, err)
		}
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return filterPlayers(players, filter)
}

func (s *RedisStore) GetTeams(ctx context.Context) ([]models.Team, error) {
	values, err := s.loadPartition(ctx, collTeams)
	if err != nil {
		return nil, err
	}

	teams := make([]models.Team, 0, len(values))
	for field, data := range values {
		var t models.Team
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, fmt.Errorf("decoding team %s: %w", field, err)
		}
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

func (s *RedisStore) GetFixtures(ctx context.Context) ([]models.Fixture, error) {
	values, err := s.loadPartition(ctx, collFixtures)
	if err != nil {
		return nil, err
	}

	fixtures := make([]models.Fixture, 0, len(values))
	for field, data := range values {
		var f models.Fixture
		if err := json.Unmarshal([]byte(data), &f); err != nil {
			return nil, fmt.Errorf("decoding fixture %s: %w", field, err)
		}
		fixtures = append(fixtures, f)
	}
	sort.Slice(fixtures, func(i, j int) bool { return fixtures[i].ID < fixtures[j].ID })
	return fixtures, nil
}

func (s *RedisStore) ValueRange(ctx context.Context) ([]float64, error) {
	players, err := s.GetPlayers(ctx, nil)
	if err != nil {
		return nil, err
	}
	return playerValueRange(players)
}
