package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dmallory42/super-fpl/internal/models"
)

const (
	collPlayers  = "players"
	collTeams    = "teams"
	collFixtures = "fixtures"
)

// MongoStore persists records in a MongoDB database, one collection per
// entity kind. Filtering and the value-range aggregation run server-side.
type MongoStore struct {
	uri      string
	database string
	client   *mongo.Client
	db       *mongo.Database
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewMongoStore creates a store against the given connection URI. Connect
// must be called before use.
func NewMongoStore(uri, database string, logger logrus.FieldLogger) *MongoStore {
	return &MongoStore{
		uri:      uri,
		database: database,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *MongoStore) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("connecting to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return fmt.Errorf("pinging mongo: %w", err)
	}

	s.client = client
	s.db = client.Database(s.database)
	s.logger.Info("Connected to document store")
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) PutPlayers(ctx context.Context, players []models.Player) error {
	day := Day(s.now())
	coll := s.db.Collection(collPlayers)
	for i := range players {
		players[i].CacheID = cacheKey(players[i].ID, day)
		players[i].DateGenerated = day
		if err := s.upsert(ctx, coll, players[i].CacheID, players[i]); err != nil {
			return fmt.Errorf("storing player %d: %w", players[i].ID, err)
		}
	}
	return nil
}

func (s *MongoStore) PutTeams(ctx context.Context, teams []models.Team) error {
	day := Day(s.now())
	coll := s.db.Collection(collTeams)
	for i := range teams {
		teams[i].CacheID = cacheKey(teams[i].ID, day)
		teams[i].DateGenerated = day
		if err := s.upsert(ctx, coll, teams[i].CacheID, teams[i]); err != nil {
			return fmt.Errorf("storing team %d: %w", teams[i].ID, err)
		}
	}
	return nil
}

func (s *MongoStore) PutFixtures(ctx context.Context, fixtures []models.Fixture) error {
	day := Day(s.now())
	coll := s.db.Collection(collFixtures)
	for i := range fixtures {
		fixtures[i].CacheID = cacheKey(fixtures[i].ID, day)
		fixtures[i].DateGenerated = day
		if err := s.upsert(ctx, coll, fixtures[i].CacheID, fixtures[i]); err != nil {
			return fmt.Errorf("storing fixture %d: %w", fixtures[i].ID, err)
		}
	}
	return nil
}

func (s *MongoStore) upsert(ctx context.Context, coll *mongo.Collection, id string, record interface{}) error {
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, record, opts)
	return err
}

func (s *MongoStore) GetPlayers(ctx context.Context, filter *models.FilterSpec) ([]models.Player, error) {
	query := bson.M{"date_generated": Day(s.now())}

	if filter != nil {
		if filter.MinPrice != nil || filter.MaxPrice != nil {
			cost := bson.M{}
			if filter.MinPrice != nil {
				cost["$gte"] = *filter.MinPrice
			}
			if filter.MaxPrice != nil {
				cost["$lte"] = *filter.MaxPrice
			}
			query["now_cost"] = cost
		}
		if filter.MinMinutesPlayed != nil {
			query["minutes"] = bson.M{"$gte": *filter.MinMinutesPlayed}
		}
		if len(filter.Positions) > 0 {
			var or bson.A
			for _, pos := range filter.Positions {
				or = append(or, bson.M{"position": strings.ToUpper(pos)})
			}
			query["$or"] = or
		}
		if filter.MaxOwnership != nil {
			query["selected_by_percent"] = bson.M{"$lte": *filter.MaxOwnership}
		}
	}

	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.db.Collection(collPlayers).Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("querying players: %w", err)
	}

	var players []models.Player
	if err := cursor.All(ctx, &players); err != nil {
		return nil, fmt.Errorf("decoding players: %w", err)
	}
	if len(players) == 0 {
		return nil, ErrNoData
	}
	return players, nil
}

func (s *MongoStore) GetTeams(ctx context.Context) ([]models.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.db.Collection(collTeams).Find(ctx, bson.M{"date_generated": Day(s.now())}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}

	var teams []models.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("decoding teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, ErrNoData
	}
	return teams, nil
}

func (s *MongoStore) GetFixtures(ctx context.Context) ([]models.Fixture, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := s.db.Collection(collFixtures).Find(ctx, bson.M{"date_generated": Day(s.now())}, opts)
	if err != nil {
		return nil, fmt.Errorf("querying fixtures: %w", err)
	}

	var fixtures []models.Fixture
	if err := cursor.All(ctx, &fixtures); err != nil {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		return nil, ErrNoData
	}
	return fixtures, nil
}

func (s *MongoStore) ValueRange(ctx context.Context) ([]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"date_generated": Day(s.now())}}},
		{{Key: "$group", Value: bson.M{
			"_id":       nil,
			"min_value": bson.M{"$min": "$now_cost"},
			"max_value": bson.M{"$max": "$now_cost"},
		}}},
	}

	cursor, err := s.db.Collection(collPlayers).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregating value range: %w", err)
	}

	var results []struct {
		Min float64 `bson:"min_value"`
		Max float64 `bson:"max_value"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decoding value range: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrNoData
	}
	return priceRange(results[0].Min, results[0].Max), nil
}
