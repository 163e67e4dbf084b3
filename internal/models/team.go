package models

// Team is a single day's snapshot of a Premier League club.
type Team struct {
	CacheID       string `json:"-" bson:"_id"`
	DateGenerated string `json:"date_generated" bson:"date_generated"`

	ID        int    `json:"id" bson:"id"`
	Code      int    `json:"code" bson:"code"`
	Name      string `json:"name" bson:"name"`
	ShortName string `json:"short_name" bson:"short_name"`
}

// Fixture is a single day's snapshot of a scheduled or finished match.
// TeamH and TeamA reference Team.ID.
type Fixture struct {
	CacheID       string `json:"-" bson:"_id"`
	DateGenerated string `json:"date_generated" bson:"date_generated"`

	ID          int    `json:"id" bson:"id"`
	Event       int    `json:"event" bson:"event"`
	TeamH       int    `json:"team_h" bson:"team_h"`
	TeamA       int    `json:"team_a" bson:"team_a"`
	TeamHScore  *int   `json:"team_h_score" bson:"team_h_score"`
	TeamAScore  *int   `json:"team_a_score" bson:"team_a_score"`
	KickoffTime string `json:"kickoff_time" bson:"kickoff_time"`
	Finished    bool   `json:"finished" bson:"finished"`
}
