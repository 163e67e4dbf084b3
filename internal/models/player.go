package models

// Player is a single day's snapshot of a Premier League player: the raw
// counting stats from the upstream bootstrap payload plus the derived
// analysis fields computed at enrichment time. Records are immutable once
// written; a re-fetch on the same day overwrites the whole record.
type Player struct {
	CacheID       string `json:"-" bson:"_id"`
	DateGenerated string `json:"date_generated" bson:"date_generated"`

	ID         int    `json:"id" bson:"id"`
	FirstName  string `json:"first_name" bson:"first_name"`
	SecondName string `json:"second_name" bson:"second_name"`
	WebName    string `json:"web_name" bson:"web_name"`
	TeamID     int    `json:"team" bson:"team"`
	TeamCode   int    `json:"team_code" bson:"team_code"`

	ElementType       int     `json:"element_type" bson:"element_type"`
	NowCost           float64 `json:"now_cost" bson:"now_cost"`
	Minutes           int     `json:"minutes" bson:"minutes"`
	GoalsScored       int     `json:"goals_scored" bson:"goals_scored"`
	Assists           int     `json:"assists" bson:"assists"`
	CleanSheets       int     `json:"clean_sheets" bson:"clean_sheets"`
	GoalsConceded     int     `json:"goals_conceded" bson:"goals_conceded"`
	Saves             int     `json:"saves" bson:"saves"`
	Bps               int     `json:"bps" bson:"bps"`
	TotalPoints       int     `json:"total_points" bson:"total_points"`
	Creativity        float64 `json:"creativity" bson:"creativity"`
	Threat            float64 `json:"threat" bson:"threat"`
	Influence         float64 `json:"influence" bson:"influence"`
	SelectedByPercent float64 `json:"selected_by_percent" bson:"selected_by_percent"`

	// Derived fields.
	Name              string  `json:"name" bson:"name"`
	Position          string  `json:"position" bson:"position"`
	GoalInvolvements  int     `json:"goal_involvements" bson:"goal_involvements"`
	BpsPerMin         float64 `json:"bps_per_min" bson:"bps_per_min"`
	CleanSheetsPer90  float64 `json:"clean_sheets_per_90" bson:"clean_sheets_per_90"`
	GoalsConcPer90    float64 `json:"goals_conc_per_90" bson:"goals_conc_per_90"`
	GoalsScoredPer90  float64 `json:"goals_scored_per_90" bson:"goals_scored_per_90"`
	AssistsPer90      float64 `json:"assists_per_90" bson:"assists_per_90"`
	CreativityPerMin  float64 `json:"creativity_per_min" bson:"creativity_per_min"`
	ThreatPerMin      float64 `json:"threat_per_min" bson:"threat_per_min"`
	InfluencePerMin   float64 `json:"influence_per_min" bson:"influence_per_min"`
	PointsPerMin      float64 `json:"points_per_min" bson:"points_per_min"`
	PointsPer90       float64 `json:"points_per_90" bson:"points_per_90"`
	PointsPerMil      float64 `json:"points_per_mil" bson:"points_per_mil"`
	SavesPer90        float64 `json:"saves_per_90" bson:"saves_per_90"`
}

// PlayerRow is the table-ready view of a player: the enriched record joined
// with its club (matched on team_code) and the club's fixture list.
type PlayerRow struct {
	Player
	Team     *Team     `json:"team_info,omitempty"`
	Fixtures []Fixture `json:"fixtures,omitempty"`
}
