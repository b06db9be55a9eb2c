package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Pick is a prediction issued before the game was played
type Pick struct {
	HomeTeam        string  `json:"home_team"`
	AwayTeam        string  `json:"away_team"`
	PredictedWinner string  `json:"pick"`
	Confidence      float64 `json:"confidence"`
	League          string  `json:"league,omitempty"`
	GameID          string  `json:"game_id,omitempty"`
}

// pickInput accepts the field spellings used by the prediction engine's exports
type pickInput struct {
	HomeTeam        string          `json:"home_team"`
	Home            string          `json:"home"`
	AwayTeam        string          `json:"away_team"`
	Away            string          `json:"away"`
	Pick            string          `json:"pick"`
	PredictedWinner string          `json:"predicted_winner"`
	Confidence      json.RawMessage `json:"confidence"`
	Sport           string          `json:"sport"`
	League          string          `json:"league"`
	GameID          json.RawMessage `json:"game_id"`
}

// UnmarshalJSON accepts both long and short field names
func (p *Pick) UnmarshalJSON(data []byte) error {
	var in pickInput
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	conf, err := parseConfidence(in.Confidence)
	if err != nil {
		return fmt.Errorf("invalid confidence: %w", err)
	}

	*p = Pick{
		HomeTeam:        firstNonEmpty(in.HomeTeam, in.Home),
		AwayTeam:        firstNonEmpty(in.AwayTeam, in.Away),
		PredictedWinner: firstNonEmpty(in.Pick, in.PredictedWinner),
		Confidence:      conf,
		League:          firstNonEmpty(in.League, in.Sport),
		GameID:          rawString(in.GameID),
	}
	return nil
}

// Valid reports whether the pick has the fields needed for grading
func (p Pick) Valid() bool {
	return strings.TrimSpace(p.HomeTeam) != "" &&
		strings.TrimSpace(p.AwayTeam) != "" &&
		strings.TrimSpace(p.PredictedWinner) != ""
}

// confidence may be a number (0.72 or 72) or a string ("72%")
func parseConfidence(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
