// Package types contains common types used across the application
package types

// Entry represents a ranked leaderboard entry
type Entry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Round    int    `json:"round"`
	Total    int    `json:"total"`
	Position int    `json:"position"`
	Rhythm   int    `json:"rhythm"`
}
