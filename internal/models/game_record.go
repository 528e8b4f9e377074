package models

import "time"

// GameRecord is the terminal result of a finished game. Written once after
// the host confirms the end of the game; live state is never persisted.
type GameRecord struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	PublicID     string       `gorm:"size:36;uniqueIndex;not null" json:"public_id"`
	HostID       int64        `gorm:"not null;index" json:"host_id"`
	Mode         string       `gorm:"size:20;not null" json:"mode"`
	RefMode      bool         `json:"ref_mode"`
	Rounds       int          `gorm:"not null" json:"rounds"`
	Participants int          `gorm:"not null" json:"participants"`
	Tie          bool         `json:"tie"`
	Results      []GameResult `gorm:"foreignKey:GameRecordID" json:"results,omitempty"`
	FinishedAt   time.Time    `json:"finished_at"`
}

type GameResult struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	GameRecordID uint   `gorm:"not null;index" json:"-"`
	Place        int    `gorm:"not null" json:"place"`
	Nickname     string `gorm:"size:100;not null" json:"nickname"`
	Username     string `gorm:"size:100" json:"username,omitempty"`
	Score        int    `gorm:"not null" json:"score"`
	Eliminated   bool   `json:"eliminated"`
	RoundOut     int    `json:"round_out,omitempty"`
}
