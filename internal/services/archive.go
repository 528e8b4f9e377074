package services

import (
	"errors"
	"time"

	"github.com/dyplomin-hash/Couture/internal/game"
	"github.com/dyplomin-hash/Couture/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArchiveService writes finished games to the database and serves them to
// the admin API. It never touches a running game.
type ArchiveService struct {
	db *gorm.DB
}

func NewArchiveService(db *gorm.DB) *ArchiveService {
	return &ArchiveService{db: db}
}

// SaveFinished implements game.Archiver.
func (s *ArchiveService) SaveFinished(g *game.Game, standings []game.Standing, tie bool) error {
	record := models.GameRecord{
		PublicID:     uuid.NewString(),
		HostID:       g.HostID,
		Mode:         string(g.Mode),
		RefMode:      g.RefMode,
		Rounds:       g.CurrentRound,
		Participants: len(g.Participants),
		Tie:          tie,
		FinishedAt:   time.Now(),
	}
	for _, st := range standings {
		record.Results = append(record.Results, models.GameResult{
			Place:      st.Place,
			Nickname:   st.Participant.Nickname,
			Username:   st.Participant.Username,
			Score:      st.Participant.Score,
			Eliminated: st.Participant.Eliminated,
			RoundOut:   st.Participant.RoundOut,
		})
	}
	return s.db.Create(&record).Error
}

func (s *ArchiveService) ListRecent(limit int) ([]models.GameRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var records []models.GameRecord
	if err := s.db.Order("finished_at DESC").Limit(limit).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *ArchiveService) GetByPublicID(publicID string) (*models.GameRecord, error) {
	var record models.GameRecord
	if err := s.db.Where("public_id = ?", publicID).
		Preload("Results", func(db *gorm.DB) *gorm.DB {
			return db.Order("place ASC")
		}).
		First(&record).Error; err != nil {
		return nil, errors.New("game not found")
	}
	return &record, nil
}
