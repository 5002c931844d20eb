// services/store.go
package services

import (
	"context"
	"time"

	"game-contest-system/models"

	"gorm.io/gorm"
)

// GameStore is the lifecycle's view of persistence. The GORM
// implementation below is the only one used in production; tests swap in
// an in-memory fake.
type GameStore interface {
	Create(ctx context.Context, game *models.ContestGame) error
	// CloseOpen applies fields only if the game is still open, and reports
	// whether the transition happened. This is what makes closure
	// idempotent and the winner fields write-once even if two sweeps ever
	// overlapped.
	CloseOpen(ctx context.Context, gameID string, fields map[string]any) (bool, error)
	ListOpen(ctx context.Context) ([]models.ContestGame, error)
}

type GormGameStore struct {
	DB *gorm.DB
}

func NewGormGameStore(db *gorm.DB) *GormGameStore {
	return &GormGameStore{DB: db}
}

func (s *GormGameStore) Create(ctx context.Context, game *models.ContestGame) error {
	return s.DB.WithContext(ctx).Create(game).Error
}

// Update merges fields into a game record unconditionally. Closure goes
// through CloseOpen instead so the open->closed transition stays guarded.
func (s *GormGameStore) Update(ctx context.Context, gameID string, fields map[string]any) error {
	fields["updated_at"] = time.Now()
	return s.DB.WithContext(ctx).
		Model(&models.ContestGame{}).
		Where("game_id = ?", gameID).
		Updates(fields).Error
}

func (s *GormGameStore) CloseOpen(ctx context.Context, gameID string, fields map[string]any) (bool, error) {
	fields["status"] = models.StatusClosed
	fields["updated_at"] = time.Now()
	result := s.DB.WithContext(ctx).
		Model(&models.ContestGame{}).
		Where("game_id = ? AND status = ?", gameID, models.StatusOpen).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *GormGameStore) ListOpen(ctx context.Context) ([]models.ContestGame, error) {
	var games []models.ContestGame
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.StatusOpen).
		Find(&games).Error
	return games, err
}
