package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"github.com/emiilyxiia/microservices-3/models"
)

// GormStore persists rankings through gorm. Production implementation.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ranking *models.Ranking) (*models.Ranking, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, unavailable(tx.Error)
	}

	if err := tx.First(&models.Ranking{}, "id = ?", ranking.ID).Error; err == nil {
		tx.Rollback()
		return nil, fmt.Errorf("ranking %q already exists: %w", ranking.ID, ErrConflict)
	} else if !gorm.IsRecordNotFoundError(err) {
		tx.Rollback()
		return nil, unavailable(err)
	}

	// Friendly-path duplicate check. The ux_user_item unique index is the
	// authoritative guard: a concurrent create that slips past this read still
	// fails at insert time and surfaces as ErrConflict.
	var existing []models.RankedItem
	if err := tx.Where("user_id = ?", ranking.UserID).Find(&existing).Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}
	if err := checkDuplicates(existing, ranking.Items); err != nil {
		tx.Rollback()
		return nil, err
	}

	row := models.Ranking{ID: ranking.ID, UserID: ranking.UserID}
	if err := tx.Create(&row).Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}
	if err := insertItems(tx, row.ID, row.UserID, ranking.Items); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}

	return s.Get(row.ID)
}

func (s *GormStore) Get(id string) (*models.Ranking, error) {
	var ranking models.Ranking
	if err := s.db.First(&ranking, "id = ?", id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
		}
		return nil, unavailable(err)
	}
	if err := s.loadItems(s.db, &ranking); err != nil {
		return nil, err
	}
	return &ranking, nil
}

func (s *GormStore) ListByUser(userID string) ([]models.Ranking, error) {
	var rankings []models.Ranking
	if err := s.db.Where("user_id = ?", userID).Order("created_at asc, id asc").Find(&rankings).Error; err != nil {
		return nil, unavailable(err)
	}
	for i := range rankings {
		if err := s.loadItems(s.db, &rankings[i]); err != nil {
			return nil, err
		}
	}
	return rankings, nil
}

func (s *GormStore) ReplaceItems(id string, items []models.RankedItem) (*models.Ranking, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, unavailable(tx.Error)
	}

	var ranking models.Ranking
	if err := tx.First(&ranking, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
		}
		return nil, unavailable(err)
	}

	if err := tx.Where("ranking_id = ?", id).Delete(&models.RankedItem{}).Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}
	if err := insertItems(tx, id, ranking.UserID, items); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := touch(tx, &ranking); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}

	return s.Get(id)
}

func (s *GormStore) UpdateItem(id string, index int, patch ItemPatch) (*models.Ranking, error) {
	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, unavailable(tx.Error)
	}

	var ranking models.Ranking
	if err := tx.First(&ranking, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
		}
		return nil, unavailable(err)
	}
	if err := s.loadItems(tx, &ranking); err != nil {
		tx.Rollback()
		return nil, err
	}
	if index < 0 || index >= len(ranking.Items) {
		tx.Rollback()
		return nil, fmt.Errorf("item %d of ranking %q: %w", index, id, ErrNotFound)
	}

	item := ranking.Items[index]
	applyPatch(&item, patch)
	if err := tx.Save(&item).Error; err != nil {
		tx.Rollback()
		if isUniqueViolation(err) {
			return nil, duplicateItem(item.Name, item.Origin)
		}
		return nil, unavailable(err)
	}
	if err := touch(tx, &ranking); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return nil, unavailable(err)
	}

	return s.Get(id)
}

func (s *GormStore) Delete(id string) error {
	tx := s.db.Begin()
	if tx.Error != nil {
		return unavailable(tx.Error)
	}

	if err := tx.First(&models.Ranking{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		if gorm.IsRecordNotFoundError(err) {
			return fmt.Errorf("ranking %q: %w", id, ErrNotFound)
		}
		return unavailable(err)
	}

	// Explicit cascade keeps sqlite correct; postgres also has the FK cascade.
	if err := tx.Where("ranking_id = ?", id).Delete(&models.RankedItem{}).Error; err != nil {
		tx.Rollback()
		return unavailable(err)
	}
	if err := tx.Delete(&models.Ranking{}, "id = ?", id).Error; err != nil {
		tx.Rollback()
		return unavailable(err)
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return unavailable(err)
	}
	return nil
}

func (s *GormStore) loadItems(db *gorm.DB, ranking *models.Ranking) error {
	if err := db.Where("ranking_id = ?", ranking.ID).Order("position asc").Find(&ranking.Items).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

// insertItems writes the item rows with fresh surrogate ids and positions that
// match the payload order. A ux_user_item violation means another writer owns
// the (name, origin) pair already.
func insertItems(tx *gorm.DB, rankingID, userID string, items []models.RankedItem) error {
	for i := range items {
		item := items[i]
		item.ID = uuid.New().String()
		item.RankingID = rankingID
		item.UserID = userID
		item.Position = i
		if err := tx.Create(&item).Error; err != nil {
			if isUniqueViolation(err) {
				return duplicateItem(item.Name, item.Origin)
			}
			return unavailable(err)
		}
	}
	return nil
}

// isUniqueViolation matches the unique-index errors of both dialects: lib/pq
// reports "duplicate key value violates unique constraint", go-sqlite3 reports
// "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func touch(tx *gorm.DB, ranking *models.Ranking) error {
	if err := tx.Model(ranking).Update("updated_at", time.Now().UTC()).Error; err != nil {
		return unavailable(err)
	}
	return nil
}

func applyPatch(item *models.RankedItem, patch ItemPatch) {
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Origin != nil {
		item.Origin = *patch.Origin
	}
	if patch.Rating != nil {
		item.Rating = *patch.Rating
	}
	if patch.CostPerGram != nil {
		item.CostPerGram = *patch.CostPerGram
	}
}
