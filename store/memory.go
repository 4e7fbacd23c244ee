package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/emiilyxiia/microservices-3/models"
)

// MemoryStore keeps rankings in a mutex-guarded map. It honors the same contract
// as GormStore and backs tests as well as the DATABASE=memory configuration.
// Everything is deep-copied on the way in and out so callers never share state
// with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	rankings map[string]models.Ranking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rankings: make(map[string]models.Ranking)}
}

func (s *MemoryStore) Create(ranking *models.Ranking) (*models.Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rankings[ranking.ID]; ok {
		return nil, fmt.Errorf("ranking %q already exists: %w", ranking.ID, ErrConflict)
	}

	var existing []models.RankedItem
	for _, r := range s.rankings {
		if r.UserID == ranking.UserID {
			existing = append(existing, r.Items...)
		}
	}
	if err := checkDuplicates(existing, ranking.Items); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := ranking.Clone()
	for i := range row.Items {
		row.Items[i].ID = uuid.New().String()
		row.Items[i].RankingID = row.ID
		row.Items[i].UserID = row.UserID
		row.Items[i].Position = i
	}
	row.CreatedAt = now
	row.UpdatedAt = now
	s.rankings[row.ID] = row

	out := row.Clone()
	return &out, nil
}

func (s *MemoryStore) Get(id string) (*models.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.rankings[id]
	if !ok {
		return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
	}
	out := row.Clone()
	return &out, nil
}

func (s *MemoryStore) ListByUser(userID string) ([]models.Ranking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rankings []models.Ranking
	for _, row := range s.rankings {
		if row.UserID == userID {
			rankings = append(rankings, row.Clone())
		}
	}
	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].CreatedAt.Equal(rankings[j].CreatedAt) {
			return rankings[i].ID < rankings[j].ID
		}
		return rankings[i].CreatedAt.Before(rankings[j].CreatedAt)
	})
	return rankings, nil
}

func (s *MemoryStore) ReplaceItems(id string, items []models.RankedItem) (*models.Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rankings[id]
	if !ok {
		return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
	}

	// The replaced list competes with the user's other rankings only; the old
	// list of this ranking is on its way out.
	var existing []models.RankedItem
	for _, r := range s.rankings {
		if r.UserID == row.UserID && r.ID != id {
			existing = append(existing, r.Items...)
		}
	}
	if err := checkDuplicates(existing, items); err != nil {
		return nil, err
	}

	row.Items = make([]models.RankedItem, len(items))
	copy(row.Items, items)
	for i := range row.Items {
		row.Items[i].ID = uuid.New().String()
		row.Items[i].RankingID = id
		row.Items[i].UserID = row.UserID
		row.Items[i].Position = i
	}
	row.UpdatedAt = time.Now().UTC()
	s.rankings[id] = row

	out := row.Clone()
	return &out, nil
}

func (s *MemoryStore) UpdateItem(id string, index int, patch ItemPatch) (*models.Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rankings[id]
	if !ok {
		return nil, fmt.Errorf("ranking %q: %w", id, ErrNotFound)
	}
	if index < 0 || index >= len(row.Items) {
		return nil, fmt.Errorf("item %d of ranking %q: %w", index, id, ErrNotFound)
	}

	row = row.Clone()
	applyPatch(&row.Items[index], patch)

	patched := row.Items[index]
	var existing []models.RankedItem
	for _, r := range s.rankings {
		if r.UserID != row.UserID {
			continue
		}
		for _, it := range r.Items {
			if it.ID != patched.ID {
				existing = append(existing, it)
			}
		}
	}
	if err := checkDuplicates(existing, []models.RankedItem{patched}); err != nil {
		return nil, err
	}
	row.UpdatedAt = time.Now().UTC()
	s.rankings[id] = row

	out := row.Clone()
	return &out, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rankings[id]; !ok {
		return fmt.Errorf("ranking %q: %w", id, ErrNotFound)
	}
	delete(s.rankings, id)
	return nil
}
