package services

import (
	"github.com/sirupsen/logrus"

	"github.com/emiilyxiia/microservices-3/models"
	"github.com/emiilyxiia/microservices-3/queue"
	"github.com/emiilyxiia/microservices-3/store"
)

// ItemFilters are the optional predicates applied to each ranking's items,
// AND-combined. Nil means the predicate is unset.
type ItemFilters struct {
	MinRating *float64
	MaxRating *float64
	MaxCost   *float64
	Origin    *models.Origin
}

func (f ItemFilters) matches(item models.RankedItem) bool {
	if f.MinRating != nil && item.Rating < *f.MinRating {
		return false
	}
	if f.MaxRating != nil && item.Rating > *f.MaxRating {
		return false
	}
	if f.MaxCost != nil && item.CostPerGram > *f.MaxCost {
		return false
	}
	if f.Origin != nil && item.Origin != *f.Origin {
		return false
	}
	return true
}

// RankingService owns the application logic between the HTTP handlers and the
// store: filter application, delegation, and event publication.
type RankingService struct {
	store  store.RankingStore
	events queue.Publisher
	log    *logrus.Logger
}

// NewRankingService builds the service. events may be nil when no broker is
// configured; creates then skip publication.
func NewRankingService(st store.RankingStore, events queue.Publisher, log *logrus.Logger) *RankingService {
	return &RankingService{store: st, events: events, log: log}
}

// List returns the user's rankings with items narrowed to the filtered subset,
// keeping insertion order and dropping rankings whose filtered set is empty.
// The store hands out detached copies, so reshaping the item list here never
// mutates stored data.
func (s *RankingService) List(userID string, filters ItemFilters) ([]models.Ranking, error) {
	rankings, err := s.store.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	results := make([]models.Ranking, 0, len(rankings))
	for _, ranking := range rankings {
		filtered := make([]models.RankedItem, 0, len(ranking.Items))
		for _, item := range ranking.Items {
			if filters.matches(item) {
				filtered = append(filtered, item)
			}
		}
		if len(filtered) == 0 {
			continue
		}
		ranking.Items = filtered
		results = append(results, ranking)
	}
	return results, nil
}

// Create persists the ranking (the store owns the transactional duplicate-item
// check) and announces it on the events queue. A publish failure is logged and
// never fails the request.
func (s *RankingService) Create(ranking *models.Ranking) (*models.Ranking, error) {
	created, err := s.store.Create(ranking)
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		if err := s.events.RankingCreated(created.ID); err != nil {
			s.log.WithError(err).WithField("ranking_id", created.ID).
				Warn("failed to publish ranking_created event")
		}
	}
	return created, nil
}

func (s *RankingService) Get(id string) (*models.Ranking, error) {
	return s.store.Get(id)
}

func (s *RankingService) Replace(id string, items []models.RankedItem) (*models.Ranking, error) {
	return s.store.ReplaceItems(id, items)
}

func (s *RankingService) PatchItem(id string, index int, patch store.ItemPatch) (*models.Ranking, error) {
	return s.store.UpdateItem(id, index, patch)
}

func (s *RankingService) Delete(id string) error {
	return s.store.Delete(id)
}
