package store

import (
	"errors"
	"fmt"

	"github.com/emiilyxiia/microservices-3/models"
)

// Failure taxonomy of the persistence boundary. Implementations wrap these with
// detail; callers match with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("store unavailable")
)

// ItemPatch carries the optional fields of a single-item update. Nil means
// "leave as is".
type ItemPatch struct {
	Name        *string
	Origin      *models.Origin
	Rating      *float64
	CostPerGram *float64
}

// RankingStore is the persistence boundary for rankings and their items.
// Every mutating call commits before returning; create and replace are
// all-or-nothing from the point of view of concurrent readers.
type RankingStore interface {
	// Create persists a ranking and its items atomically. It fails with
	// ErrConflict when the id is taken or when any item collides (same name and
	// origin) with an item in any of the user's rankings, payload included.
	Create(ranking *models.Ranking) (*models.Ranking, error)
	// Get returns the ranking with items in insertion order, or ErrNotFound.
	Get(id string) (*models.Ranking, error)
	// ListByUser returns all rankings owned by the user, possibly none.
	ListByUser(userID string) ([]models.Ranking, error)
	// ReplaceItems swaps the full item list and refreshes updated_at. Items that
	// collide with another ranking of the same user are ErrConflict.
	ReplaceItems(id string, items []models.RankedItem) (*models.Ranking, error)
	// UpdateItem applies the non-nil patch fields to the item at the given
	// insertion-order position. An out-of-range index is ErrNotFound and leaves
	// updated_at untouched; patching name or origin into a collision with another
	// item of the same user is ErrConflict.
	UpdateItem(id string, index int, patch ItemPatch) (*models.Ranking, error)
	// Delete removes the ranking and cascades to its items.
	Delete(id string) error
}

type itemKey struct {
	name   string
	origin models.Origin
}

// checkDuplicates enforces per-user uniqueness of (name, origin). existing holds
// the items already stored for the user, candidates the incoming payload, which is
// also checked against itself.
func checkDuplicates(existing, candidates []models.RankedItem) error {
	seen := make(map[itemKey]struct{}, len(existing)+len(candidates))
	for _, it := range existing {
		seen[itemKey{it.Name, it.Origin}] = struct{}{}
	}
	for _, it := range candidates {
		k := itemKey{it.Name, it.Origin}
		if _, ok := seen[k]; ok {
			return duplicateItem(it.Name, it.Origin)
		}
		seen[k] = struct{}{}
	}
	return nil
}

func duplicateItem(name string, origin models.Origin) error {
	return fmt.Errorf("item %q with origin %q already exists for this user: %w",
		name, origin, ErrConflict)
}

func unavailable(err error) error {
	return fmt.Errorf("%v: %w", err, ErrUnavailable)
}
