package models

import "time"

// Ranking is a user-owned, insertion-ordered collection of ranked matcha items.
// The id is supplied by the client at creation; one user may own several rankings.
// Rule: within one user's rankings no two items share (name, origin).
type Ranking struct {
	ID        string       `gorm:"primary_key;size:36" json:"id" form:"id"`
	UserID    string       `gorm:"size:36;not null;index" json:"user_id" form:"user_id"`
	Items     []RankedItem `gorm:"foreignkey:RankingID" json:"items"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// Clone returns a deep copy, so callers can reshape the item list without
// touching the stored row.
func (r Ranking) Clone() Ranking {
	c := r
	c.Items = make([]RankedItem, len(r.Items))
	copy(c.Items, r.Items)
	return c
}
