package models

// Origin tags where a ranked item was experienced: powder prepared at home or a
// drink ordered at a cafe.
type Origin string

const (
	OriginHome Origin = "home"
	OriginCafe Origin = "cafe"
)

// Valid reports whether o is one of the known origins.
func (o Origin) Valid() bool {
	return o == OriginHome || o == OriginCafe
}

// RankedItem is a single entry inside a Ranking. Items carry no identity of their
// own in the API; ID and Position exist for storage only (Position preserves
// insertion order across reloads). UserID is denormalized from the owning ranking
// so ux_user_item can enforce per-user uniqueness of (name, origin) in the
// database.
type RankedItem struct {
	ID          string  `gorm:"primary_key;size:36" json:"-"`
	RankingID   string  `gorm:"size:36;not null;index" json:"-"`
	UserID      string  `gorm:"size:36;not null;unique_index:ux_user_item" json:"-"`
	Position    int     `gorm:"not null" json:"-"`
	Name        string  `gorm:"size:255;not null;unique_index:ux_user_item" json:"name" form:"name"`
	Origin      Origin  `gorm:"size:16;not null;unique_index:ux_user_item" json:"origin" form:"origin"`
	Rating      float64 `gorm:"not null" json:"rating" form:"rating"`
	CostPerGram float64 `gorm:"not null" json:"cost_per_gram" form:"cost_per_gram"`
}
