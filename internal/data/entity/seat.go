package entity

// Seat is seeded with its club and never edited through the API.
type Seat struct {
	ID     string `db:"id" json:"id"`
	ClubID string `db:"club_id" json:"clubId"`
	Label  string `db:"label" json:"label"`
	IsVIP  bool   `db:"is_vip" json:"isVip"`
	Order  int    `db:"seat_order" json:"order"`
}
