package entity

import "time"

type Club struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Description string      `db:"description" json:"description"`
	Image       string      `db:"image" json:"image"`
	Location    string      `db:"location" json:"location"`
	Latitude    *float64    `db:"latitude" json:"latitude"`
	Longitude   *float64    `db:"longitude" json:"longitude"`
	Address     string      `db:"address" json:"address"`
	Phone       string      `db:"phone" json:"phone"`
	Email       string      `db:"email" json:"email"`
	Website     string      `db:"website" json:"website"`
	Prices      []PriceItem `db:"prices" json:"prices"`
	CreatedAt   time.Time   `db:"created_at" json:"-"`

	// Seats only travels with seed files.
	Seats []Seat `db:"-" json:"seats,omitempty"`
}

// PriceItem is one offering of a club price list. It is stored as JSONB, so
// the json tags are the storage format.
type PriceItem struct {
	Category        string `json:"category,omitempty"`
	Service         string `json:"service,omitempty"`
	Type            string `json:"type,omitempty"`
	ResourceType    string `json:"resourceType,omitempty"`
	Price           string `json:"price,omitempty"`
	PriceNumber     *int   `json:"priceNumber,omitempty"`
	Unit            string `json:"unit,omitempty"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	Bookable        *bool  `json:"bookable,omitempty"`
	TimeWindowStart string `json:"timeWindowStart,omitempty"`
	TimeWindowEnd   string `json:"timeWindowEnd,omitempty"`
	VIPOnly         *bool  `json:"vipOnly,omitempty"`
	MinSeats        *int   `json:"minSeats,omitempty"`
	MaxSeats        *int   `json:"maxSeats,omitempty"`
}

// PriceAlias is one named key a price item can be matched by.
type PriceAlias struct {
	Field string
	Value string
}

// Aliases returns the item's naming fields in fixed match order; empty
// fields are skipped.
func (p PriceItem) Aliases() []PriceAlias {
	candidates := []PriceAlias{
		{Field: "service", Value: p.Service},
		{Field: "category", Value: p.Category},
		{Field: "type", Value: p.Type},
		{Field: "resourceType", Value: p.ResourceType},
	}

	aliases := candidates[:0]
	for _, c := range candidates {
		if c.Value != "" {
			aliases = append(aliases, c)
		}
	}
	return aliases
}
