package response

import "smartclub/internal/data/entity"

type ClubResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Location  string   `json:"location"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

type ClubDetailResponse struct {
	ClubResponse
	Description string              `json:"description"`
	Phone       string              `json:"phone"`
	Email       string              `json:"email"`
	Website     string              `json:"website"`
	Prices      []PriceItemResponse `json:"prices"`
	TotalSeats  int                 `json:"total_seats"`
	VIPSeats    int                 `json:"vip_seats"`
}

type PriceItemResponse struct {
	Category        string `json:"category,omitempty"`
	Service         string `json:"service,omitempty"`
	Type            string `json:"type,omitempty"`
	ResourceType    string `json:"resource_type,omitempty"`
	Price           string `json:"price,omitempty"`
	PriceNumber     *int   `json:"price_number,omitempty"`
	Unit            string `json:"unit,omitempty"`
	DurationMinutes *int   `json:"duration_minutes,omitempty"`
	Bookable        *bool  `json:"bookable,omitempty"`
	TimeWindowStart string `json:"time_window_start,omitempty"`
	TimeWindowEnd   string `json:"time_window_end,omitempty"`
	VIPOnly         *bool  `json:"vip_only,omitempty"`
	MinSeats        *int   `json:"min_seats,omitempty"`
	MaxSeats        *int   `json:"max_seats,omitempty"`
}

type SeatResponse struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	IsVIP bool   `json:"is_vip"`
	Order int    `json:"order"`
}

func ClubToResponse(club *entity.Club) ClubResponse {
	return ClubResponse{
		ID:        club.ID,
		Name:      club.Name,
		Image:     club.Image,
		Location:  club.Location,
		Address:   club.Address,
		Latitude:  club.Latitude,
		Longitude: club.Longitude,
	}
}

func ClubToDetailResponse(club *entity.Club, seats []*entity.Seat) ClubDetailResponse {
	resp := ClubDetailResponse{
		ClubResponse: ClubToResponse(club),
		Description:  club.Description,
		Phone:        club.Phone,
		Email:        club.Email,
		Website:      club.Website,
		Prices:       make([]PriceItemResponse, 0, len(club.Prices)),
		TotalSeats:   len(seats),
	}

	for _, item := range club.Prices {
		resp.Prices = append(resp.Prices, PriceItemToResponse(item))
	}
	for _, seat := range seats {
		if seat.IsVIP {
			resp.VIPSeats++
		}
	}

	return resp
}

func PriceItemToResponse(item entity.PriceItem) PriceItemResponse {
	return PriceItemResponse{
		Category:        item.Category,
		Service:         item.Service,
		Type:            item.Type,
		ResourceType:    item.ResourceType,
		Price:           item.Price,
		PriceNumber:     item.PriceNumber,
		Unit:            item.Unit,
		DurationMinutes: item.DurationMinutes,
		Bookable:        item.Bookable,
		TimeWindowStart: item.TimeWindowStart,
		TimeWindowEnd:   item.TimeWindowEnd,
		VIPOnly:         item.VIPOnly,
		MinSeats:        item.MinSeats,
		MaxSeats:        item.MaxSeats,
	}
}

func SeatToResponse(seat *entity.Seat) SeatResponse {
	return SeatResponse{
		ID:    seat.ID,
		Label: seat.Label,
		IsVIP: seat.IsVIP,
		Order: seat.Order,
	}
}

func SeatsToResponse(seats []*entity.Seat) []SeatResponse {
	out := make([]SeatResponse, 0, len(seats))
	for _, seat := range seats {
		out = append(out, SeatToResponse(seat))
	}
	return out
}
