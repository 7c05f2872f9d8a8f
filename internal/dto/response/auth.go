package response

import (
	"time"

	"smartclub/internal/data/entity"
	"smartclub/pkg/utils"
)

type AuthResponse struct {
	UserID    string          `json:"user_id"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	FirstName string          `json:"first_name"`
	Phone     string          `json:"phone"`
	Role      entity.UserRole `json:"role"`
}

type UserResponse struct {
	ID             string          `json:"id"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	Phone          string          `json:"phone"`
	PhoneFormatted string          `json:"phone_formatted"`
	Role           entity.UserRole `json:"role"`
	CreatedAt      time.Time       `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:             user.ID.String(),
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Phone:          user.Phone,
		PhoneFormatted: utils.FormatPhone(user.Phone),
		Role:           user.Role,
		CreatedAt:      user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, session *entity.Session) AuthResponse {
	resp := AuthResponse{
		UserID:    user.ID.String(),
		FirstName: user.FirstName,
		Phone:     user.Phone,
		Role:      user.Role,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
