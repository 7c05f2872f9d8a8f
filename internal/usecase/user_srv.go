package usecase

import (
	"context"
	"fmt"

	"smartclub/internal/data/entity"
	"smartclub/internal/data/repository"
	"smartclub/internal/dto/request"
	"smartclub/internal/dto/response"
	"smartclub/pkg/clock"
	"smartclub/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID string) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	clock       clock.Clock
	log         *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	clk clock.Clock,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		clock:       clk,
		log:         log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID string, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	user, err := us.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Phone != nil {
		phone := utils.NormalizePhone(*req.Phone)
		if phone != user.Phone {
			other, err := us.userRepo.FindByPhone(ctx, phone)
			if err != nil {
				return nil, fmt.Errorf("check phone: %w", err)
			}
			if other != nil {
				return nil, ErrPhoneTaken
			}
			user.Phone = phone
		}
	}

	passwordChanged := false
	if req.Password != nil {
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			us.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hashedPassword
		passwordChanged = true
	}
	user.UpdatedAt = us.clock.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	// a new password logs out every device, the caller logs in again
	if passwordChanged {
		if err := us.sessionRepo.RevokeAllUserSessions(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("revoke sessions after password change: %w", err)
		}
		us.log.Info("Password changed, sessions revoked", zap.String("user_id", userID))
	}

	us.log.Info("Profile updated", zap.String("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) findUser(ctx context.Context, userID string) (*entity.User, error) {
	id, err := utils.ParseUUID(userID)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := us.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
