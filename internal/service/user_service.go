package service

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pollboard/internal/domain"
	"pollboard/internal/repository"
	"pollboard/pkg/errors"
)

type userService struct {
	users      repository.UserRepository
	topics     repository.TopicRepository
	bcryptCost int
	logger     *zap.Logger
}

// NewUserService creates the user management service
func NewUserService(users repository.UserRepository, topics repository.TopicRepository, bcryptCost int, logger *zap.Logger) UserService {
	return &userService{
		users:      users,
		topics:     topics,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve users", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewInternalError("Failed to retrieve user", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("User not found")
	}
	return user, nil
}

// Update overwrites the supplied fields, re-checking uniqueness for a
// changed username or email and re-hashing a changed password.
func (s *userService) Update(ctx context.Context, id string, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != user.Username {
		existing, err := s.users.GetByUsername(ctx, *req.Username)
		if err != nil {
			return nil, errors.NewInternalError("Failed to verify user existence", err)
		}
		if existing != nil {
			return nil, errors.NewConflictError("Username already exists", "username")
		}
		user.Username = *req.Username
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, *req.Email)
		if err != nil {
			return nil, errors.NewInternalError("Failed to verify user existence", err)
		}
		if existing != nil {
			return nil, errors.NewConflictError("Email already exists", "email")
		}
		user.Email = *req.Email
	}

	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.NewInternalError("Failed to hash password", err)
		}
		user.PasswordHash = string(hash)
	}

	if req.TopicIDs != nil {
		for _, topicID := range *req.TopicIDs {
			topic, err := s.topics.GetByID(ctx, topicID)
			if err != nil {
				return nil, errors.NewInternalError("Failed to verify topic", err)
			}
			if topic == nil {
				return nil, errors.NewValidationError("Unknown topic reference", map[string]interface{}{
					"topic_id": topicID,
				})
			}
		}
		user.TopicIDs = *req.TopicIDs
	}

	if err := s.users.Update(ctx, user); err != nil {
		if err == domain.ErrUserNotFound {
			return nil, errors.NewNotFoundError("User not found")
		}
		return nil, errors.NewInternalError("Failed to update user", err)
	}

	s.logger.Info("user updated", zap.String("user_id", user.ID))
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if err == domain.ErrUserNotFound {
			return errors.NewNotFoundError("User not found")
		}
		return errors.NewInternalError("Failed to delete user", err)
	}
	return nil
}
