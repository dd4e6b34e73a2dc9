package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pollboard/internal/domain"
	"pollboard/internal/repository"
	"pollboard/pkg/errors"
)

type authService struct {
	users      repository.UserRepository
	topics     repository.TopicRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	logger     *zap.Logger
}

// NewAuthService creates the authentication service. The secret signs and
// verifies HS256 tokens; bcryptCost controls password hashing work factor.
func NewAuthService(users repository.UserRepository, topics repository.TopicRepository, secret string, tokenTTL time.Duration, bcryptCost int, logger *zap.Logger) AuthService {
	return &authService{
		users:      users,
		topics:     topics,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Register creates a new account. Uniqueness of username and email is
// pre-checked here; the store's unique constraints backstop the
// check-then-write window under concurrent signups.
func (s *authService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	if existing, err := s.users.GetByUsername(ctx, req.Username); err != nil {
		return nil, errors.NewInternalError("Failed to verify user existence", err)
	} else if existing != nil {
		return nil, errors.NewConflictError("Username already exists", "username")
	}

	if existing, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		return nil, errors.NewInternalError("Failed to verify user existence", err)
	} else if existing != nil {
		return nil, errors.NewConflictError("Email already exists", "email")
	}

	for _, topicID := range req.TopicIDs {
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

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.NewInternalError("Failed to hash password", err)
	}

	user := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		// Verification is handled by an external mail flow; accounts start
		// verified until that flow is wired in.
		EmailVerified: true,
		TopicIDs:      req.TopicIDs,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, errors.NewInternalError("Failed to create user", err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("username", user.Username))
	return user, nil
}

// Login verifies credentials and issues a signed HS256 token
func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewInternalError("Failed to look up user", err)
	}
	if user == nil {
		return nil, errors.NewValidationError("Invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewValidationError("Invalid email or password", nil)
	}

	if !user.EmailVerified {
		return nil, errors.NewAuthorizationError("Email address is not verified")
	}

	now := time.Now()
	expiresAt := now.Add(s.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"iat":      now.Unix(),
		"exp":      expiresAt.Unix(),
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, errors.NewInternalError("Failed to sign token", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))

	return &domain.LoginResult{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// VerifyToken validates an HS256 token and returns the decoded claims
func (s *authService) VerifyToken(ctx context.Context, tokenString string) (*domain.AuthClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewAuthenticationError("Invalid or expired token")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return nil, errors.NewAuthenticationError("Token has expired")
		}
	}

	decoded := &domain.AuthClaims{
		UserID:   getStringClaim(claims, "sub"),
		Username: getStringClaim(claims, "username"),
		Email:    getStringClaim(claims, "email"),
	}
	if iat, ok := claims["iat"].(float64); ok {
		decoded.IssuedAt = int64(iat)
	}
	if exp, ok := claims["exp"].(float64); ok {
		decoded.Expires = int64(exp)
	}

	if decoded.UserID == "" {
		return nil, errors.NewAuthenticationError("Invalid token: no user identifier")
	}
	return decoded, nil
}

func getStringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return value
	}
	return ""
}
