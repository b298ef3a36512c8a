package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/si-mbkm/mbkm-api/internal/dto"
	"github.com/si-mbkm/mbkm-api/internal/models"
	"github.com/si-mbkm/mbkm-api/pkg/database"
	appErrors "github.com/si-mbkm/mbkm-api/pkg/errors"
)

type authUserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, profile models.Profile) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret         string
	Issuer         string
	LoginExpiry    time.Duration
	RegisterExpiry time.Duration
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUserRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUserRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.LoginExpiry <= 0 {
		config.LoginExpiry = 24 * time.Hour
	}
	if config.RegisterExpiry <= 0 {
		config.RegisterExpiry = time.Hour
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Login authenticates a user and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid login payload")
	}

	user, err := s.repo.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, internal(err, "failed to fetch user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	token, err := s.issueToken(user, s.config.LoginExpiry)
	if err != nil {
		return nil, internal(err, "failed to create access token")
	}

	return &models.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.config.LoginExpiry.Seconds()),
		User:      userInfo(user),
	}, nil
}

// Register creates the account and its role row, then returns a short-lived token.
func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*models.RegisterResponse, error) {
	if !models.UserRole(strings.TrimSpace(req.Role)).Valid() {
		return nil, badRequest("invalid role")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid register payload")
	}
	profile, err := req.Profile()
	if err != nil {
		return nil, invalid(err, err.Error())
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internal(err, "failed to hash password")
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateWithProfile(ctx, user, profile); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Wrap(err, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "email or identifier already registered")
		}
		return nil, database.Classify(err, "failed to register user")
	}
	s.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))

	token, err := s.issueToken(user, s.config.RegisterExpiry)
	if err != nil {
		return nil, internal(err, "failed to create access token")
	}

	return &models.RegisterResponse{
		User:      userInfo(user),
		Token:     token,
		ExpiresIn: int64(s.config.RegisterExpiry.Seconds()),
	}, nil
}

// Me returns the account behind verified claims.
func (s *AuthService) Me(ctx context.Context, claims *models.JWTClaims) (*models.UserInfo, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, lookupError(err, "user not found", "failed to load user")
	}
	info := userInfo(user)
	return &info, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.config.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) issueToken(user *models.User, ttl time.Duration) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	if user.Identifier != nil {
		claims.NIPOrNIM = *user.Identifier
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func userInfo(user *models.User) models.UserInfo {
	info := models.UserInfo{ID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}
	if user.Identifier != nil {
		info.NIPOrNIM = *user.Identifier
	}
	return info
}
