package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sime65123/gym-project/internal/config"
	"github.com/sime65123/gym-project/internal/dto"
	"github.com/sime65123/gym-project/internal/model"
	"github.com/sime65123/gym-project/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error)
	ListUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	DeactivateUser(ctx context.Context, id uuid.UUID) error
}

type authService struct {
	repo repository.UserRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

// Register creates a self-service CLIENT account. Staff accounts go through
// CreateUser, which is admin-only.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         "CLIENT",
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrDuplicate)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	return s.tokenPair(user)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("malformed token")
	}
	uid, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, errors.New("malformed token")
	}

	user, err := s.repo.FindByID(ctx, uid)
	if err != nil || !user.Active {
		return nil, errors.New("user not found or inactive")
	}

	return s.tokenPair(user)
}

func (s *authService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         req.Role,
		Active:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrDuplicate)
	}
	resp := userToResponse(user)
	return &resp, nil
}

func (s *authService) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(&users[i])
	}
	return resp, nil
}

func (s *authService) GetUser(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	resp := userToResponse(user)
	return &resp, nil
}

// UpdateProfile applies partial changes; a password change returns a fresh
// token pair so the client can keep its session without re-login.
func (s *authService) UpdateProfile(ctx context.Context, id uuid.UUID, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: user", ErrNotFound)
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Email != "" {
		user.Email = req.Email
	}

	passwordChanged := false
	if req.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
		passwordChanged = true
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := &dto.ProfileResponse{UserResponse: userToResponse(user)}
	if passwordChanged {
		tokens, err := s.tokenPair(user)
		if err != nil {
			return nil, err
		}
		resp.Tokens = tokens
	}
	return resp, nil
}

func (s *authService) DeactivateUser(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: user", ErrNotFound)
	}
	user.Active = false
	return s.repo.Update(ctx, user)
}

func (s *authService) tokenPair(user *model.User) (*dto.LoginResponse, error) {
	accessToken, err := s.generateToken(user, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateToken(user, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		User:         userToResponse(user),
	}, nil
}

func (s *authService) generateToken(user *model.User, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userToResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID.String(),
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Role:      u.Role,
		Balance:   u.Balance,
		Active:    u.Active,
	}
}
