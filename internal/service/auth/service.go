package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/m04kA/SMC-ClinicService/internal/domain"
	userRepo "github.com/m04kA/SMC-ClinicService/internal/infra/storage/user"
	"github.com/m04kA/SMC-ClinicService/internal/service/auth/models"
)

const (
	issuer            = "clinic-service"
	minPasswordLength = 6

	loginSuccess = "success"
	loginFailed  = "failed"
	loginError   = "error"
)

// Service вход сотрудников и проверка токенов
type Service struct {
	userRepo   UserRepository
	secret     []byte
	tokenTTL   time.Duration
	bcryptCost int
	now        func() time.Time
	metrics    Metrics
	logger     Logger
}

// NewService создает новый экземпляр сервиса авторизации
func NewService(userRepo UserRepository, secret string, tokenTTL time.Duration, metrics Metrics, logger Logger) *Service {
	return &Service{
		userRepo:   userRepo,
		secret:     []byte(secret),
		tokenTTL:   tokenTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		metrics:    metrics,
		logger:     logger,
	}
}

// Register создает сотрудника с bcrypt хешем пароля
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.UserResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	role := domain.Role(req.Role)

	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", ErrInvalidInput)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	if !domain.IsValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: Register - hash password: %v", ErrInternal, err)
	}

	created, err := s.userRepo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, userRepo.ErrDuplicate) {
			s.logger.Warn("Register: email %s already registered", email)
			return nil, ErrDuplicate
		}
		s.logger.Error("Register: repository error: %v", err)
		return nil, fmt.Errorf("%w: Register - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Register: created user id=%d, role=%s", created.ID, created.Role)
	resp := models.FromDomainUser(created)
	return &resp, nil
}

// Login проверяет email, роль и пароль и выпускает JWT
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || req.Role == "" {
		s.metrics.ObserveLogin(loginFailed)
		return nil, fmt.Errorf("%w: email, password and role are required", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			s.logger.Warn("Login: unknown email")
			s.metrics.ObserveLogin(loginFailed)
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("Login: repository error: %v", err)
		s.metrics.ObserveLogin(loginError)
		return nil, fmt.Errorf("%w: Login - repository error: %v", ErrInternal, err)
	}

	if string(user.Role) != req.Role {
		s.logger.Warn("Login: role mismatch for user id=%d", user.ID)
		s.metrics.ObserveLogin(loginFailed)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("Login: wrong password for user id=%d", user.ID)
		s.metrics.ObserveLogin(loginFailed)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	claims := models.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("Login: failed to sign token: %v", err)
		s.metrics.ObserveLogin(loginError)
		return nil, fmt.Errorf("%w: Login - sign token: %v", ErrInternal, err)
	}

	s.logger.Info("Login: user id=%d logged in as %s", user.ID, user.Role)
	s.metrics.ObserveLogin(loginSuccess)

	return &models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      models.FromDomainUser(user),
	}, nil
}

// ValidateToken проверяет подпись и срок действия токена
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Issuer != issuer {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}

	return claims, nil
}

// Me данные сотрудника по токену
func (s *Service) Me(ctx context.Context, claims *models.Claims) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("%w: Me - repository error: %v", ErrInternal, err)
	}
	resp := models.FromDomainUser(user)
	return &resp, nil
}
