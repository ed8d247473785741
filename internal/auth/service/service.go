package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"dealership_crm_backend/internal/access"
	"dealership_crm_backend/internal/auth/password"
	"dealership_crm_backend/internal/auth/repository"
	"dealership_crm_backend/internal/auth/token"
	"dealership_crm_backend/internal/auth/transport"
	"dealership_crm_backend/internal/events"
	"dealership_crm_backend/platform/apperr"
	"dealership_crm_backend/platform/config"
	"dealership_crm_backend/platform/logger"
	"dealership_crm_backend/platform/sanitize"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

const (
	accessTokenType = "access"
	msgUserNotFound = "user not found"
)

type Service struct {
	repo     repository.AuthRepository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
	now      func() time.Time
}

func New(repo repository.AuthRepository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log, now: time.Now}
}

// SignIn returns an access token and a refresh token.
func (s *Service) SignIn(ctx context.Context, email, plainPassword string) (string, string, error) {
	user, err := s.repo.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		s.log.AuthEvent("sign_in", email, false, "unknown email")
		return "", "", ErrInvalidCredentials
	}

	if err := password.Compare(user.PasswordHash, plainPassword); err != nil {
		s.log.AuthEvent("sign_in", email, false, "wrong password")
		return "", "", ErrInvalidCredentials
	}

	s.log.AuthEvent("sign_in", email, true, "")
	return s.issueTokens(ctx, user)
}

// Refresh rotates the refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	digest := token.Digest(refreshToken)
	userID, expiresAt, err := s.repo.GetRefreshToken(ctx, digest)
	if err != nil {
		return "", "", ErrTokenInvalid
	}

	_ = s.repo.RevokeRefreshToken(ctx, digest)
	if s.now().After(expiresAt) {
		return "", "", ErrTokenExpired
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return "", "", ErrTokenInvalid
	}
	return s.issueTokens(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	return s.repo.RevokeRefreshToken(ctx, token.Digest(refreshToken))
}

func (s *Service) GetMe(ctx context.Context, userID int64) (transport.UserResponse, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, userNotFound(err)
	}
	return toUserResponse(user), nil
}

// UpdateMe changes the caller's display name. Role and targets are
// managed by managers only.
func (s *Service) UpdateMe(ctx context.Context, userID int64, name string) (transport.UserResponse, error) {
	clean := sanitize.Line(name)
	if clean == "" {
		return transport.UserResponse{}, apperr.Validation("name is required")
	}
	user, err := s.repo.UpdateUserName(ctx, userID, clean)
	if err != nil {
		return transport.UserResponse{}, userNotFound(err)
	}
	return toUserResponse(user), nil
}

// CreateUser is used by managers to open accounts.
func (s *Service) CreateUser(ctx context.Context, actor access.Actor, req transport.CreateUserRequest) (transport.UserResponse, error) {
	role, err := access.ParseRole(req.Role)
	if err != nil {
		return transport.UserResponse{}, apperr.Validation(err.Error())
	}
	if err := validateTargets(req.TargetPrice, req.Commission, req.BonusCommission); err != nil {
		return transport.UserResponse{}, err
	}
	if len(req.Password) < password.MinLength {
		return transport.UserResponse{}, apperr.Validation("password is too short")
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return transport.UserResponse{}, err
	}

	user, err := s.repo.CreateUser(ctx, repository.CreateUserParams{
		Name:            sanitize.Line(req.Name),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:    hash,
		Role:            role.String(),
		TargetPrice:     req.TargetPrice,
		Commission:      req.Commission,
		BonusCommission: req.BonusCommission,
	})
	if errors.Is(err, repository.ErrEmailTaken) {
		return transport.UserResponse{}, apperr.Conflict(err.Error())
	}
	if err != nil {
		return transport.UserResponse{}, err
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.UserCreated{
			BaseEvent: events.NewBaseEvent(),
			UserID:    user.ID,
			Name:      user.Name,
			Email:     user.Email,
			Role:      user.Role,
			CreatedBy: actor.UserID,
		})
	}
	return toUserResponse(user), nil
}

func (s *Service) ListUsers(ctx context.Context, role string) ([]transport.UserResponse, error) {
	var filter *string
	if role != "" {
		parsed, err := access.ParseRole(role)
		if err != nil {
			return nil, apperr.Validation(err.Error())
		}
		r := parsed.String()
		filter = &r
	}

	users, err := s.repo.ListUsers(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]transport.UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out, nil
}

// SetUserRole changes another user's role. Nobody can change their own.
// Outstanding refresh tokens are revoked so the next session carries the new role.
func (s *Service) SetUserRole(ctx context.Context, actor access.Actor, userID int64, role string) (transport.UserResponse, error) {
	if actor.UserID == userID {
		return transport.UserResponse{}, apperr.Forbidden("you cannot change your own role")
	}
	parsed, err := access.ParseRole(role)
	if err != nil {
		return transport.UserResponse{}, apperr.Validation(err.Error())
	}

	current, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, userNotFound(err)
	}
	if current.Role == parsed.String() {
		return toUserResponse(current), nil
	}

	user, err := s.repo.SetUserRole(ctx, userID, parsed.String())
	if err != nil {
		return transport.UserResponse{}, userNotFound(err)
	}
	if err := s.repo.RevokeAllRefreshTokens(ctx, userID); err != nil {
		s.log.Warn("revoke refresh tokens after role change failed", "userId", userID, "error", err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.UserRoleChanged{
			BaseEvent: events.NewBaseEvent(),
			UserID:    userID,
			OldRole:   current.Role,
			NewRole:   user.Role,
			ChangedBy: actor.UserID,
		})
	}
	return toUserResponse(user), nil
}

func (s *Service) SetTargets(ctx context.Context, userID int64, req transport.TargetsRequest) (transport.UserResponse, error) {
	if err := validateTargets(req.TargetPrice, req.Commission, req.BonusCommission); err != nil {
		return transport.UserResponse{}, err
	}
	user, err := s.repo.UpdateTargets(ctx, userID, repository.Targets{
		TargetPrice:     req.TargetPrice,
		Commission:      req.Commission,
		BonusCommission: req.BonusCommission,
	})
	if err != nil {
		return transport.UserResponse{}, userNotFound(err)
	}
	return toUserResponse(user), nil
}

func (s *Service) GetCategoryLimits(ctx context.Context, userID int64) ([]transport.CategoryLimitResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, userNotFound(err)
	}
	limits, err := s.repo.ListCategoryLimits(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toCategoryLimitResponses(limits), nil
}

// SetCategoryLimits upserts quotas by category. Categories are compared
// case-insensitively and may appear only once per request.
func (s *Service) SetCategoryLimits(ctx context.Context, userID int64, req transport.CategoryLimitsRequest) ([]transport.CategoryLimitResponse, error) {
	if _, err := s.repo.GetUserByID(ctx, userID); err != nil {
		return nil, userNotFound(err)
	}

	seen := make(map[string]struct{}, len(req.Limits))
	limits := make([]repository.CategoryLimit, 0, len(req.Limits))
	for _, item := range req.Limits {
		category := strings.ToLower(sanitize.Line(item.Category))
		if category == "" {
			return nil, apperr.Validation("category is required")
		}
		if item.Quota < 0 {
			return nil, apperr.Validation("quota cannot be negative")
		}
		if _, dup := seen[category]; dup {
			return nil, apperr.Validation("duplicate category " + strconv.Quote(category))
		}
		seen[category] = struct{}{}
		limits = append(limits, repository.CategoryLimit{Category: category, Quota: item.Quota})
	}

	if err := s.repo.UpsertCategoryLimits(ctx, userID, limits); err != nil {
		return nil, err
	}
	return s.GetCategoryLimits(ctx, userID)
}

func (s *Service) issueTokens(ctx context.Context, user repository.User) (string, string, error) {
	accessToken, err := s.signJWT(user, s.cfg.GetAccessTokenTTL())
	if err != nil {
		return "", "", err
	}

	refreshToken, digest, err := token.New(token.RefreshTokenBytes)
	if err != nil {
		return "", "", err
	}

	expiresAt := s.now().Add(s.cfg.GetRefreshTokenTTL())
	if err := s.repo.CreateRefreshToken(ctx, user.ID, digest, expiresAt); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func (s *Service) signJWT(user repository.User, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(user.ID, 10),
		"type": accessTokenType,
		"role": user.Role,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func validateTargets(values ...*decimal.Decimal) error {
	for _, v := range values {
		if v != nil && v.IsNegative() {
			return apperr.Validation("targets and commissions cannot be negative")
		}
	}
	return nil
}

func userNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(msgUserNotFound)
	}
	return err
}

func toUserResponse(u repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		Role:            u.Role,
		TargetPrice:     u.TargetPrice,
		Commission:      u.Commission,
		BonusCommission: u.BonusCommission,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toCategoryLimitResponses(limits []repository.CategoryLimit) []transport.CategoryLimitResponse {
	out := make([]transport.CategoryLimitResponse, len(limits))
	for i, l := range limits {
		out[i] = transport.CategoryLimitResponse{Category: l.Category, Quota: l.Quota, UpdatedAt: l.UpdatedAt}
	}
	return out
}
