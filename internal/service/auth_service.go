package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/trailer-admin/internal/auth"
	"github.com/spec-kit/trailer-admin/internal/config"
	"github.com/spec-kit/trailer-admin/internal/domain"
	"github.com/spec-kit/trailer-admin/internal/repository"
	apperrors "github.com/spec-kit/trailer-admin/pkg/util"
)

const defaultRejectedReason = "Not specified"

// RegisterInput is a self-service registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
	Phone    string
	Address  string
}

// AuthService coordinates registration, login and the approval workflow.
type AuthService struct {
	users      repository.UserRepository
	staff      repository.StaffRepository
	tokenMgr  *auth.TokenManager
	passwords auth.PasswordHasher
	logger    *zap.Logger
	now       Clock
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo  repository.UserRepository
	StaffRepo repository.StaffRepository
	Logger    *zap.Logger
	Clock     Clock
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:     deps.UserRepo,
		staff:     deps.StaffRepo,
		tokenMgr:  auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		passwords: auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		logger:    defaultLogger(deps.Logger),
		now:       defaultClock(deps.Clock),
	}
}

func (s *AuthService) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !apperrors.IsNotFound(err) {
		return apperrors.MapError(err)
	}
	if existing != nil {
		return apperrors.NewConflict("email already registered", map[string]any{"email": email})
	}
	return nil
}

// Register creates a pending user and its inactive staff record. The user row is removed
// again when the staff record cannot be written.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	errs := fieldErrors{}
	errs.require("name", in.Name)
	errs.email("email", in.Email)
	if err := auth.ValidatePassword(in.Password); err != nil {
		errs.add("password", err.Error())
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		errs.add("role", "must be one of staff, manager, admin, super_admin")
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:           strings.TrimSpace(in.Name),
		Email:          email,
		PasswordHash:   hash,
		Role:           role,
		Phone:          in.Phone,
		Address:        in.Address,
		ApprovalStatus: domain.ApprovalPending,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	staff := &domain.StaffMember{
		Name:       user.Name,
		RoleLabel:  role.Label(),
		Department: domain.DepartmentOperations,
		Contact:    user.Email,
		Active:     false,
		UserID:     &user.ID,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("remove user after failed staff record", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	invalid := apperrors.NewUnauthorized("invalid credentials")

	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, "", time.Time{}, invalid
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !user.IsActive {
		return nil, "", time.Time{}, invalid
	}
	switch user.ApprovalStatus {
	case domain.ApprovalPending:
		return nil, "", time.Time{}, apperrors.NewForbidden("your account is pending approval")
	case domain.ApprovalRejected:
		reason := user.RejectionReason
		if reason == "" {
			reason = defaultRejectedReason
		}
		return nil, "", time.Time{}, apperrors.NewDomainError("FORBIDDEN", "your account has been rejected", http.StatusForbidden,
			map[string]any{"reason": reason})
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, invalid
	}

	token, exp, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user, token, exp, nil
}

// Me returns the caller's user record.
func (s *AuthService) Me(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.GetUser(ctx, actor.ID)
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ domain.Actor) error {
	return nil
}

// GetUser fetches one user.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "user", map[string]any{"user_id": id})
	}
	return user, nil
}

// ListUsers lists users with filters.
func (s *AuthService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ListPending returns users awaiting approval.
func (s *AuthService) ListPending(ctx context.Context, limit, offset int) ([]domain.User, error) {
	pending := domain.ApprovalPending
	return s.ListUsers(ctx, repository.UserFilter{ApprovalStatus: &pending, Limit: limit, Offset: offset})
}

func (s *AuthService) managedUser(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	target, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanManageUser(actor.Role, target.Role) {
		return nil, apperrors.NewForbidden("you cannot manage users with this role")
	}
	return target, nil
}

// Approve activates a pending or rejected user and its staff record.
func (s *AuthService) Approve(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	user, err := s.managedUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if user.ApprovalStatus == domain.ApprovalApproved {
		return nil, apperrors.NewValidationError("user is already approved", map[string]any{"user_id": id})
	}

	now := s.now()
	user.ApprovalStatus = domain.ApprovalApproved
	user.ApprovedBy = &actor.ID
	user.ApprovedAt = &now
	user.RejectionReason = ""
	user.IsActive = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookupError(err, "user", map[string]any{"user_id": id})
	}
	if err := s.staff.SetActiveByUser(ctx, user.ID, true); err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Reject refuses a user's registration and deactivates the account. Records are kept.
func (s *AuthService) Reject(ctx context.Context, actor domain.Actor, id, reason string) (*domain.User, error) {
	user, err := s.managedUser(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectedReason
	}
	user.ApprovalStatus = domain.ApprovalRejected
	user.RejectionReason = reason
	user.IsActive = false
	if err := s.users.Update(ctx, user); err != nil {
		return nil, lookupError(err, "user", map[string]any{"user_id": id})
	}
	if err := s.staff.SetActiveByUser(ctx, user.ID, false); err != nil && !apperrors.IsNotFound(err) {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// CreateSuperAdmin bootstraps an approved super_admin with an active staff record.
func (s *AuthService) CreateSuperAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	errs := fieldErrors{}
	errs.require("name", name)
	errs.email("email", email)
	if err := auth.ValidatePassword(password); err != nil {
		errs.add("password", err.Error())
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now()
	user := &domain.User{
		Name:           strings.TrimSpace(name),
		Email:          email,
		PasswordHash:   hash,
		Role:           domain.RoleSuperAdmin,
		ApprovalStatus: domain.ApprovalApproved,
		ApprovedAt:     &now,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	staff := &domain.StaffMember{
		Name:       user.Name,
		RoleLabel:  domain.RoleSuperAdmin.Label(),
		Department: domain.DepartmentOperations,
		Contact:    user.Email,
		Active:     true,
		UserID:     &user.ID,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
			s.logger.Error("remove user after failed staff record", zap.String("user_id", user.ID), zap.Error(delErr))
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
