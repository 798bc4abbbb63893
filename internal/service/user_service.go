package service

import (
	"context"

	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
)

type UserService struct {
	userRepo  repository.UserRepository
	statsRepo repository.StatsRepository
}

type EnsureUserInput struct {
	Subject   string
	Name      string
	Email     string
	AvatarURL string
}

type SetRoleInput struct {
	ActorID  string
	TargetID string
	Role     string
}

// Profile bundles a user with their interaction stats for the profile page.
type Profile struct {
	User  *models.User             `json:"user"`
	Stats *repository.ProfileStats `json:"stats"`
}

func NewUserService(userRepo repository.UserRepository, statsRepo repository.StatsRepository) *UserService {
	return &UserService{userRepo: userRepo, statsRepo: statsRepo}
}

// EnsureUser resolves a verified external identity to the local user row,
// creating it on first login. The first user ever seen becomes the owner.
func (s *UserService) EnsureUser(ctx context.Context, in EnsureUserInput) (*models.User, error) {
	if in.Subject == "" {
		return nil, models.NewValidationError("Auth subject is required")
	}
	return s.userRepo.Ensure(ctx, &models.User{
		ID:        in.Subject,
		Name:      in.Name,
		Email:     in.Email,
		AvatarURL: in.AvatarURL,
	})
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Stats: stats}, nil
}

// IsStaff reports whether the user may manage content owned by others.
// Sibling services receive this as their injected capability check.
func (s *UserService) IsStaff(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsStaff(), nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.userRepo.List(ctx, limit, offset)
}

// SetRole promotes or demotes a member. Only the owner changes roles, and
// the owner role itself is fixed at bootstrap.
func (s *UserService) SetRole(ctx context.Context, in SetRoleInput) (*models.User, error) {
	if in.Role != models.RoleMember && in.Role != models.RoleAdmin {
		return nil, models.NewValidationError("Role must be member or admin")
	}

	actor, err := s.userRepo.GetByID(ctx, in.ActorID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleOwner {
		return nil, models.NewUnauthorizedError("Only the owner can change roles")
	}

	target, err := s.userRepo.GetByID(ctx, in.TargetID)
	if err != nil {
		return nil, err
	}
	if target.Role == models.RoleOwner {
		return nil, models.NewValidationError("The owner role cannot be changed")
	}
	if target.Role == in.Role {
		return target, nil
	}

	target.Role = in.Role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}
