package service

import (
	"context"
	"strings"

	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/repository"

	"gorm.io/datatypes"
)

type AboutService struct {
	aboutRepo repository.AboutRepository
	isStaff   StaffFunc
}

// UpdateAboutInput replaces the singleton profile record's content.
type UpdateAboutInput struct {
	ActorID     string
	Name        string
	Title       string
	Bio         string
	Email       string
	GithubURL   string
	LinkedinURL string
	Skills      []string
	Languages   []string
	Interests   []string
}

func NewAboutService(aboutRepo repository.AboutRepository, isStaff StaffFunc) *AboutService {
	return &AboutService{aboutRepo: aboutRepo, isStaff: isStaff}
}

func (s *AboutService) Get(ctx context.Context) (*models.About, error) {
	return s.aboutRepo.Get(ctx)
}

// Update replaces the profile content. Staff only; the record is a
// singleton so there is no id to resolve.
func (s *AboutService) Update(ctx context.Context, in UpdateAboutInput) (*models.About, error) {
	if err := requireStaff(ctx, s.isStaff, in.ActorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Name is required")
	}

	about, err := s.aboutRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	about.Name = name
	about.Title = in.Title
	about.Bio = in.Bio
	about.Email = in.Email
	about.GithubURL = in.GithubURL
	about.LinkedinURL = in.LinkedinURL
	about.Skills = datatypes.NewJSONSlice(in.Skills)
	about.Languages = datatypes.NewJSONSlice(in.Languages)
	about.Interests = datatypes.NewJSONSlice(in.Interests)

	if err := s.aboutRepo.Update(ctx, about); err != nil {
		return nil, err
	}
	return about, nil
}
