// Package seed provides helpers to create baseline and demo data for the
// application database. Baseline rows (categories, tags, the About
// record) are safe to apply on every boot; everything else is intended
// for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumProjects int
	ShouldClean bool

	// DryRun builds entities without touching the database.
	DryRun bool
	// MaxDays bounds the backdating spread of generated timestamps.
	MaxDays int
}

// BaselineCategory is a permanent browse category.
type BaselineCategory struct {
	Name  string
	Color string
}

// BaselineCategories defines the permanent browse categories.
var BaselineCategories = []BaselineCategory{
	{Name: "Web Development", Color: "#007bff"},
	{Name: "Mobile Apps", Color: "#28a745"},
	{Name: "Data Science", Color: "#dc3545"},
	{Name: "Design", Color: "#fd7e14"},
	{Name: "API Development", Color: "#6f42c1"},
	{Name: "Machine Learning", Color: "#17a2b8"},
}

// BaselineTags defines the permanent tag vocabulary. Projects may add
// more through the admin surface; these just make filtering useful on
// day one.
var BaselineTags = []string{
	"React", "Python", "Flask", "JavaScript", "Node.js", "HTML/CSS",
	"MongoDB", "PostgreSQL", "API", "Frontend", "Backend", "Full-Stack",
	"Mobile", "iOS", "Android", "UI/UX", "Machine Learning", "Data Analysis",
}

// DefaultAbout is the About record created when none exists yet.
func DefaultAbout() *models.About {
	return &models.About{
		Name:  "Portfolio Owner",
		Title: "Full-Stack Developer & Designer",
		Bio:   "Welcome to my portfolio! I'm passionate about creating beautiful, functional web applications and solving complex problems with elegant solutions.",
		Email: "contact@portfolio.dev",
		Skills: datatypes.NewJSONSlice([]string{
			"JavaScript", "Python", "React", "Node.js", "Flask", "PostgreSQL",
		}),
		Languages: datatypes.NewJSONSlice([]string{
			"English", "Portuguese",
		}),
		Interests: datatypes.NewJSONSlice([]string{
			"Open Source", "Web Design", "Photography", "Travel",
		}),
	}
}

// Baseline seeds the permanent categories, tags, and About record.
// It is idempotent and safe against concurrent boots.
func Baseline(db *gorm.DB) error {
	for _, item := range BaselineCategories {
		category := models.Category{Name: item.Name, Color: item.Color}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"color"}),
		}).Create(&category).Error
		if err != nil {
			return fmt.Errorf("seed baseline category %q: %w", item.Name, err)
		}
	}

	for _, name := range BaselineTags {
		tag := models.Tag{Name: name}
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&tag).Error
		if err != nil {
			return fmt.Errorf("seed baseline tag %q: %w", name, err)
		}
	}

	var count int64
	if err := db.Model(&models.About{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count about rows: %w", err)
	}
	if count == 0 {
		if err := db.Create(DefaultAbout()).Error; err != nil {
			return fmt.Errorf("seed default about: %w", err)
		}
	}

	return nil
}

// Seeder orchestrates demo data creation on top of the baseline rows.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes every non-baseline row. Postgres gets a single
// TRUNCATE; other dialects fall back to ordered deletes.
func (s *Seeder) ClearAll() error {
	log.Println("🗑️  Clearing existing data...")

	if s.db.Dialector.Name() == "postgres" {
		sql := `TRUNCATE TABLE notifications, likes, comments, project_tags, projects, users RESTART IDENTITY CASCADE;`
		return s.db.Exec(sql).Error
	}

	for _, table := range []string{"notifications", "likes", "comments", "project_tags", "projects", "users"} {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedDemo populates the database with generated users, projects, and
// interaction rows. The materialized like/comment counters are
// recomputed at the end so they agree with the tables.
func (s *Seeder) SeedDemo() error {
	log.Printf("🌱 Starting database seeding with %d users and %d projects...", s.opts.NumUsers, s.opts.NumProjects)

	users, err := s.seedUsers(s.opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("✓ %d demo users created", len(users))

	projects, err := s.seedProjects(users, s.opts.NumProjects)
	if err != nil {
		return fmt.Errorf("failed to create projects: %w", err)
	}
	log.Printf("✓ %d projects created", len(projects))

	if err := s.seedEngagement(users, projects); err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if err := s.RecomputeCounters(); err != nil {
		return fmt.Errorf("failed to recompute counters: %w", err)
	}

	log.Println("🎉 Database seeding completed successfully!")
	return nil
}

func (s *Seeder) seedUsers(count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include an owner so the admin surface is reachable.
	owner, err := s.factory.CreateUser(func(u *models.User) {
		u.ID = "demo|owner"
		u.Name = "Portfolio Owner"
		u.Email = "owner@example.com"
		u.Role = models.RoleOwner
	})
	if err != nil {
		return nil, err
	}
	users = append(users, owner)

	for i := len(users); i < count; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			log.Printf("Failed to create user: %v", err)
			continue
		}
		users = append(users, user)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d users...", i)
		}
	}
	return users, nil
}

func (s *Seeder) seedProjects(users []*models.User, count int) ([]*models.Project, error) {
	var categories []models.Category
	if !s.opts.DryRun {
		if err := s.db.Find(&categories).Error; err != nil {
			return nil, err
		}
	}
	var tags []models.Tag
	if !s.opts.DryRun {
		if err := s.db.Find(&tags).Error; err != nil {
			return nil, err
		}
	}

	//nolint:gosec // weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	owner := users[0]

	projects := make([]*models.Project, 0, count)
	for i := 0; i < count; i++ {
		var category *models.Category
		if len(categories) > 0 {
			category = &categories[r.Intn(len(categories))]
		}

		var picked []models.Tag
		if len(tags) > 0 {
			n := 1 + r.Intn(3)
			for _, j := range r.Perm(len(tags))[:min(n, len(tags))] {
				picked = append(picked, tags[j])
			}
		}

		project, err := s.factory.CreateProject(owner, category, picked)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)

		if i%100 == 0 && i > 0 {
			log.Printf("Created %d projects...", i)
		}
	}
	return projects, nil
}

// seedEngagement sprinkles comments and likes across published
// projects. Roughly half the user base likes each popular project.
func (s *Seeder) seedEngagement(users []*models.User, projects []*models.Project) error {
	//nolint:gosec // weak randomness is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	comments, likes := 0, 0
	for _, project := range projects {
		if !project.IsPublished() {
			continue
		}

		for i := 0; i < r.Intn(5); i++ {
			user := users[r.Intn(len(users))]
			if _, err := s.factory.CreateComment(user, project); err != nil {
				return err
			}
			comments++
		}

		for _, user := range users {
			if r.Float32() < 0.35 {
				if err := s.factory.CreateLike(user, project); err != nil {
					return err
				}
				likes++
			}
		}
	}

	log.Printf("✓ %d comments and %d likes created", comments, likes)
	return nil
}

// RecomputeCounters rewrites the materialized aggregates from the
// interaction tables.
func (s *Seeder) RecomputeCounters() error {
	if s.opts.DryRun {
		return nil
	}
	return s.db.Exec(`
		UPDATE projects SET
			likes_count = (SELECT COUNT(*) FROM likes WHERE likes.project_id = projects.id),
			comments_count = (SELECT COUNT(*) FROM comments WHERE comments.project_id = projects.id)
	`).Error
}
