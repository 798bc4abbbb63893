// Command main runs the database seeder for the portfolio backend.
package main

import (
	"flag"
	"log"

	"github.com/pe-odake/Portifolio-Web/internal/config"
	"github.com/pe-odake/Portifolio-Web/internal/database"
	"github.com/pe-odake/Portifolio-Web/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 25, "Number of users to create")
	numProjects := flag.Int("projects", 40, "Number of projects to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	preset := flag.String("preset", "", "Apply a seeder preset by name or YAML file path")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")

	opts := seed.Options{
		NumUsers:    *numUsers,
		NumProjects: *numProjects,
		ShouldClean: *shouldClean,
	}

	if *preset != "" {
		p, err := seed.ResolvePreset(*preset)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("Applying preset %q: %s\n", p.Name, p.Description)
		opts.NumUsers = p.Users
		opts.NumProjects = p.Projects
		opts.ShouldClean = p.Clean
	} else {
		log.Printf("Target: %d users, %d projects, clean=%v\n", opts.NumUsers, opts.NumProjects, opts.ShouldClean)
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db, opts)

	if opts.ShouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := seed.Baseline(db); err != nil {
		log.Fatalf("❌ Baseline seeding failed: %v", err)
	}

	if err := s.SeedDemo(); err != nil {
		log.Fatalf("❌ Demo seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
}
