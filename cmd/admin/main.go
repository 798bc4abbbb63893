// Package main provides operator utilities for managing user roles.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/pe-odake/Portifolio-Web/internal/config"
	"github.com/pe-odake/Portifolio-Web/internal/database"
	"github.com/pe-odake/Portifolio-Web/internal/models"

	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run ./cmd/admin promote <user_id>   - Promote a member to admin")
		fmt.Println("  go run ./cmd/admin demote <user_id>    - Demote an admin to member")
		fmt.Println("  go run ./cmd/admin list-staff          - List admins and the owner")
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch command := os.Args[1]; command {
	case "promote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin promote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleAdmin)

	case "demote":
		if len(os.Args) < 3 {
			fmt.Println("Usage: go run ./cmd/admin demote <user_id>")
			os.Exit(1)
		}
		setRole(db, os.Args[2], models.RoleMember)

	case "list-staff":
		listStaff(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func setRole(db *gorm.DB, userID, role string) {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Printf("User %s not found\n", userID)
		} else {
			log.Fatalf("Database error: %v", err)
		}
		os.Exit(1)
	}

	// The owner role is assigned at first login and never changes here.
	if user.Role == models.RoleOwner {
		fmt.Printf("User %s (%s) is the owner; role unchanged\n", user.DisplayName(), user.ID)
		os.Exit(1)
	}

	if user.Role == role {
		fmt.Printf("User %s (%s) is already a %s\n", user.DisplayName(), user.ID, role)
		return
	}

	user.Role = role
	if err := db.Save(&user).Error; err != nil {
		log.Fatalf("Failed to update role: %v", err)
	}

	fmt.Printf("✅ User %s (%s) is now a %s\n", user.DisplayName(), user.ID, role)
}

func listStaff(db *gorm.DB) {
	var staff []models.User
	err := db.Where("role IN ?", []string{models.RoleAdmin, models.RoleOwner}).
		Order("role desc, created_at asc").
		Find(&staff).Error
	if err != nil {
		log.Fatalf("Failed to fetch staff: %v", err)
	}

	if len(staff) == 0 {
		fmt.Println("No staff users found")
		return
	}

	fmt.Println("\n📋 Staff:")
	fmt.Println("─────────────────────────────────────")
	for _, u := range staff {
		fmt.Printf("%-7s | %s | %s | %s\n", u.Role, u.ID, u.DisplayName(), u.Email)
	}
	fmt.Println("─────────────────────────────────────")
}
