package database

import "github.com/pe-odake/Portifolio-Web/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Project{},
		&models.ProjectTag{},
		&models.Comment{},
		&models.Like{},
		&models.Notification{},
		&models.About{},
	}
}
