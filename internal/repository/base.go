package repository

import (
	"github.com/pe-odake/Portifolio-Web/internal/database"
	"github.com/pe-odake/Portifolio-Web/internal/observability"

	"gorm.io/gorm"
)

var dbMetrics = observability.NewDatabaseMetrics()

// readDB routes read queries to the replica pool when one is registered.
func readDB(primary *gorm.DB) *gorm.DB {
	return database.ReadDB(primary)
}

// lockProjectRow takes the project row lock as the transaction's first
// statement. Under READ COMMITTED a writer that blocks mid-transaction keeps
// its statement snapshot, so a COUNT(*) recompute issued while blocked can
// miss rows the lock holder committed; locking up front forces the recompute
// to run as a later statement with a fresh snapshot. sqlite has no FOR UPDATE
// and its single writer serializes transactions anyway.
func lockProjectRow(tx *gorm.DB, projectID uint) error {
	if tx.Dialector.Name() == "sqlite" {
		return nil
	}
	return tx.Exec(`SELECT id FROM projects WHERE id = ? FOR UPDATE`, projectID).Error
}
