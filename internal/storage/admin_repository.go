package storage

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"tg-appeals/internal/models"
)

// AdminRepository handles database operations for Admin
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// MigrateTable ensures the Admin table exists
func (r *AdminRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Admin{})
}

// Add inserts a new admin record.
func (r *AdminRepository) Add(userID, addedBy int64) error {
	admin := &models.Admin{UserID: userID, AddedBy: addedBy}
	return r.db.Create(admin).Error
}

// Remove deletes an admin record. Returns false when the user was not an
// admin.
func (r *AdminRepository) Remove(userID int64) (bool, error) {
	result := r.db.Delete(&models.Admin{}, "user_id = ?", userID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the user is in the admin table.
func (r *AdminRepository) Exists(userID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

// ListIDs returns all admin user IDs in ascending order.
func (r *AdminRepository) ListIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&models.Admin{}).Order("user_id ASC").Pluck("user_id", &ids).Error
	return ids, err
}

// Count returns the number of admins.
func (r *AdminRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).Count(&count).Error
	return count, err
}

// Seed populates the admin table from configuration when it is empty, so a
// fresh deployment starts with the configured reviewers.
func (r *AdminRepository) Seed(ids []int64, addedBy int64) error {
	var count int64
	if err := r.db.Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 || len(ids) == 0 {
		return nil
	}

	for _, id := range ids {
		admin := &models.Admin{UserID: id, AddedBy: addedBy}
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(admin).Error; err != nil {
			return err
		}
	}
	return nil
}
