package storage

import (
	"time"

	"gorm.io/gorm"

	"tg-appeals/internal/models"
)

// AppealRepository handles database operations for Appeal
type AppealRepository struct {
	db *gorm.DB
}

// NewAppealRepository creates a new AppealRepository
func NewAppealRepository(db *gorm.DB) *AppealRepository {
	return &AppealRepository{db: db}
}

// MigrateTable ensures the Appeal table exists
func (r *AppealRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.Appeal{})
}

// Create inserts a new Appeal. The status always starts at pending and the
// database assigns the ID.
func (r *AppealRepository) Create(appeal *models.Appeal) error {
	appeal.Status = models.StatusPending
	if appeal.Timestamp.IsZero() {
		appeal.Timestamp = time.Now()
	}
	return r.db.Create(appeal).Error
}

// GetByID returns the appeal with the given ID, or gorm.ErrRecordNotFound.
func (r *AppealRepository) GetByID(id uint) (*models.Appeal, error) {
	var appeal models.Appeal
	if err := r.db.First(&appeal, id).Error; err != nil {
		return nil, err
	}
	return &appeal, nil
}

// ListByStatus returns all appeals with the given status in creation order.
func (r *AppealRepository) ListByStatus(status models.AppealStatus) ([]*models.Appeal, error) {
	var appeals []*models.Appeal
	result := r.db.Where("status = ?", status).Order("id ASC").Find(&appeals)
	return appeals, result.Error
}

// UpdateStatus moves a pending appeal to a terminal status. The UPDATE is
// guarded on the current status, so two concurrent decisions cannot both
// win. Returns false when no pending row matched the ID.
func (r *AppealRepository) UpdateStatus(id uint, status models.AppealStatus, decidedBy int64) (bool, error) {
	result := r.db.Model(&models.Appeal{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{"status": status, "decided_by": decidedBy, "updated_at": time.Now()})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountAll returns the total number of appeals.
func (r *AppealRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&models.Appeal{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of appeals with the given status.
func (r *AppealRepository) CountByStatus(status models.AppealStatus) (int64, error) {
	var count int64
	err := r.db.Model(&models.Appeal{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountByType returns appeal counts grouped by type.
func (r *AppealRepository) CountByType() (map[models.AppealType]int64, error) {
	var rows []struct {
		Type  models.AppealType
		Count int64
	}
	err := r.db.Model(&models.Appeal{}).
		Select("type, count(*) as count").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.AppealType]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}

// CountCreatedSince returns the number of appeals created at or after t.
func (r *AppealRepository) CountCreatedSince(t time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Appeal{}).Where("created_at >= ?", t).Count(&count).Error
	return count, err
}
