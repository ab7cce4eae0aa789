package service

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"tg-appeals/internal/logger"
	"tg-appeals/internal/models"
)

var (
	// ErrAppealNotFound is returned when the referenced appeal ID does not
	// exist.
	ErrAppealNotFound = errors.New("appeal not found")
	// ErrAlreadyDecided is returned when a decision targets an appeal that
	// is no longer pending.
	ErrAlreadyDecided = errors.New("appeal already decided")
)

// SubmitAppeal persists a new pending appeal.
func SubmitAppeal(userID int64, username string, appealType models.AppealType, text string) (*models.Appeal, error) {
	appeal := &models.Appeal{
		UserID:    userID,
		Username:  username,
		Type:      appealType,
		Text:      text,
		Status:    models.StatusPending,
		Timestamp: time.Now(),
	}
	if err := appealRepository.Create(appeal); err != nil {
		return nil, fmt.Errorf("creating appeal: %w", err)
	}

	logger.Infof("Appeal #%d (%s) submitted by user %d", appeal.ID, appeal.Type, userID)
	return appeal, nil
}

// GetAppeal returns the appeal with the given ID.
func GetAppeal(id uint) (*models.Appeal, error) {
	appeal, err := appealRepository.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAppealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading appeal #%d: %w", id, err)
	}
	return appeal, nil
}

// PendingAppeals returns all undecided appeals in creation order.
func PendingAppeals() ([]*models.Appeal, error) {
	return appealRepository.ListByStatus(models.StatusPending)
}

// Approve moves a pending appeal to approved.
func Approve(id uint, adminID int64) (*models.Appeal, error) {
	return decide(id, adminID, models.StatusApproved)
}

// Reject moves a pending appeal to rejected.
func Reject(id uint, adminID int64) (*models.Appeal, error) {
	return decide(id, adminID, models.StatusRejected)
}

// decide commits a status transition. The repository guards the UPDATE on
// the current status, so a decision that races another one loses cleanly
// and nothing is mutated twice.
func decide(id uint, adminID int64, status models.AppealStatus) (*models.Appeal, error) {
	appeal, err := GetAppeal(id)
	if err != nil {
		return nil, err
	}
	if !appeal.Status.CanTransitionTo(status) {
		return nil, ErrAlreadyDecided
	}

	updated, err := appealRepository.UpdateStatus(id, status, adminID)
	if err != nil {
		return nil, fmt.Errorf("updating appeal #%d: %w", id, err)
	}
	if !updated {
		// Another decision landed between the read and the update.
		return nil, ErrAlreadyDecided
	}

	appeal.Status = status
	appeal.DecidedBy = adminID
	logger.Infof("Appeal #%d %s by admin %d", id, status, adminID)
	return appeal, nil
}

// Stats aggregates appeal counts for the /stats command.
type Stats struct {
	Total      int64
	Pending    int64
	Approved   int64
	Rejected   int64
	ByType     map[models.AppealType]int64
	Last24h    int64
	Last7d     int64
	AdminCount int64
}

// GetStats collects appeal statistics.
func GetStats() (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.Total, err = appealRepository.CountAll(); err != nil {
		return nil, err
	}
	if stats.Pending, err = appealRepository.CountByStatus(models.StatusPending); err != nil {
		return nil, err
	}
	if stats.Approved, err = appealRepository.CountByStatus(models.StatusApproved); err != nil {
		return nil, err
	}
	if stats.Rejected, err = appealRepository.CountByStatus(models.StatusRejected); err != nil {
		return nil, err
	}
	if stats.ByType, err = appealRepository.CountByType(); err != nil {
		return nil, err
	}

	now := time.Now()
	if stats.Last24h, err = appealRepository.CountCreatedSince(now.Add(-24 * time.Hour)); err != nil {
		return nil, err
	}
	if stats.Last7d, err = appealRepository.CountCreatedSince(now.Add(-7 * 24 * time.Hour)); err != nil {
		return nil, err
	}
	if stats.AdminCount, err = adminRepository.Count(); err != nil {
		return nil, err
	}

	return stats, nil
}
