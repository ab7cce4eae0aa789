package service

import (
	"errors"

	"tg-appeals/internal/logger"
)

var (
	// ErrAdminExists is returned when adding a user who is already an admin.
	ErrAdminExists = errors.New("user is already an admin")
	// ErrAdminNotFound is returned when removing a user who is not an admin.
	ErrAdminNotFound = errors.New("user is not an admin")
)

// IsOwner reports whether the user is the configured bot owner.
func IsOwner(userID int64) bool {
	return globalConfig != nil && globalConfig.Bot.OwnerID != 0 && userID == globalConfig.Bot.OwnerID
}

// IsAuthorized reports whether the user may run admin commands: either the
// owner or a member of the admin table. This is the single authorization
// guard; command handlers must not duplicate the check.
func IsAuthorized(userID int64) bool {
	if userID == 0 {
		return false
	}
	if IsOwner(userID) {
		return true
	}
	if adminRepository == nil {
		return false
	}

	ok, err := adminRepository.Exists(userID)
	if err != nil {
		logger.Warningf("Error checking admin table for user %d: %v", userID, err)
		return false
	}
	return ok
}

// AddAdmin grants a user review rights.
func AddAdmin(userID, addedBy int64) error {
	exists, err := adminRepository.Exists(userID)
	if err != nil {
		return err
	}
	if exists {
		return ErrAdminExists
	}

	if err := adminRepository.Add(userID, addedBy); err != nil {
		return err
	}
	logger.Infof("User %d added as admin by %d", userID, addedBy)
	return nil
}

// RemoveAdmin revokes a user's review rights. The owner cannot be removed
// because ownership lives in configuration, not the admin table.
func RemoveAdmin(userID int64) error {
	removed, err := adminRepository.Remove(userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrAdminNotFound
	}
	logger.Infof("User %d removed from admin list", userID)
	return nil
}

// AdminIDs returns the admin table contents in ascending order.
func AdminIDs() ([]int64, error) {
	return adminRepository.ListIDs()
}

// NotificationRecipients returns the owner plus every admin, deduplicated.
// Used for the new-appeal fan-out.
func NotificationRecipients() []int64 {
	seen := make(map[int64]bool)
	var recipients []int64

	if globalConfig != nil && globalConfig.Bot.OwnerID != 0 {
		seen[globalConfig.Bot.OwnerID] = true
		recipients = append(recipients, globalConfig.Bot.OwnerID)
	}

	ids, err := AdminIDs()
	if err != nil {
		logger.Warningf("Error listing admins for notification: %v", err)
		return recipients
	}
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			recipients = append(recipients, id)
		}
	}
	return recipients
}
