package service

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tg-appeals/internal/config"
	"tg-appeals/internal/models"
	"tg-appeals/internal/storage"
)

const (
	testOwnerID  int64 = 1000
	testAdminID  int64 = 2000
	testSubmitID int64 = 3000
)

func setupTestService(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "appeals.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	storage.DB = db

	Initialize(&config.Config{
		Bot: config.BotConfig{
			Token:    "test-token",
			OwnerID:  testOwnerID,
			AdminIDs: []int64{testAdminID},
		},
	})
	require.NoError(t, InitRepositories())
	sessionManager = models.NewSessionManager()
}

func TestSubmitAppealStartsPending(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeUnban, "I apologize and will not repeat it")
	require.NoError(t, err)
	require.NotZero(t, appeal.ID)
	assert.Equal(t, models.StatusPending, appeal.Status)

	got, err := GetAppeal(appeal.ID)
	require.NoError(t, err)
	assert.Equal(t, testSubmitID, got.UserID)
	assert.Equal(t, "someone", got.Username)
	assert.Equal(t, models.AppealTypeUnban, got.Type)
	assert.Equal(t, "I apologize and will not repeat it", got.Text)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestApproveLifecycle(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeUnban, "please")
	require.NoError(t, err)

	approved, err := Approve(appeal.ID, testAdminID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)
	assert.Equal(t, testAdminID, approved.DecidedBy)

	// A second decision on a terminal appeal is a no-op.
	_, err = Approve(appeal.ID, testAdminID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
	_, err = Reject(appeal.ID, testAdminID)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	got, err := GetAppeal(appeal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestRejectPendingAppeal(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "", models.AppealTypeAdmin, "let me help")
	require.NoError(t, err)

	rejected, err := Reject(appeal.ID, testOwnerID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	got, err := GetAppeal(appeal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, testOwnerID, got.DecidedBy)
}

func TestDecideMissingAppeal(t *testing.T) {
	setupTestService(t)

	_, err := Approve(999, testAdminID)
	assert.ErrorIs(t, err, ErrAppealNotFound)

	_, err = Reject(999, testAdminID)
	assert.ErrorIs(t, err, ErrAppealNotFound)
}

func TestPendingAppealsCreationOrder(t *testing.T) {
	setupTestService(t)

	first, err := SubmitAppeal(1, "a", models.AppealTypeUnban, "one")
	require.NoError(t, err)
	second, err := SubmitAppeal(2, "b", models.AppealTypeAdmin, "two")
	require.NoError(t, err)
	third, err := SubmitAppeal(3, "c", models.AppealTypeUnban, "three")
	require.NoError(t, err)

	_, err = Approve(second.ID, testAdminID)
	require.NoError(t, err)

	pending, err := PendingAppeals()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, third.ID, pending[1].ID)
}

func TestGetStats(t *testing.T) {
	setupTestService(t)

	a, err := SubmitAppeal(1, "a", models.AppealTypeUnban, "one")
	require.NoError(t, err)
	_, err = SubmitAppeal(2, "b", models.AppealTypeUnban, "two")
	require.NoError(t, err)
	_, err = SubmitAppeal(3, "c", models.AppealTypeAdmin, "three")
	require.NoError(t, err)
	_, err = Reject(a.ID, testAdminID)
	require.NoError(t, err)

	stats, err := GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(0), stats.Approved)
	assert.Equal(t, int64(1), stats.Rejected)
	assert.Equal(t, int64(2), stats.ByType[models.AppealTypeUnban])
	assert.Equal(t, int64(1), stats.ByType[models.AppealTypeAdmin])
	assert.Equal(t, int64(3), stats.Last24h)
	assert.Equal(t, int64(1), stats.AdminCount)
}
