package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tg-appeals/internal/models"
)

// fakeSender records sent messages and can simulate unreachable recipients.
type fakeSender struct {
	sent    []*telego.SendMessageParams
	failFor map[int64]bool
}

func (f *fakeSender) SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	if f.failFor[params.ChatID.ID] {
		return nil, errors.New("recipient unreachable")
	}
	f.sent = append(f.sent, params)
	return &telego.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeSender) textsFor(chatID int64) []string {
	var texts []string
	for _, params := range f.sent {
		if params.ChatID.ID == chatID {
			texts = append(texts, params.Text)
		}
	}
	return texts
}

func TestNotifyAdminsFanOut(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeUnban, "I apologize and will not repeat it")
	require.NoError(t, err)

	sender := &fakeSender{}
	delivered := NotifyAdmins(context.Background(), sender, appeal)

	assert.Equal(t, 2, delivered)
	require.Len(t, sender.sent, 2)
	for _, params := range sender.sent {
		assert.Contains(t, params.Text, fmt.Sprintf("New Appeal #%d", appeal.ID))
		assert.Contains(t, params.Text, "I apologize and will not repeat it")
		require.NotNil(t, params.ReplyMarkup)
	}
}

func TestNotifyAdminsToleratesDeliveryFailure(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeUnban, "please")
	require.NoError(t, err)

	sender := &fakeSender{failFor: map[int64]bool{testOwnerID: true}}
	delivered := NotifyAdmins(context.Background(), sender, appeal)

	// The appeal stays pending and discoverable regardless of delivery.
	assert.Equal(t, 1, delivered)
	got, err := GetAppeal(appeal.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, got.Status)
}

func TestNotifyDecision(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeAdmin, "let me help")
	require.NoError(t, err)
	approved, err := Approve(appeal.ID, testAdminID)
	require.NoError(t, err)

	sender := &fakeSender{}
	assert.True(t, NotifyDecision(context.Background(), sender, approved))

	texts := sender.textsFor(testSubmitID)
	require.Len(t, texts, 1)
	assert.Contains(t, texts[0], "approved")
	assert.Contains(t, texts[0], fmt.Sprintf("#%d", appeal.ID))

	failing := &fakeSender{failFor: map[int64]bool{testSubmitID: true}}
	assert.False(t, NotifyDecision(context.Background(), failing, approved))
}

func TestFormatAdminNotice(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testSubmitID, "someone", models.AppealTypeUnban, "please unban me")
	require.NoError(t, err)

	notice := FormatAdminNotice(appeal)
	assert.Contains(t, notice, fmt.Sprintf("New Appeal #%d", appeal.ID))
	assert.Contains(t, notice, "@someone")
	assert.Contains(t, notice, "Unban Appeal")
	assert.Contains(t, notice, "please unban me")
	assert.Contains(t, notice, fmt.Sprintf("/approve %d", appeal.ID))
	assert.NotContains(t, notice, "Submitted by an administrator")
}

func TestFormatAdminNoticeFlagsSelfAppeal(t *testing.T) {
	setupTestService(t)

	appeal, err := SubmitAppeal(testAdminID, "reviewer", models.AppealTypeAdmin, "promote me")
	require.NoError(t, err)

	notice := FormatAdminNotice(appeal)
	assert.Contains(t, notice, "Submitted by an administrator")
}

func TestFormatDecisionNotice(t *testing.T) {
	appeal := &models.Appeal{ID: 7, Type: models.AppealTypeUnban, Text: "x", Status: models.StatusRejected}
	notice := FormatDecisionNotice(appeal)
	assert.Contains(t, notice, "rejected")
	assert.Contains(t, notice, "#7")
	assert.Contains(t, notice, "/appeal")
}

func TestDecisionKeyboard(t *testing.T) {
	keyboard := DecisionKeyboard(42)
	require.Len(t, keyboard.InlineKeyboard, 1)
	require.Len(t, keyboard.InlineKeyboard[0], 2)
	assert.Equal(t, "decision:approve:42", keyboard.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "decision:reject:42", keyboard.InlineKeyboard[0][1].CallbackData)
}
