package models

import "time"

// AppealType identifies what the submitter is asking for.
type AppealType string

const (
	// AppealTypeUnban is a request to lift a federation ban.
	AppealTypeUnban AppealType = "unban"
	// AppealTypeAdmin is a request for federation admin status.
	AppealTypeAdmin AppealType = "admin"
)

// ParseAppealType converts callback data into an AppealType.
func ParseAppealType(s string) (AppealType, bool) {
	switch AppealType(s) {
	case AppealTypeUnban, AppealTypeAdmin:
		return AppealType(s), true
	}
	return "", false
}

// Label returns the human readable name used in bot messages.
func (t AppealType) Label() string {
	switch t {
	case AppealTypeUnban:
		return "Unban Appeal"
	case AppealTypeAdmin:
		return "Admin Request"
	}
	return string(t)
}

// AppealStatus is the lifecycle state of an appeal.
type AppealStatus string

const (
	StatusPending  AppealStatus = "pending"
	StatusApproved AppealStatus = "approved"
	StatusRejected AppealStatus = "rejected"
)

// IsTerminal reports whether the status allows no further transitions.
func (s AppealStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether moving from s to next is a valid
// transition. Only pending appeals move, and only to a terminal state.
func (s AppealStatus) CanTransitionTo(next AppealStatus) bool {
	return s == StatusPending && next.IsTerminal()
}

// Appeal stores a single user submission and its review outcome.
// DecidedBy stays zero until an administrator approves or rejects it.
type Appeal struct {
	ID        uint         `gorm:"primaryKey;autoIncrement"`
	UserID    int64        `gorm:"index;not null"`
	Username  string       `gorm:"default:''"`
	Type      AppealType   `gorm:"type:varchar(16);not null"`
	Text      string       `gorm:"type:text"`
	Status    AppealStatus `gorm:"type:varchar(16);index;default:'pending'"`
	DecidedBy int64        `gorm:"default:0"`
	Timestamp time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
