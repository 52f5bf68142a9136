package shares

import "time"

const (
	StatusPending  = "PENDING"
	StatusAccepted = "ACCEPTED"
	StatusRejected = "REJECTED"
)

// AccountShare is a directed read-only grant from an owner to a viewer. The
// viewer is unknown until the invite is accepted; until then the row is
// addressed only by its token.
type AccountShare struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	OwnerID      string    `gorm:"type:uuid;not null;index"`
	InviteeEmail string    `gorm:"not null"`
	Token        string    `gorm:"size:64;not null;uniqueIndex"`
	Status       string    `gorm:"type:varchar(16);not null"`
	ViewerID     *string   `gorm:"type:uuid;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// Identity is the authenticated caller as resolved by the session layer.
type Identity struct {
	ID    string
	Email string
}

// UserInfo is the minimal user projection embedded in share listings and
// invite pages.
type UserInfo struct {
	ID    string  `json:"id"`
	Email string  `json:"email"`
	Name  *string `json:"name"`
}

type OwnerShare struct {
	AccountShare
	Viewer *UserInfo
}

type ViewerShare struct {
	AccountShare
	Owner *UserInfo
}

type ShareList struct {
	AsOwner  []OwnerShare
	AsViewer []ViewerShare
}

type InviteInfo struct {
	InviteeEmail string
	Owner        UserInfo
}

type RespondResult struct {
	Accepted bool
	Owner    *UserInfo
}
