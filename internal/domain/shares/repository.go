package shares

import "context"

type Repository interface {
	CreateShare(ctx context.Context, share *AccountShare) error
	GetShareByID(ctx context.Context, shareID string) (*AccountShare, error)
	// GetPendingByToken returns ErrInviteNotFound unless a PENDING row with
	// this token exists.
	GetPendingByToken(ctx context.Context, token string) (*AccountShare, error)
	// FindByOwnerAndEmail returns the newest share for (ownerID, email) whose
	// status is in statuses, or ErrShareNotFound.
	FindByOwnerAndEmail(ctx context.Context, ownerID, email string, statuses []string) (*AccountShare, error)
	ListByOwner(ctx context.Context, ownerID string) ([]AccountShare, error)
	ListByViewer(ctx context.Context, viewerID, status string) ([]AccountShare, error)
	UpdateShareStatus(ctx context.Context, shareID, status string, viewerID *string) error
	DeleteShare(ctx context.Context, shareID string) (bool, error)
	HasAcceptedShare(ctx context.Context, ownerID, viewerID string) (bool, error)
}

// UserLookup resolves user projections for embedding into share listings.
// Implemented by the user domain; declared here so the share lifecycle stays
// decoupled from it.
type UserLookup interface {
	GetUserInfo(ctx context.Context, userID string) (UserInfo, error)
}
