package shares

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const tokenBytes = 32

type Service struct {
	repo      Repository
	users     UserLookup
	inviteTTL time.Duration
	now       func() time.Time
}

// NewService builds the share lifecycle manager. inviteTTL bounds how long a
// PENDING invite stays redeemable; zero means invites never expire.
func NewService(repo Repository, users UserLookup, inviteTTL time.Duration) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		inviteTTL: inviteTTL,
		now:       time.Now,
	}
}

// CreateInvite issues a PENDING share addressed to inviteeEmail. The returned
// row carries the token; it is shown to the owner once and relayed
// out-of-band.
func (s *Service) CreateInvite(ctx context.Context, owner Identity, inviteeEmail string) (*AccountShare, error) {
	email := strings.ToLower(strings.TrimSpace(inviteeEmail))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if strings.EqualFold(email, owner.Email) {
		return nil, ErrSelfInvite
	}

	existing, err := s.repo.FindByOwnerAndEmail(ctx, owner.ID, email, []string{StatusPending, StatusAccepted})
	if err != nil && !errors.Is(err, ErrShareNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.Status == StatusAccepted {
			return nil, ErrAlreadyShared
		}
		if !s.inviteExpired(existing) {
			return nil, ErrInvitePending
		}
		// The previous invite lapsed; a fresh row supersedes it.
	}

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	share := AccountShare{
		ID:           uuid.NewString(),
		OwnerID:      owner.ID,
		InviteeEmail: email,
		Token:        token,
		Status:       StatusPending,
	}
	if err := s.repo.CreateShare(ctx, &share); err != nil {
		return nil, err
	}

	return &share, nil
}

// GetInviteInfo is the unauthenticated token lookup backing the accept page.
// Expired, resolved and nonexistent tokens are indistinguishable to the
// caller.
func (s *Service) GetInviteInfo(ctx context.Context, token string) (*InviteInfo, error) {
	share, err := s.lookupPending(ctx, token)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.GetUserInfo(ctx, share.OwnerID)
	if err != nil {
		return nil, err
	}

	return &InviteInfo{
		InviteeEmail: share.InviteeEmail,
		Owner:        owner,
	}, nil
}

// RespondToInvite resolves a PENDING invite. Only the addressed invitee may
// respond, and both outcomes are terminal; responding again finds no pending
// row and reports not-found.
func (s *Service) RespondToInvite(ctx context.Context, viewer Identity, token string, accept bool) (*RespondResult, error) {
	share, err := s.lookupPending(ctx, token)
	if err != nil {
		return nil, err
	}

	if !strings.EqualFold(viewer.Email, share.InviteeEmail) {
		return nil, &InviteeMismatchError{InviteeEmail: share.InviteeEmail}
	}
	if share.OwnerID == viewer.ID {
		return nil, ErrSelfAccept
	}

	if !accept {
		if err := s.repo.UpdateShareStatus(ctx, share.ID, StatusRejected, nil); err != nil {
			return nil, err
		}
		return &RespondResult{Accepted: false}, nil
	}

	viewerID := viewer.ID
	if err := s.repo.UpdateShareStatus(ctx, share.ID, StatusAccepted, &viewerID); err != nil {
		return nil, err
	}

	owner, err := s.users.GetUserInfo(ctx, share.OwnerID)
	if err != nil {
		return nil, err
	}

	return &RespondResult{Accepted: true, Owner: &owner}, nil
}

// ListShares returns both directions for one identity: everything they have
// issued as owner, and the accepted grants they hold as viewer.
func (s *Service) ListShares(ctx context.Context, identity Identity) (*ShareList, error) {
	asOwnerRows, err := s.repo.ListByOwner(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	asOwner := make([]OwnerShare, 0, len(asOwnerRows))
	for _, row := range asOwnerRows {
		entry := OwnerShare{AccountShare: row}
		if row.ViewerID != nil {
			viewer, err := s.users.GetUserInfo(ctx, *row.ViewerID)
			if err == nil {
				entry.Viewer = &viewer
			}
		}
		asOwner = append(asOwner, entry)
	}

	asViewerRows, err := s.repo.ListByViewer(ctx, identity.ID, StatusAccepted)
	if err != nil {
		return nil, err
	}

	asViewer := make([]ViewerShare, 0, len(asViewerRows))
	for _, row := range asViewerRows {
		entry := ViewerShare{AccountShare: row}
		owner, err := s.users.GetUserInfo(ctx, row.OwnerID)
		if err == nil {
			entry.Owner = &owner
		}
		asViewer = append(asViewer, entry)
	}

	return &ShareList{AsOwner: asOwner, AsViewer: asViewer}, nil
}

// RevokeShare deletes the row from any status. Either side may sever the
// relationship; access ends with the very next read.
func (s *Service) RevokeShare(ctx context.Context, identity Identity, shareID string) error {
	share, err := s.repo.GetShareByID(ctx, shareID)
	if err != nil {
		return err
	}

	isOwner := share.OwnerID == identity.ID
	isViewer := share.ViewerID != nil && *share.ViewerID == identity.ID
	if !isOwner && !isViewer {
		return ErrNotParticipant
	}

	deleted, err := s.repo.DeleteShare(ctx, shareID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrShareNotFound
	}
	return nil
}

// ResolveEffectiveOwner decides whose data a read may return. Without a
// requested owner the caller reads their own data; with one, an ACCEPTED
// grant must exist at the time of the call. The check is never cached
// across requests.
func (s *Service) ResolveEffectiveOwner(ctx context.Context, identity Identity, requestedOwnerID string) (string, error) {
	if requestedOwnerID == "" || requestedOwnerID == identity.ID {
		return identity.ID, nil
	}

	granted, err := s.repo.HasAcceptedShare(ctx, requestedOwnerID, identity.ID)
	if err != nil {
		return "", err
	}
	if !granted {
		return "", ErrNoGrant
	}
	return requestedOwnerID, nil
}

func (s *Service) lookupPending(ctx context.Context, token string) (*AccountShare, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrInviteNotFound
	}

	share, err := s.repo.GetPendingByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.inviteExpired(share) {
		return nil, ErrInviteNotFound
	}
	return share, nil
}

func (s *Service) inviteExpired(share *AccountShare) bool {
	if share.Status != StatusPending || s.inviteTTL <= 0 {
		return false
	}
	return s.now().After(share.CreatedAt.Add(s.inviteTTL))
}

func newToken() (string, error) {
	var b [tokenBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
