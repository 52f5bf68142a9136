package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	sharesdomain "finanx/internal/domain/shares"
	"finanx/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

type createShareRequest struct {
	InviteeEmail string `json:"invitee_email"`
}

type respondShareRequest struct {
	Token  string `json:"token"`
	Accept bool   `json:"accept"`
}

type shareResponse struct {
	ID           string                 `json:"id"`
	InviteeEmail string                 `json:"invitee_email"`
	Token        string                 `json:"token,omitempty"`
	Status       string                 `json:"status"`
	CreatedAt    time.Time              `json:"created_at"`
	Viewer       *sharesdomain.UserInfo `json:"viewer,omitempty"`
}

type viewerShareResponse struct {
	ID      string                 `json:"id"`
	OwnerID string                 `json:"owner_id"`
	Owner   *sharesdomain.UserInfo `json:"owner,omitempty"`
}

type shareListResponse struct {
	AsOwner  []shareResponse       `json:"as_owner"`
	AsViewer []viewerShareResponse `json:"as_viewer"`
}

type inviteInfoResponse struct {
	InviteeEmail string                `json:"invitee_email"`
	Owner        sharesdomain.UserInfo `json:"owner"`
}

type respondShareResponse struct {
	Accepted bool                   `json:"accepted"`
	OwnerID  string                 `json:"owner_id,omitempty"`
	Owner    *sharesdomain.UserInfo `json:"owner,omitempty"`
}

func (h *Handlers) ListShares(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	list, err := h.Shares.ListShares(r.Context(), identityOf(user))
	if err != nil {
		h.log.InternalError("shares.list: list failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	asOwner := make([]shareResponse, 0, len(list.AsOwner))
	for _, share := range list.AsOwner {
		asOwner = append(asOwner, shareResponse{
			ID:           share.ID,
			InviteeEmail: share.InviteeEmail,
			Token:        share.Token,
			Status:       share.Status,
			CreatedAt:    share.CreatedAt,
			Viewer:       share.Viewer,
		})
	}

	asViewer := make([]viewerShareResponse, 0, len(list.AsViewer))
	for _, share := range list.AsViewer {
		asViewer = append(asViewer, viewerShareResponse{
			ID:      share.ID,
			OwnerID: share.OwnerID,
			Owner:   share.Owner,
		})
	}

	writeJSON(w, http.StatusOK, shareListResponse{AsOwner: asOwner, AsViewer: asViewer})
}

func (h *Handlers) CreateShare(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	if strings.TrimSpace(req.InviteeEmail) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "invitee email is required")
		return
	}

	share, err := h.Shares.CreateInvite(r.Context(), identityOf(user), req.InviteeEmail)
	if err != nil {
		switch {
		case errors.Is(err, sharesdomain.ErrEmailRequired):
			h.log.BusinessError("shares.create: missing invitee email", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "invalid_request", "invitee email is required")
		case errors.Is(err, sharesdomain.ErrSelfInvite):
			h.log.BusinessError("shares.create: self invite", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "self_invite", "you cannot invite yourself")
		case errors.Is(err, sharesdomain.ErrAlreadyShared):
			h.log.BusinessError("shares.create: already shared", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "already_shared", "this user already has access to your account")
		case errors.Is(err, sharesdomain.ErrInvitePending):
			h.log.BusinessError("shares.create: invite pending", err, "user_id", user.ID)
			writeError(w, http.StatusConflict, "invite_pending", "an invite for this email is already pending")
		default:
			h.log.InternalError("shares.create: create failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, shareResponse{
		ID:           share.ID,
		InviteeEmail: share.InviteeEmail,
		Token:        share.Token,
		Status:       share.Status,
		CreatedAt:    share.CreatedAt,
	})
}

func (h *Handlers) RevokeShare(w http.ResponseWriter, r *http.Request) {
	shareID := strings.TrimSpace(chi.URLParam(r, "id"))
	if shareID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "id is required")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	if err := h.Shares.RevokeShare(r.Context(), identityOf(user), shareID); err != nil {
		switch {
		case errors.Is(err, sharesdomain.ErrShareNotFound):
			h.log.BusinessError("shares.revoke: not found", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusNotFound, "share_not_found", "share not found")
		case errors.Is(err, sharesdomain.ErrNotParticipant):
			h.log.BusinessError("shares.revoke: not participant", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusForbidden, "not_participant", "you cannot remove this share")
		default:
			h.log.InternalError("shares.revoke: delete failed", err, "user_id", user.ID, "share_id", shareID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) RespondToInvite(w http.ResponseWriter, r *http.Request) {
	var req respondShareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}

	if strings.TrimSpace(req.Token) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	result, err := h.Shares.RespondToInvite(r.Context(), identityOf(user), req.Token, req.Accept)
	if err != nil {
		var mismatch *sharesdomain.InviteeMismatchError
		switch {
		case errors.Is(err, sharesdomain.ErrInviteNotFound):
			h.log.BusinessError("shares.respond: invite not found", err, "user_id", user.ID)
			writeError(w, http.StatusNotFound, "invite_not_found", "invite not found or already used")
		case errors.As(err, &mismatch):
			h.log.BusinessError("shares.respond: invitee mismatch", err, "user_id", user.ID)
			writeError(w, http.StatusForbidden, "invitee_mismatch", mismatch.Error())
		case errors.Is(err, sharesdomain.ErrSelfAccept):
			h.log.BusinessError("shares.respond: self accept", err, "user_id", user.ID)
			writeError(w, http.StatusBadRequest, "self_accept", "you cannot accept your own invite")
		default:
			h.log.InternalError("shares.respond: respond failed", err, "user_id", user.ID)
			writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		}
		return
	}

	response := respondShareResponse{Accepted: result.Accepted}
	if result.Owner != nil {
		response.OwnerID = result.Owner.ID
		response.Owner = result.Owner
	}
	writeJSON(w, http.StatusOK, response)
}

// GetInviteInfo is deliberately unauthenticated: the token is the sole
// capability needed to view a pending invite.
func (h *Handlers) GetInviteInfo(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(chi.URLParam(r, "token"))
	if token == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "token is required")
		return
	}

	info, err := h.Shares.GetInviteInfo(r.Context(), token)
	if err != nil {
		if errors.Is(err, sharesdomain.ErrInviteNotFound) {
			writeError(w, http.StatusNotFound, "invite_not_found", "invite not found or already used")
			return
		}
		h.log.InternalError("shares.invite_info: lookup failed", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, inviteInfoResponse{
		InviteeEmail: info.InviteeEmail,
		Owner:        info.Owner,
	})
}
