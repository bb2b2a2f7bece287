// Package handler exposes the admin API used by the room widget: an admin
// status probe and the policy upsert. Both authenticate with the caller's
// Matrix access token and authorize against the room's power levels.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomgate/internal/matrix"
	"roomgate/internal/platform/middleware"
	"roomgate/internal/policy"
)

// adminPowerLevel is the minimum power level treated as room admin. Matrix
// convention puts moderators at 50 and room creators at 100.
const adminPowerLevel = 50

// RoomAuthority resolves room power levels and token identity with a
// caller-supplied token.
type RoomAuthority interface {
	PowerLevels(ctx context.Context, roomID, accessToken string) (*matrix.PowerLevelsContent, error)
	WhoAmI(ctx context.Context, accessToken string) (string, error)
}

// Handler handles the policy admin endpoints.
type Handler struct {
	logger *slog.Logger
	store  policy.Store
	rooms  RoomAuthority
}

// New creates a policy admin Handler.
func New(store policy.Store, rooms RoomAuthority, logger *slog.Logger) *Handler {
	return &Handler{
		logger: logger,
		store:  store,
		rooms:  rooms,
	}
}

// Register mounts the admin routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Post("/check-admin-status", h.handleCheckAdminStatus)
	r.Post("/update-config", h.handleUpdateConfig)
	r.Get("/rooms/{roomID}/config", h.handleGetConfig)
}

func (h *Handler) handleCheckAdminStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	var req checkAdminStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserID == "" || req.RoomID == "" || token == "" {
		writeError(w, http.StatusBadRequest, "missing required parameters")
		return
	}

	isAdmin, err := h.isRoomAdmin(ctx, req.RoomID, req.UserID, token)
	if err != nil {
		h.logger.WarnContext(ctx, "admin status check failed",
			"room_id", req.RoomID,
			"user_id", req.UserID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, statusForGatewayError(err), "error checking admin status")
		return
	}

	writeJSON(w, http.StatusOK, checkAdminStatusResponse{IsAdmin: isAdmin})
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := bearerToken(r)
	var req updateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RoomID == "" || req.GatingActive == nil || req.IssuerAddress == "" ||
		req.TaxonID == nil || req.MinHoldingCount == nil || token == "" {
		writeError(w, http.StatusBadRequest, "missing required parameters for gating configuration")
		return
	}
	if *req.MinHoldingCount < 0 {
		writeError(w, http.StatusBadRequest, "minNftCount must not be negative")
		return
	}

	// The widget checks admin status before showing the form, but the
	// server enforces it too: the presented token must belong to a room
	// admin. This also proves the token actually works against the room,
	// so the engine will be able to use it later.
	isAdmin, err := h.isRoomAdminSelf(ctx, req.RoomID, token)
	if err != nil {
		h.logger.WarnContext(ctx, "config update rejected, power level lookup failed",
			"room_id", req.RoomID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, statusForGatewayError(err), "error verifying room admin status")
		return
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "requester is not a room admin")
		return
	}

	p := policy.RoomPolicy{
		RoomID:          req.RoomID,
		AccessToken:     token,
		GatingActive:    *req.GatingActive,
		IssuerAddress:   req.IssuerAddress,
		TaxonID:         *req.TaxonID,
		MinHoldingCount: *req.MinHoldingCount,
	}
	if err := h.store.Upsert(ctx, p); err != nil {
		h.logger.ErrorContext(ctx, "policy upsert failed",
			"room_id", req.RoomID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, http.StatusInternalServerError, "error updating room configuration")
		return
	}

	h.logger.InfoContext(ctx, "room policy updated",
		"room_id", req.RoomID,
		"gating_active", p.GatingActive,
		"issuer", p.IssuerAddress,
		"taxon", p.TaxonID,
		"min_holding_count", p.MinHoldingCount,
	)
	writeJSON(w, http.StatusOK, updateConfigResponse{
		Message: "Configuration updated for room " + req.RoomID,
	})
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	roomID := chi.URLParam(r, "roomID")

	p, err := h.store.Get(ctx, roomID)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no configuration for room")
			return
		}
		h.logger.ErrorContext(ctx, "policy lookup failed",
			"room_id", roomID,
			"error", err,
			"request_id", middleware.GetRequestID(ctx),
		)
		writeError(w, http.StatusInternalServerError, "error loading room configuration")
		return
	}

	writeJSON(w, http.StatusOK, configResponse{
		RoomID:          p.RoomID,
		GatingActive:    p.GatingActive,
		IssuerAddress:   p.IssuerAddress,
		TaxonID:         p.TaxonID,
		MinHoldingCount: p.MinHoldingCount,
		UpdatedAt:       p.UpdatedAt,
	})
}

// isRoomAdmin reports whether userID has admin power in the room, resolved
// with the given token.
func (h *Handler) isRoomAdmin(ctx context.Context, roomID, userID, token string) (bool, error) {
	levels, err := h.rooms.PowerLevels(ctx, roomID, token)
	if err != nil {
		return false, err
	}
	return levels.UserLevel(userID) >= adminPowerLevel, nil
}

// isRoomAdminSelf checks the token holder's own power level in the room.
func (h *Handler) isRoomAdminSelf(ctx context.Context, roomID, token string) (bool, error) {
	userID, err := h.rooms.WhoAmI(ctx, token)
	if err != nil {
		return false, err
	}
	return h.isRoomAdmin(ctx, roomID, userID, token)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return token
}

func statusForGatewayError(err error) int {
	var matrixErr *matrix.Error
	if errors.As(err, &matrixErr) {
		switch matrixErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusForbidden
		case http.StatusNotFound:
			return http.StatusNotFound
		}
	}
	return http.StatusBadGateway
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
