package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/push"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

// PushHandler covers the device-facing push surface: registering an endpoint
// descriptor, probing for the server public key, and the internal dispatch
// endpoint.
type PushHandler struct {
	subs           repository.SubscriptionRepository
	dispatcher     *push.Dispatcher
	vapidPublicKey string
	logger         zerolog.Logger
}

// subscribePayload is the platform-issued endpoint descriptor. The server
// stores it verbatim; only the push transport interprets it.
type subscribePayload struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

type sendPayload struct {
	UserID string `json:"userId"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	URL    string `json:"url"`
}

func NewPushHandler(subs repository.SubscriptionRepository, dispatcher *push.Dispatcher, vapidPublicKey string, logger zerolog.Logger) *PushHandler {
	return &PushHandler{
		subs:           subs,
		dispatcher:     dispatcher,
		vapidPublicKey: vapidPublicKey,
		logger:         logger.With().Str("handler", "push").Logger(),
	}
}

// Subscribe upserts one (user, endpoint) registration. Re-registering the
// same endpoint refreshes the keys and the updated timestamp.
func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload subscribePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription payload")
		return
	}
	if strings.TrimSpace(payload.Endpoint) == "" || payload.Keys.P256dh == "" || payload.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "Subscription endpoint and keys are required")
		return
	}

	if _, err := h.subs.Upsert(r.Context(), models.PushSubscription{
		UserID:   userID,
		Endpoint: payload.Endpoint,
		P256dh:   payload.Keys.P256dh,
		Auth:     payload.Keys.Auth,
	}); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save push subscription")
		writeError(w, http.StatusInternalServerError, "Failed to save subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Unsubscribe removes the caller's registration for one endpoint.
func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := authz.UserIDFromRequest(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || strings.TrimSpace(payload.Endpoint) == "" {
		writeError(w, http.StatusBadRequest, "Endpoint is required")
		return
	}

	if err := h.subs.DeleteByEndpoint(r.Context(), userID, payload.Endpoint); err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("failed to remove push subscription")
		writeError(w, http.StatusInternalServerError, "Failed to remove subscription")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// VAPIDPublicKey hands the client the server key it needs to subscribe with
// the platform push service.
func (h *PushHandler) VAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": h.vapidPublicKey})
}

// Send fans a message out to every device the target user has registered.
// Individual delivery failures never surface here; only a subscription fetch
// failure is a 500.
func (h *PushHandler) Send(w http.ResponseWriter, r *http.Request) {
	if _, ok := authz.UserIDFromRequest(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var payload sendPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := h.dispatcher.Dispatch(r.Context(), payload.UserID, payload.Title, payload.Body, payload.URL)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", payload.UserID).Msg("dispatch failed")
		writeError(w, http.StatusInternalServerError, "Internal error")
		return
	}
	if result.NoRecipients() {
		writeJSON(w, http.StatusOK, map[string]string{"message": "no subscriptions"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
