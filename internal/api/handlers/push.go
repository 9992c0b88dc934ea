package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/nizar-zouaoui/my-todos-personal/internal/api/middleware"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
)

type PushHandler struct {
	notificationService *service.NotificationService
	vapidPublicKey      string
}

func NewPushHandler(notificationService *service.NotificationService, vapidPublicKey string) *PushHandler {
	return &PushHandler{
		notificationService: notificationService,
		vapidPublicKey:      vapidPublicKey,
	}
}

type subscribeRequest struct {
	Endpoint string                  `json:"endpoint"`
	Keys     domain.SubscriptionKeys `json:"keys"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sub, err := h.notificationService.Subscribe(r.Context(), userID, req.Endpoint, req.Keys)
	if err != nil {
		log.Printf("ERROR [PushHandler.Subscribe] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	deleted, err := h.notificationService.Unsubscribe(r.Context(), userID, req.Endpoint)
	if err != nil {
		log.Printf("ERROR [PushHandler.Unsubscribe] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"deleted": deleted})
}

// Status reports whether the user has a subscription, optionally narrowed
// to a single endpoint, and exposes the VAPID public key clients need to
// subscribe in the first place.
func (h *PushHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	endpoint := r.URL.Query().Get("endpoint")
	subscribed, err := h.notificationService.IsSubscribed(r.Context(), userID, endpoint)
	if err != nil {
		log.Printf("ERROR [PushHandler.Status] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"subscribed":     subscribed,
		"vapidPublicKey": h.vapidPublicKey,
	})
}

// SendTest pushes a canned notification to the caller's own devices so
// they can verify their browser permission setup end to end.
func (h *PushHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	delivered, err := h.notificationService.Notify(r.Context(), userID, "Test Notification", "Push notifications are working!", "/todos")
	if err != nil {
		log.Printf("ERROR [PushHandler.SendTest] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"delivered": delivered})
}
