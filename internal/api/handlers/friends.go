package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/api/middleware"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
)

type FriendHandler struct {
	friendService *service.FriendService
}

func NewFriendHandler(friendService *service.FriendService) *FriendHandler {
	return &FriendHandler{friendService: friendService}
}

type sendRequestRequest struct {
	ReceiverID uuid.UUID `json:"receiverId"`
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	request, err := h.friendService.SendRequest(r.Context(), userID, req.ReceiverID)
	if err != nil {
		log.Printf("ERROR [FriendHandler.SendRequest] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (h *FriendHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	if err := h.friendService.AcceptRequest(r.Context(), userID, requestID); err != nil {
		log.Printf("ERROR [FriendHandler.AcceptRequest] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "accepted"})
}

func (h *FriendHandler) DeclineRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requestID, err := uuid.Parse(chi.URLParam(r, "requestID"))
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	if err := h.friendService.DeclineRequest(r.Context(), userID, requestID); err != nil {
		log.Printf("ERROR [FriendHandler.DeclineRequest] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "declined"})
}

func (h *FriendHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friends, err := h.friendService.ListFriends(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [FriendHandler.ListFriends] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, friends)
}

func (h *FriendHandler) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	pending, err := h.friendService.ListPendingRequests(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [FriendHandler.ListPendingRequests] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, pending)
}

// ListSentRequests returns the receiver IDs of the user's outstanding
// requests, enough for clients to render a "requested" badge.
func (h *FriendHandler) ListSentRequests(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	receivers, err := h.friendService.ListSentRequests(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [FriendHandler.ListSentRequests] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, receivers)
}

func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	friendID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), userID, friendID); err != nil {
		log.Printf("ERROR [FriendHandler.RemoveFriend] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
