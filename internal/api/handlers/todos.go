package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nizar-zouaoui/my-todos-personal/internal/api/middleware"
	"github.com/nizar-zouaoui/my-todos-personal/internal/domain"
	"github.com/nizar-zouaoui/my-todos-personal/internal/service"
)

type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

type createTodoRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	todo, err := h.todoService.Create(r.Context(), userID, service.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		ExpiresAt:   req.ExpiresAt,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		log.Printf("ERROR [TodoHandler.Create] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, todo)
}

func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	todos, err := h.todoService.List(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.List] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	todo, err := h.todoService.Get(r.Context(), taskID, userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.Get] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	var patch domain.TodoPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if patch.Empty() {
		http.Error(w, "No fields to update", http.StatusBadRequest)
		return
	}

	todo, err := h.todoService.Update(r.Context(), taskID, userID, patch)
	if err != nil {
		log.Printf("ERROR [TodoHandler.Update] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	todo, err := h.todoService.Toggle(r.Context(), taskID, userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.Toggle] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

func (h *TodoHandler) ToggleMute(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	todo, err := h.todoService.ToggleMute(r.Context(), taskID, userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.ToggleMute] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, todo)
}

// Delete removes an owned task or, for a collaborator, leaves it. The
// response says which happened so the client can word the confirmation.
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	left, err := h.todoService.Delete(r.Context(), taskID, userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.Delete] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"left": left})
}

func (h *TodoHandler) ListCollaborators(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}

	users, err := h.todoService.ListCollaborators(r.Context(), taskID, userID)
	if err != nil {
		log.Printf("ERROR [TodoHandler.ListCollaborators] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *TodoHandler) AddCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.todoService.AddCollaborator(r.Context(), taskID, friendID, userID); err != nil {
		log.Printf("ERROR [TodoHandler.AddCollaborator] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "added"})
}

func (h *TodoHandler) RemoveCollaborator(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "taskID"))
	if err != nil {
		http.Error(w, "Invalid task ID", http.StatusBadRequest)
		return
	}
	friendID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.todoService.RemoveCollaborator(r.Context(), taskID, friendID, userID); err != nil {
		log.Printf("ERROR [TodoHandler.RemoveCollaborator] %v", err)
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
