package chat

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"parley/infrastructure"
	"parley/internal/api"
	"parley/internal/auth"
)

type JSONHandler struct {
	useCase *UseCase
}

func NewJSONHandler(useCase *UseCase) *JSONHandler {
	return &JSONHandler{useCase: useCase}
}

func (h *JSONHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.useCase.UserChats(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, summaries)
}

func (h *JSONHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	details, err := h.useCase.ChatWithDetails(r.Context(), auth.CallerID(r.Context()), chatID)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, details)
}

func (h *JSONHandler) CreatePrivateChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParticipantID string `json:"participant_id"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, err)
		return
	}

	details, err := h.useCase.CreatePrivateChat(r.Context(), auth.CallerID(r.Context()), req.ParticipantID)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, details)
}

func (h *JSONHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var params CreateGroupParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.RespondError(w, err)
		return
	}

	details, err := h.useCase.CreateGroupChat(r.Context(), auth.CallerID(r.Context()), params)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, details)
}

// ListMessages serves the message history and then moves the caller's
// read cursor, one cursor move per fetch.
func (h *JSONHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			api.RespondError(w, infrastructure.NewValidationError("limit", "must be an integer"))
			return
		}
	}

	callerID := auth.CallerID(r.Context())
	messages, err := h.useCase.Messages(r.Context(), callerID, chatID, limit)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	if err := h.useCase.MarkRead(r.Context(), callerID, chatID); err != nil {
		api.RespondError(w, err)
		return
	}

	if messages == nil {
		messages = []*Message{}
	}
	api.RespondJSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

func (h *JSONHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var params SendMessageParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.RespondError(w, err)
		return
	}

	message, err := h.useCase.SendMessage(r.Context(), auth.CallerID(r.Context()), chatID, params)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, message)
}

func (h *JSONHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var params UpdateGroupParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.RespondError(w, err)
		return
	}

	details, err := h.useCase.UpdateGroupInfo(r.Context(), auth.CallerID(r.Context()), chatID, params)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, details)
}

func (h *JSONHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.useCase.DeleteChat(r.Context(), auth.CallerID(r.Context()), chatID); err != nil {
		api.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JSONHandler) AddMembers(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}

	var req struct {
		UserIDs []string `json:"user_ids"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, err)
		return
	}

	details, err := h.useCase.AddMembers(r.Context(), auth.CallerID(r.Context()), chatID, req.UserIDs)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, details)
}

func (h *JSONHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	targetID := mux.Vars(r)["uid"]

	if err := h.useCase.RemoveMember(r.Context(), auth.CallerID(r.Context()), chatID, targetID); err != nil {
		api.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *JSONHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	chatID, err := pathChatID(r)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	targetID := mux.Vars(r)["uid"]

	var req struct {
		Role Role `json:"role"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, err)
		return
	}

	if err := h.useCase.UpdateMemberRole(r.Context(), auth.CallerID(r.Context()), chatID, targetID, req.Role); err != nil {
		api.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathChatID(r *http.Request) (uuid.UUID, error) {
	chatID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, infrastructure.NewValidationError("id", "must be a valid chat id")
	}
	return chatID, nil
}

// SetupJSONRoutes Helper function to set up routes
func SetupJSONRoutes(r *mux.Router, h *JSONHandler) {
	r.HandleFunc("/chats", h.ListChats).Methods("GET")
	r.HandleFunc("/chats", h.CreatePrivateChat).Methods("POST")
	r.HandleFunc("/chats/{id}", h.GetChat).Methods("GET")
	r.HandleFunc("/chats/{id}/messages", h.ListMessages).Methods("GET")
	r.HandleFunc("/chats/{id}/messages", h.SendMessage).Methods("POST")

	r.HandleFunc("/groups", h.CreateGroup).Methods("POST")
	r.HandleFunc("/groups/{id}", h.UpdateGroup).Methods("PATCH")
	r.HandleFunc("/groups/{id}", h.DeleteGroup).Methods("DELETE")
	r.HandleFunc("/groups/{id}/members", h.AddMembers).Methods("POST")
	r.HandleFunc("/groups/{id}/members/{uid}", h.RemoveMember).Methods("DELETE")
	r.HandleFunc("/groups/{id}/members/{uid}/role", h.UpdateMemberRole).Methods("PATCH")
}
