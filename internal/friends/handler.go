package friends

import (
	"net/http"

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

func (h *JSONHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	views, err := h.useCase.List(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	if views == nil {
		views = []*View{}
	}
	api.RespondJSON(w, http.StatusOK, views)
}

func (h *JSONHandler) RequestFriend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, err)
		return
	}

	friendship, err := h.useCase.Request(r.Context(), auth.CallerID(r.Context()), req.UserID)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusCreated, friendship)
}

func (h *JSONHandler) RespondFriend(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		api.RespondError(w, infrastructure.NewValidationError("id", "must be a valid friendship id"))
		return
	}

	var req struct {
		Status Status `json:"status"`
	}
	if err := api.DecodeJSON(r, &req); err != nil {
		api.RespondError(w, err)
		return
	}

	friendship, err := h.useCase.Respond(r.Context(), auth.CallerID(r.Context()), id, req.Status)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, friendship)
}

// SetupJSONRoutes Helper function to set up routes
func SetupJSONRoutes(r *mux.Router, h *JSONHandler) {
	r.HandleFunc("/friends", h.ListFriends).Methods("GET")
	r.HandleFunc("/friends", h.RequestFriend).Methods("POST")
	r.HandleFunc("/friends/{id}", h.RespondFriend).Methods("PATCH")
}
