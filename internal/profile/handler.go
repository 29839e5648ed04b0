package profile

import (
	"net/http"

	"github.com/gorilla/mux"

	"parley/internal/api"
	"parley/internal/auth"
)

type JSONHandler struct {
	useCase *UseCase
}

func NewJSONHandler(useCase *UseCase) *JSONHandler {
	return &JSONHandler{useCase: useCase}
}

func (h *JSONHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.useCase.Me(r.Context(), auth.CallerID(r.Context()))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, p)
}

func (h *JSONHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var params UpdateParams
	if err := api.DecodeJSON(r, &params); err != nil {
		api.RespondError(w, err)
		return
	}

	p, err := h.useCase.Update(r.Context(), auth.CallerID(r.Context()), params)
	if err != nil {
		api.RespondError(w, err)
		return
	}
	api.RespondJSON(w, http.StatusOK, p)
}

func (h *JSONHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.useCase.Search(r.Context(), auth.CallerID(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		api.RespondError(w, err)
		return
	}
	if profiles == nil {
		profiles = []*Profile{}
	}
	api.RespondJSON(w, http.StatusOK, profiles)
}

// SetupJSONRoutes Helper function to set up routes
func SetupJSONRoutes(r *mux.Router, h *JSONHandler) {
	r.HandleFunc("/profile", h.GetProfile).Methods("GET")
	r.HandleFunc("/profile", h.UpdateProfile).Methods("PATCH")
	r.HandleFunc("/users/search", h.SearchUsers).Methods("GET")
}
