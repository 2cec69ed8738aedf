package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmun/divvy/internal/middleware"
	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/service"
)

type createGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type addMembersRequest struct {
	Members []string `json:"members"`
}

func createGroupHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createGroupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		group, err := svc.Create(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.Members)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, group)
	}
}

func listGroupsHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := svc.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if groups == nil {
			groups = []*models.Group{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
	}
}

func getGroupHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		group, err := svc.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, group)
	}
}

func addMembersHandler(svc *service.GroupService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addMembersRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		group, err := svc.AddMembers(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"), req.Members)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, group)
	}
}
