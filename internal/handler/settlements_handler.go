package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmun/divvy/internal/middleware"
	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/service"
)

func settlementPlanHandler(svc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.Plan(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, result)
	}
}

func listSettlementsHandler(svc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settlements, err := svc.ListByGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if settlements == nil {
			settlements = []*models.Settlement{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
	}
}

func recordSettlementHandler(svc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.RecordSettlementInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		settlement, err := svc.Record(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"), in)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, settlement)
	}
}

func confirmSettlementHandler(svc *service.SettlementService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settlement, err := svc.Confirm(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "settlementID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, settlement)
	}
}
