package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmun/divvy/internal/middleware"
	"github.com/tmun/divvy/internal/models"
	"github.com/tmun/divvy/internal/service"
)

type expenseResponse struct {
	Expense *models.Expense           `json:"expense"`
	Shares  []models.ParticipantShare `json:"shares"`
}

func createExpenseHandler(svc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.CreateExpenseInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		// The path is authoritative for the group.
		in.GroupID = chi.URLParam(r, "groupID")

		expense, shares, err := svc.Create(r.Context(), middleware.GetUserID(r.Context()), in)
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, expenseResponse{Expense: expense, Shares: shares})
	}
}

func listExpensesHandler(svc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expenses, err := svc.ListByGroup(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		if expenses == nil {
			expenses = []*models.Expense{}
		}

		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
	}
}

func getExpenseHandler(svc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expense, shares, err := svc.Get(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"))
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, expenseResponse{Expense: expense, Shares: shares})
	}
}

func deleteExpenseHandler(svc *service.ExpenseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID")); err != nil {
			handleServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
