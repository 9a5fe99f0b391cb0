package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/services"
)

type upsertBudgetRequest struct {
	CategoryID string `json:"categoryId"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
	Amount     string `json:"amount"`
}

// handleUpsertBudget answers 201 when the row was created and 204 when an
// existing row's amount was overwritten.
func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req upsertBudgetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := s.budgets.Upsert(r.Context(), userID(r), services.BudgetInput{
		CategoryID: req.CategoryID,
		Year:       req.Year,
		Month:      req.Month,
		Amount:     amount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	if created {
		w.WriteHeader(http.StatusCreated)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	budgets, err := s.budgets.List(r.Context(), userID(r), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetResponses(budgets))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.budgets.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
