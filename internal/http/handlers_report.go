package http

import "net/http"

func (s *Server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.reports.MonthlySummary(r.Context(), userID(r), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlySummaryResponses(entries))
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	year, month, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := s.reports.BudgetStatus(r.Context(), userID(r), year, month)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetStatusResponses(rows))
}

func (s *Server) handleYearlySummary(w http.ResponseWriter, r *http.Request) {
	year, _, err := parseYearMonth(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	entries, err := s.reports.YearlySummary(r.Context(), userID(r), year)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toYearlySummaryResponses(entries))
}
