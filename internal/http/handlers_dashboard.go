package http

import "net/http"

// handleDashboard summarizes the month named by ano/mes, defaulting each to
// the current one.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthQuery(r)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	summary, err := s.ledger.Dashboard(r.Context(), year, month)
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardResponse(summary))
}

func (s *Server) handleAvailableMonths(w http.ResponseWriter, r *http.Request) {
	months, err := s.ledger.AvailableMonths(r.Context())
	if err != nil {
		s.writeError(w, r, "available_months", err)
		return
	}
	out := make([]monthResponse, 0, len(months))
	for _, m := range months {
		out = append(out, monthResponse{Ano: m.Year, Mes: m.Month})
	}
	writeJSON(w, http.StatusOK, out)
}
