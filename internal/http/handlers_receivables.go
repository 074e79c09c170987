package http

import (
	"net/http"

	"financas/internal/services"
)

func (s *Server) handleListReceivables(w http.ResponseWriter, r *http.Request) {
	period, err := periodQuery(r)
	if err != nil {
		s.writeError(w, r, "list_receivables", err)
		return
	}
	rs, err := s.ledger.ListReceivables(r.Context(), period)
	if err != nil {
		s.writeError(w, r, "list_receivables", err)
		return
	}
	writeJSON(w, http.StatusOK, toReceivableResponses(rs))
}

func (s *Server) handleCreateReceivable(w http.ResponseWriter, r *http.Request) {
	in, err := receivableInput(r)
	if err != nil {
		s.writeError(w, r, "create_receivable", err)
		return
	}
	created, err := s.ledger.CreateReceivable(r.Context(), in)
	if err != nil {
		s.writeError(w, r, "create_receivable", err)
		return
	}
	writeJSON(w, http.StatusCreated, toReceivableResponse(created))
}

func (s *Server) handleUpdateReceivable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "update_receivable", err)
		return
	}
	in, err := receivableInput(r)
	if err != nil {
		s.writeError(w, r, "update_receivable", err)
		return
	}
	updated, err := s.ledger.UpdateReceivable(r.Context(), id, in)
	if err != nil {
		s.writeError(w, r, "update_receivable", err)
		return
	}
	writeJSON(w, http.StatusOK, toReceivableResponse(updated))
}

func (s *Server) handleSetReceivableStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "set_receivable_status", err)
		return
	}
	var req receivableStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, "set_receivable_status", err)
		return
	}
	updated, err := s.ledger.SetReceivableStatus(r.Context(), id, sanitizeInput(req.Status))
	if err != nil {
		s.writeError(w, r, "set_receivable_status", err)
		return
	}
	writeJSON(w, http.StatusOK, toReceivableResponse(updated))
}

func (s *Server) handleDeleteReceivable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "delete_receivable", err)
		return
	}
	if err := s.ledger.DeleteReceivable(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_receivable", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Entrada deletada com sucesso"})
}

func receivableInput(r *http.Request) (services.ReceivableInput, error) {
	var req receivableRequest
	if err := decodeJSON(r, &req); err != nil {
		return services.ReceivableInput{}, err
	}
	amount, err := requiredAmount(req.Valor)
	if err != nil {
		return services.ReceivableInput{}, err
	}
	date, err := optionalDate(req.Data)
	if err != nil {
		return services.ReceivableInput{}, err
	}
	return services.ReceivableInput{
		Name:   sanitizeInput(req.Nome),
		Amount: amount,
		Status: sanitizeInput(req.Status),
		Date:   date,
	}, nil
}
