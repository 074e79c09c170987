package http

import (
	"net/http"

	"financas/internal/core"
	"financas/internal/services"
)

func (s *Server) handleListPayables(w http.ResponseWriter, r *http.Request) {
	period, err := periodQuery(r)
	if err != nil {
		s.writeError(w, r, "list_payables", err)
		return
	}
	ps, err := s.ledger.ListPayables(r.Context(), period)
	if err != nil {
		s.writeError(w, r, "list_payables", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayableResponses(ps))
}

// handleCreatePayable writes one payable, or a whole installment group when
// parcelamento is greater than one.
func (s *Server) handleCreatePayable(w http.ResponseWriter, r *http.Request) {
	var req payableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, "create_payable", err)
		return
	}
	amount, err := requiredAmount(req.Valor)
	if err != nil {
		s.writeError(w, r, "create_payable", err)
		return
	}
	start, err := optionalDate(req.DataVencimento)
	if err != nil {
		s.writeError(w, r, "create_payable", err)
		return
	}
	count := 1
	if req.Parcelamento != nil {
		count = *req.Parcelamento
	}

	created, err := s.ledger.CreatePayable(r.Context(), core.InstallmentRequest{
		Name:      sanitizeInput(req.Nome),
		Total:     amount,
		Tags:      core.ParseTags(sanitizeInput(req.Flags)),
		Count:     count,
		StartDate: start,
	})
	if err != nil {
		s.writeError(w, r, "create_payable", err)
		return
	}
	all := toPayableResponses(created)
	writeJSON(w, http.StatusCreated, createdPayableResponse{payableResponse: all[0], Parcelas: all})
}

func (s *Server) handleUpdatePayable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "update_payable", err)
		return
	}
	var req payableRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, "update_payable", err)
		return
	}
	amount, err := requiredAmount(req.Valor)
	if err != nil {
		s.writeError(w, r, "update_payable", err)
		return
	}
	due, err := optionalDate(req.DataVencimento)
	if err != nil {
		s.writeError(w, r, "update_payable", err)
		return
	}

	updated, err := s.ledger.UpdatePayable(r.Context(), id, services.PayableUpdate{
		Name:    sanitizeInput(req.Nome),
		Amount:  amount,
		Tags:    core.ParseTags(sanitizeInput(req.Flags)),
		DueDate: due,
	})
	if err != nil {
		s.writeError(w, r, "update_payable", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayableResponse(updated))
}

func (s *Server) handleSetPayableSettled(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "set_payable_settled", err)
		return
	}
	var req settleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, "set_payable_settled", err)
		return
	}
	updated, err := s.ledger.SetPayableSettled(r.Context(), id, req.Pago)
	if err != nil {
		s.writeError(w, r, "set_payable_settled", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayableResponse(updated))
}

func (s *Server) handleDeletePayable(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "delete_payable", err)
		return
	}
	if err := s.ledger.DeletePayable(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_payable", err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Saída deletada com sucesso"})
}

func (s *Server) handleListInstallmentGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "list_installment_group", err)
		return
	}
	ps, err := s.ledger.ListInstallmentGroup(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "list_installment_group", err)
		return
	}
	writeJSON(w, http.StatusOK, toPayableResponses(ps))
}

func (s *Server) handleDeleteInstallmentGroup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, "delete_installment_group", err)
		return
	}
	n, err := s.ledger.DeleteInstallmentGroup(r.Context(), id)
	if err != nil {
		s.writeError(w, r, "delete_installment_group", err)
		return
	}
	writeJSON(w, http.StatusOK, groupDeletedResponse{Message: "Parcelas deletadas com sucesso", Removidas: n})
}
