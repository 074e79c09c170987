package http

import (
	"encoding/json"

	"financas/internal/core"

	"github.com/shopspring/decimal"
)

// Wire names follow the Portuguese keys the frontend already uses.

type receivableRequest struct {
	Nome   string           `json:"nome"`
	Valor  *decimal.Decimal `json:"valor"`
	Status string           `json:"status"`
	Data   *string          `json:"data"`
}

type receivableStatusRequest struct {
	Status string `json:"status"`
}

type payableRequest struct {
	Nome           string           `json:"nome"`
	Valor          *decimal.Decimal `json:"valor"`
	Flags          string           `json:"flags"`
	DataVencimento *string          `json:"data_vencimento"`
	// Parcelamento is the installment count; absent means 1.
	Parcelamento *int `json:"parcelamento"`
}

type settleRequest struct {
	Pago bool `json:"pago"`
}

type receivableResponse struct {
	ID     int64       `json:"id"`
	Nome   string      `json:"nome"`
	Valor  json.Number `json:"valor"`
	Status string      `json:"status"`
	Data   string      `json:"data"`
}

type payableResponse struct {
	ID             int64       `json:"id"`
	Nome           string      `json:"nome"`
	Valor          json.Number `json:"valor"`
	Flags          string      `json:"flags"`
	DataCriacao    string      `json:"data_criacao"`
	DataVencimento string      `json:"data_vencimento"`
	ParcelaAtual   int         `json:"parcela_atual"`
	TotalParcelas  int         `json:"total_parcelas"`
	IDGrupoParcela *int64      `json:"id_grupo_parcela"`
	Pago           bool        `json:"pago"`
}

type dashboardResponse struct {
	Saldo                json.Number `json:"saldo"`
	EntradasTotais       json.Number `json:"entradas_totais"`
	EntradasRecebidas    json.Number `json:"entradas_recebidas"`
	SaidasTotais         json.Number `json:"saidas_totais"`
	SaidasPagas          json.Number `json:"saidas_pagas"`
	Pendentes            json.Number `json:"pendentes"`
	TotalItensParcelados int         `json:"total_itens_parcelados"`
	ProximasParcelas     json.Number `json:"proximas_parcelas"`
	MesReferencia        string      `json:"mes_referencia"`
	Ano                  int         `json:"ano"`
	Mes                  int         `json:"mes"`
}

type monthResponse struct {
	Ano int `json:"ano"`
	Mes int `json:"mes"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type groupDeletedResponse struct {
	Message   string `json:"message"`
	Removidas int64  `json:"removidas"`
}

// createdPayableResponse is the first payable written, with every
// installment of the group listed under parcelas.
type createdPayableResponse struct {
	payableResponse
	Parcelas []payableResponse `json:"parcelas"`
}

// number renders money as a JSON number with two decimals.
func number(m core.Money) json.Number {
	return json.Number(m.String())
}

// statusLabel maps the stored status to the frontend vocabulary.
func statusLabel(s core.ReceivableStatus) string {
	switch s {
	case core.StatusPending:
		return "pendente"
	case core.StatusReceived:
		return "recebido"
	}
	return string(s)
}

func toReceivableResponse(r core.Receivable) receivableResponse {
	return receivableResponse{
		ID:     r.ID,
		Nome:   r.Name,
		Valor:  number(r.Amount),
		Status: statusLabel(r.Status),
		Data:   r.Date.String(),
	}
}

func toReceivableResponses(rs []core.Receivable) []receivableResponse {
	out := make([]receivableResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, toReceivableResponse(r))
	}
	return out
}

func toPayableResponse(p core.Payable) payableResponse {
	return payableResponse{
		ID:             p.ID,
		Nome:           p.Name,
		Valor:          number(p.Amount),
		Flags:          p.Tags.String(),
		DataCriacao:    p.CreatedAt.String(),
		DataVencimento: p.DueDate.String(),
		ParcelaAtual:   p.InstallmentIndex,
		TotalParcelas:  p.InstallmentCount,
		IDGrupoParcela: p.GroupID,
		Pago:           p.IsSettled(),
	}
}

func toPayableResponses(ps []core.Payable) []payableResponse {
	out := make([]payableResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toPayableResponse(p))
	}
	return out
}

func toDashboardResponse(s core.DashboardSummary) dashboardResponse {
	return dashboardResponse{
		Saldo:                number(s.Balance),
		EntradasTotais:       number(s.ReceivablesTotal),
		EntradasRecebidas:    number(s.ReceivablesReceived),
		SaidasTotais:         number(s.PayablesTotal),
		SaidasPagas:          number(s.PayablesPaid),
		Pendentes:            number(s.Pending),
		TotalItensParcelados: s.InstallmentItems,
		ProximasParcelas:     number(s.Upcoming),
		MesReferencia:        s.Label,
		Ano:                  s.Period.Year,
		Mes:                  s.Period.Month,
	}
}
