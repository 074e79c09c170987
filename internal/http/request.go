package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"financas/internal/core"
	"financas/internal/log"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 64 << 10

// decodeJSON reads a single JSON object into dst. Unknown fields are
// ignored so older frontends keep working.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &core.ValidationError{Field: "body", Reason: "must not be empty"}
		}
		return &core.ValidationError{Field: "body", Reason: "malformed JSON: " + err.Error()}
	}
	return nil
}

// pathID reads the numeric {id} route variable.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id < 1 {
		return 0, &core.ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return id, nil
}

// yearMonthQuery reads the optional ano/mes parameters. Either may be nil
// when absent.
func yearMonthQuery(r *http.Request) (year, month *int, err error) {
	parse := func(key string) (*int, error) {
		v := strings.TrimSpace(r.URL.Query().Get(key))
		if v == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, &core.ValidationError{Field: key, Reason: fmt.Sprintf("%q is not an integer", v)}
		}
		return &n, nil
	}
	if year, err = parse("ano"); err != nil {
		return nil, nil, err
	}
	if month, err = parse("mes"); err != nil {
		return nil, nil, err
	}
	return year, month, nil
}

// periodQuery returns the month filter of a listing, or nil for no filter.
func periodQuery(r *http.Request) (*core.Period, error) {
	year, month, err := yearMonthQuery(r)
	if err != nil || year == nil || month == nil {
		return nil, err
	}
	p := core.Period{Year: *year, Month: *month}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// optionalDate parses a YYYY-MM-DD value; nil or blank yields the zero Date.
func optionalDate(s *string) (core.Date, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(strings.TrimSpace(*s))
}

func requiredAmount(d *decimal.Decimal) (core.Money, error) {
	if d == nil {
		return core.Money{}, &core.ValidationError{Field: "valor", Reason: "is required"}
	}
	m, err := core.MoneyFromDecimal(*d)
	if err != nil {
		return core.Money{}, &core.ValidationError{Field: "valor", Reason: core.ErrAmountTooLarge.Reason}
	}
	return m, nil
}

// sanitizeInput trims s and removes control characters other than tab and
// newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

// notFoundDetail names the missing record the way the frontend expects.
func notFoundDetail(err error) string {
	var nf *core.NotFoundError
	if errors.As(err, &nf) {
		switch nf.Kind {
		case core.KindReceivable:
			return "Entrada não encontrada"
		case core.KindPayable:
			return "Saída não encontrada"
		case core.KindInstallmentGroup:
			return "Grupo de parcelas não encontrado"
		}
	}
	return "Registro não encontrado"
}

// writeError maps ledger errors to status codes: validation 422, missing
// record 404, anything else 500 with the cause only in the log.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeDetail(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeDetail(w, http.StatusNotFound, notFoundDetail(err))
	default:
		log.NewStructuredLogger(log.FromContext(r.Context())).
			LogError(r.Context(), "Ledger operation failed", err, log.ComponentHTTP, op, nil)
		writeDetail(w, http.StatusInternalServerError, "Erro interno")
	}
}
