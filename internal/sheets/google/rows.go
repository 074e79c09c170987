package google

import (
	"fmt"
	"strconv"
	"strings"

	"financas/internal/core"
)

var (
	receivableHeader = []any{"id", "nome", "valor", "status", "data"}
	payableHeader    = []any{"id", "nome", "valor", "flags", "data_vencimento", "parcela", "id_grupo_parcela"}
)

func receivableRow(r core.Receivable) []any {
	return []any{r.ID, r.Name, r.Amount.String(), string(r.Status), r.Date.String()}
}

func payableRow(p core.Payable) []any {
	parcela := ""
	if p.IsInstallment() {
		parcela = fmt.Sprintf("%d/%d", p.InstallmentIndex, p.InstallmentCount)
	}
	group := ""
	if p.GroupID != nil {
		group = strconv.FormatInt(*p.GroupID, 10)
	}
	return []any{p.ID, p.Name, p.Amount.String(), p.Tags.String(), p.DueDate.String(), parcela, group}
}

// findRow returns the 1-based sheet row whose column A holds id, or 0.
// values is the content of column A starting at row 1.
func findRow(values [][]any, id int64) int {
	for i, row := range values {
		if n, ok := cellInt(row, 0); ok && n == id {
			return i + 1
		}
	}
	return 0
}

// groupRows returns the 1-based rows whose group column matches groupID,
// highest first so they can be deleted without shifting the others.
func groupRows(values [][]any, groupID int64) []int {
	col := len(payableHeader) - 1
	var rows []int
	for i := len(values) - 1; i >= 0; i-- {
		if n, ok := cellInt(values[i], col); ok && n == groupID {
			rows = append(rows, i+1)
		}
	}
	return rows
}

func cellInt(row []any, col int) (int64, bool) {
	if col >= len(row) {
		return 0, false
	}
	s := strings.TrimSpace(fmt.Sprint(row[col]))
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		// Sheets may hand numbers back as floats, e.g. "12.0".
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return n, true
}

// columnLetter maps a 0-based column index to A..Z.
func columnLetter(col int) string {
	return string(rune('A' + col))
}
