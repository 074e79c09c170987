// Package memory is an in-process LedgerMirror used when no spreadsheet is
// configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"financas/internal/core"
	ports "financas/internal/sheets"
)

type Mirror struct {
	mu          sync.Mutex
	receivables map[int64]core.Receivable
	payables    map[int64]core.Payable
}

var _ ports.LedgerMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{
		receivables: make(map[int64]core.Receivable),
		payables:    make(map[int64]core.Payable),
	}
}

func (m *Mirror) UpsertReceivable(_ context.Context, r core.Receivable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivables[r.ID] = r
	return nil
}

func (m *Mirror) UpsertPayable(_ context.Context, p core.Payable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payables[p.ID] = p
	return nil
}

func (m *Mirror) Delete(_ context.Context, kind string, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch kind {
	case core.KindReceivable:
		delete(m.receivables, id)
	case core.KindPayable:
		delete(m.payables, id)
	default:
		return fmt.Errorf("unknown record kind %q", kind)
	}
	return nil
}

func (m *Mirror) DeleteGroup(_ context.Context, groupID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.payables {
		if p.GroupID != nil && *p.GroupID == groupID {
			delete(m.payables, id)
		}
	}
	return nil
}

func (m *Mirror) ReplaceAll(_ context.Context, receivables []core.Receivable, payables []core.Payable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receivables = make(map[int64]core.Receivable, len(receivables))
	for _, r := range receivables {
		m.receivables[r.ID] = r
	}
	m.payables = make(map[int64]core.Payable, len(payables))
	for _, p := range payables {
		m.payables[p.ID] = p
	}
	return nil
}

// Receivables returns the mirrored receivables ordered by id.
func (m *Mirror) Receivables() []core.Receivable {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Receivable, 0, len(m.receivables))
	for _, r := range m.receivables {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Payables returns the mirrored payables ordered by id.
func (m *Mirror) Payables() []core.Payable {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]core.Payable, 0, len(m.payables))
	for _, p := range m.payables {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
