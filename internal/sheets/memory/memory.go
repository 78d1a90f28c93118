package memory

import (
	"context"
	"sync"

	"selada/internal/export"
	ports "selada/internal/sheets"
)

var _ ports.ReportPublisher = (*Publisher)(nil)

// Publisher keeps the most recently published report tables in memory.
// It stands in for Google Sheets when no spreadsheet is configured.
type Publisher struct {
	mu        sync.Mutex
	tabs      map[string]export.Table
	order     []string
	published int
	err       error
}

func New() *Publisher {
	return &Publisher{tabs: map[string]export.Table{}}
}

// FailWith makes subsequent publishes return err. A nil err clears it.
func (p *Publisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// PublishReports replaces each named tab; tabs not mentioned are kept.
func (p *Publisher) PublishReports(_ context.Context, sheets []export.Sheet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	for _, s := range sheets {
		if _, ok := p.tabs[s.Name]; !ok {
			p.order = append(p.order, s.Name)
		}
		p.tabs[s.Name] = copyTable(s.Table)
	}
	p.published++
	return nil
}

// Tab returns the last table published under name.
func (p *Publisher) Tab(name string) (export.Table, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	t, ok := p.tabs[name]
	return copyTable(t), ok
}

// Tabs lists tab names in creation order.
func (p *Publisher) Tabs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.order...)
}

// Published counts successful publishes.
func (p *Publisher) Published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}

func copyTable(t export.Table) export.Table {
	out := export.Table{Columns: append([]string(nil), t.Columns...)}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, append([]any(nil), row...))
	}
	return out
}
