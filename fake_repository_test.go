package main

import (
	"context"
	"slices"
	"sync"
)

// fakeRepository is an in-memory Repository that counts calls. When
// onStatements is set it runs before every income statement read, with the
// 1-based number of that read.
type fakeRepository struct {
	mu    sync.Mutex
	calls map[string]int

	companies     []Company
	statements    []IncomeStatement
	watchlists    map[uint64][]string
	watchers      map[uint64]Watcher
	opportunities map[OpportunityTab][]Opportunity
	err           error

	onStatements func(ctx context.Context, call int) error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		calls:         make(map[string]int),
		watchlists:    make(map[uint64][]string),
		watchers:      make(map[uint64]Watcher),
		opportunities: make(map[OpportunityTab][]Opportunity),
	}
}

func (f *fakeRepository) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.calls[method]
}

func (f *fakeRepository) callCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeRepository) GetCompaniesBySymbols(ctx context.Context, symbols []string) ([]Company, error) {
	f.count("GetCompaniesBySymbols")
	if f.err != nil {
		return []Company{}, f.err
	}
	companies := []Company{}
	for _, c := range f.companies {
		if slices.Contains(symbols, c.Symbol) {
			companies = append(companies, c)
		}
	}
	return companies, nil
}

func (f *fakeRepository) GetLatestPeriodRecords(ctx context.Context, symbols []string) ([]IncomeStatement, error) {
	call := f.count("GetLatestPeriodRecords")
	if f.onStatements != nil {
		if err := f.onStatements(ctx, call); err != nil {
			return []IncomeStatement{}, err
		}
	}
	if f.err != nil {
		return []IncomeStatement{}, f.err
	}
	statements := []IncomeStatement{}
	for _, s := range f.statements {
		if slices.Contains(symbols, s.Symbol) {
			statements = append(statements, s)
		}
	}
	return statements, nil
}

func (f *fakeRepository) GetWatchlistSymbols(ctx context.Context, watcherId uint64) ([]string, error) {
	f.count("GetWatchlistSymbols")
	if f.err != nil {
		return []string{}, f.err
	}
	return slices.Clone(f.watchlists[watcherId]), nil
}

func (f *fakeRepository) GetWatcherById(ctx context.Context, watcherId uint64) (Watcher, error) {
	f.count("GetWatcherById")
	w, ok := f.watchers[watcherId]
	if !ok {
		return Watcher{}, errWatcherNotFound
	}
	return w, nil
}

func (f *fakeRepository) GetOpportunities(ctx context.Context, tab OpportunityTab, orgId uint64) ([]Opportunity, error) {
	f.count("GetOpportunities")
	if f.err != nil {
		return []Opportunity{}, f.err
	}
	opportunities := []Opportunity{}
	for _, o := range f.opportunities[tab] {
		if tab == TabTailored && uint64(o.OrgId.Int64) != orgId {
			continue
		}
		opportunities = append(opportunities, o)
	}
	return opportunities, nil
}

// sampleRepository holds two watched companies with a couple of quarters each
func sampleRepository() *fakeRepository {
	f := newFakeRepository()
	f.companies = []Company{
		{CompanyId: 1, Symbol: "AAPL", CompanyName: "Apple Inc."},
		{CompanyId: 2, Symbol: "MMM", CompanyName: "3M Company"},
	}
	f.statements = []IncomeStatement{
		withGrowth(statement("AAPL", "2024-03-30", 90753000000), -4.3),
		withGrowth(statement("AAPL", "2024-06-29", 85777000000), 4.87),
		withGrowth(statement("MMM", "2024-06-30", 6255000000), 0.5),
		withGrowth(statement("MMM", "2023-12-31", 7713000000), -3.2),
	}
	f.watchlists[7] = []string{"AAPL", "MMM"}
	return f
}

func withGrowth(is IncomeStatement, pct float64) IncomeStatement {
	is.RevenueGrowthPct = revenue(pct)
	is.NetIncomeGrowthPct = revenue(pct)
	return is
}
