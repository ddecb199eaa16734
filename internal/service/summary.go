package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
)

// SummaryService reports a month's income, spending and budget usage.
type SummaryService struct {
	transactions domain.TransactionRepository
	budgets      domain.BudgetRepository
}

// NewSummaryService creates a new SummaryService.
func NewSummaryService(transactions domain.TransactionRepository, budgets domain.BudgetRepository) *SummaryService {
	return &SummaryService{transactions: transactions, budgets: budgets}
}

type MonthlySummary struct {
	Month            int
	Year             int
	TotalIncome      domain.Money
	TotalExpenses    domain.Money
	Balance          domain.Money
	TransactionCount int
	Categories       []CategorySummary
}

// CategorySummary is one category's activity in the month. Budget and
// Remaining are nil when no budget was set.
type CategorySummary struct {
	CategoryID   int64
	CategoryName string
	Type         domain.TransactionType
	Total        domain.Money
	Count        int
	Budget       *domain.Money
	Remaining    *domain.Money
}

// Monthly builds the summary of the principal's activity in month/year.
func (s *SummaryService) Monthly(ctx context.Context, p domain.Principal, month, year int) (*MonthlySummary, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}
	if err := validateYear(year); err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)

	totals, err := s.transactions.TotalsByCategory(ctx, p.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("sum transactions: %w", err)
	}
	budgets, err := s.budgets.ListByPeriod(ctx, p.ID, month, year)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}

	summary := &MonthlySummary{Month: month, Year: year}
	type rowKey struct {
		categoryID int64
		typ        domain.TransactionType
	}
	rows := make(map[rowKey]*CategorySummary)
	var order []rowKey

	for _, t := range totals {
		switch t.Type {
		case domain.TransactionTypeIncome:
			summary.TotalIncome += t.Total
		case domain.TransactionTypeExpense:
			summary.TotalExpenses += t.Total
		}
		summary.TransactionCount += t.Count

		key := rowKey{t.CategoryID, t.Type}
		rows[key] = &CategorySummary{
			CategoryID:   t.CategoryID,
			CategoryName: t.CategoryName,
			Type:         t.Type,
			Total:        t.Total,
			Count:        t.Count,
		}
		order = append(order, key)
	}

	// Budgets limit spending, so they attach to the expense row.
	for _, b := range budgets {
		key := rowKey{b.CategoryID, domain.TransactionTypeExpense}
		cs, ok := rows[key]
		if !ok {
			cs = &CategorySummary{CategoryID: b.CategoryID, CategoryName: b.CategoryName, Type: domain.TransactionTypeExpense}
			rows[key] = cs
			order = append(order, key)
		}
		amount := b.Amount
		remaining := amount - cs.Total
		cs.Budget = &amount
		cs.Remaining = &remaining
	}

	summary.Balance = summary.TotalIncome - summary.TotalExpenses
	for _, key := range order {
		summary.Categories = append(summary.Categories, *rows[key])
	}
	sort.SliceStable(summary.Categories, func(i, j int) bool {
		a, b := summary.Categories[i], summary.Categories[j]
		if a.CategoryName != b.CategoryName {
			return a.CategoryName < b.CategoryName
		}
		return a.Type < b.Type
	})
	return summary, nil
}
