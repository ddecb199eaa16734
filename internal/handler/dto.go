package handler

import (
	"strconv"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
	"github.com/msomdec/finance-tracker/internal/service"
)

// Amount is Money on the wire: a JSON number with two decimals. Requests may
// also send it as a string.
type Amount domain.Money

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(domain.Money(a).String()), nil
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	text := string(data)
	if s, err := strconv.Unquote(text); err == nil {
		text = s
	}
	m, err := domain.ParseMoney(text)
	if err != nil {
		return err
	}
	*a = Amount(m)
	return nil
}

func (a *Amount) money() domain.Money { return domain.Money(*a) }

// Requests.

type registerRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"required,max=50"`
	Type string `json:"type" validate:"required,oneof=INCOME EXPENSE"`
}

type updateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,max=50"`
	Type *string `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
}

type createTransactionRequest struct {
	CategoryID      int64   `json:"categoryId" validate:"required,gt=0"`
	Amount          *Amount `json:"amount" validate:"required"`
	Description     string  `json:"description" validate:"max=255"`
	Type            string  `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
	TransactionDate string  `json:"transactionDate" validate:"required,datetime=2006-01-02"`
}

type updateTransactionRequest struct {
	CategoryID      *int64  `json:"categoryId" validate:"omitempty,gt=0"`
	Amount          *Amount `json:"amount"`
	Description     *string `json:"description" validate:"omitempty,max=255"`
	Type            *string `json:"type" validate:"omitempty,oneof=INCOME EXPENSE"`
	TransactionDate *string `json:"transactionDate" validate:"omitempty,datetime=2006-01-02"`
}

type budgetRequest struct {
	CategoryID int64   `json:"categoryId" validate:"required,gt=0"`
	Amount     *Amount `json:"amount" validate:"required"`
	Month      int     `json:"month" validate:"required,gte=1,lte=12"`
	Year       int     `json:"year" validate:"required,gte=2020"`
}

// Responses.

type loginResponse struct {
	Token     string           `json:"token"`
	Type      string           `json:"type"`
	ExpiresAt string           `json:"expiresAt"`
	User      domain.Principal `json:"user"`
}

type CategoryDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func toCategoryDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}

func toCategoryDTOs(categories []domain.Category) []CategoryDTO {
	dtos := make([]CategoryDTO, len(categories))
	for i := range categories {
		dtos[i] = toCategoryDTO(&categories[i])
	}
	return dtos
}

type TransactionDTO struct {
	ID              int64  `json:"id"`
	CategoryID      int64  `json:"categoryId"`
	CategoryName    string `json:"categoryName"`
	Amount          Amount `json:"amount"`
	Description     string `json:"description"`
	Type            string `json:"type"`
	TransactionDate string `json:"transactionDate"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

func toTransactionDTO(t *domain.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:              t.ID,
		CategoryID:      t.CategoryID,
		CategoryName:    t.CategoryName,
		Amount:          Amount(t.Amount),
		Description:     t.Description,
		Type:            string(t.Type),
		TransactionDate: t.Date.Format(domain.DateLayout),
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}
}

// TransactionPageDTO is one page of transactions. Pages are 0-based.
type TransactionPageDTO struct {
	Content       []TransactionDTO `json:"content"`
	Page          int              `json:"page"`
	Size          int              `json:"size"`
	TotalElements int              `json:"totalElements"`
	TotalPages    int              `json:"totalPages"`
}

func toTransactionPageDTO(p *service.TransactionPage) TransactionPageDTO {
	content := make([]TransactionDTO, len(p.Items))
	for i := range p.Items {
		content[i] = toTransactionDTO(&p.Items[i])
	}
	return TransactionPageDTO{
		Content:       content,
		Page:          p.Page,
		Size:          p.Size,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages,
	}
}

type BudgetDTO struct {
	ID           int64  `json:"id"`
	CategoryID   int64  `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Amount       Amount `json:"amount"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

func toBudgetDTO(b *domain.Budget) BudgetDTO {
	return BudgetDTO{
		ID:           b.ID,
		CategoryID:   b.CategoryID,
		CategoryName: b.CategoryName,
		Amount:       Amount(b.Amount),
		Month:        b.Month,
		Year:         b.Year,
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.Format(time.RFC3339),
	}
}

func toBudgetDTOs(budgets []domain.Budget) []BudgetDTO {
	dtos := make([]BudgetDTO, len(budgets))
	for i := range budgets {
		dtos[i] = toBudgetDTO(&budgets[i])
	}
	return dtos
}

type SummaryDTO struct {
	Month            int                  `json:"month"`
	Year             int                  `json:"year"`
	TotalIncome      Amount               `json:"totalIncome"`
	TotalExpenses    Amount               `json:"totalExpenses"`
	Balance          Amount               `json:"balance"`
	TransactionCount int                  `json:"transactionCount"`
	Categories       []CategorySummaryDTO `json:"categories"`
}

type CategorySummaryDTO struct {
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	Type         string  `json:"type"`
	Total        Amount  `json:"total"`
	Count        int     `json:"count"`
	Budget       *Amount `json:"budget"`
	Remaining    *Amount `json:"remaining"`
}

func toSummaryDTO(s *service.MonthlySummary) SummaryDTO {
	categories := make([]CategorySummaryDTO, len(s.Categories))
	for i, c := range s.Categories {
		categories[i] = CategorySummaryDTO{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Type:         string(c.Type),
			Total:        Amount(c.Total),
			Count:        c.Count,
		}
		if c.Budget != nil {
			budget, remaining := Amount(*c.Budget), Amount(*c.Remaining)
			categories[i].Budget = &budget
			categories[i].Remaining = &remaining
		}
	}
	return SummaryDTO{
		Month:            s.Month,
		Year:             s.Year,
		TotalIncome:      Amount(s.TotalIncome),
		TotalExpenses:    Amount(s.TotalExpenses),
		Balance:          Amount(s.Balance),
		TransactionCount: s.TransactionCount,
		Categories:       categories,
	}
}
