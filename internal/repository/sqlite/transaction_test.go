package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/finance-tracker/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTransactionRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "tx")
	catID := seedCategory(t, db, userID, "Food", domain.TransactionTypeExpense)

	created, err := db.Transactions().Create(ctx, domain.Transaction{
		UserID: userID, CategoryID: catID, Amount: 1234, Description: "Lunch",
		Type: domain.TransactionTypeExpense, Date: day(2024, 3, 15),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected ID to be set")
	}

	got, err := db.Transactions().GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Amount != 1234 || got.CategoryName != "Food" || got.Description != "Lunch" {
		t.Fatalf("unexpected transaction: %+v", got)
	}
	if !got.Date.Equal(day(2024, 3, 15)) {
		t.Fatalf("expected date 2024-03-15, got %s", got.Date)
	}
}

func TestTransactionRepository_Create_UnknownCategory(t *testing.T) {
	db := newTestDB(t)
	userID := seedUser(t, db, "badref")

	_, err := db.Transactions().Create(context.Background(), domain.Transaction{
		UserID: userID, CategoryID: 99999, Amount: 100, Type: domain.TransactionTypeExpense, Date: day(2024, 1, 1),
	})
	if !errors.Is(err, domain.ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestTransactionRepository_ListFiltersAndPages(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "list")
	other := seedUser(t, db, "someone")
	food := seedCategory(t, db, userID, "Food", domain.TransactionTypeExpense)
	salary := seedCategory(t, db, userID, "Salary", domain.TransactionTypeIncome)
	otherCat := seedCategory(t, db, other, "Food", domain.TransactionTypeExpense)

	repo := db.Transactions()
	for i := 1; i <= 5; i++ {
		if _, err := repo.Create(ctx, domain.Transaction{
			UserID: userID, CategoryID: food, Amount: domain.Money(i * 100),
			Type: domain.TransactionTypeExpense, Date: day(2024, 3, i),
		}); err != nil {
			t.Fatalf("create food %d: %v", i, err)
		}
	}
	if _, err := repo.Create(ctx, domain.Transaction{
		UserID: userID, CategoryID: salary, Amount: 500000, Type: domain.TransactionTypeIncome, Date: day(2024, 4, 1),
	}); err != nil {
		t.Fatalf("create salary: %v", err)
	}
	if _, err := repo.Create(ctx, domain.Transaction{
		UserID: other, CategoryID: otherCat, Amount: 100, Type: domain.TransactionTypeExpense, Date: day(2024, 3, 2),
	}); err != nil {
		t.Fatalf("create other: %v", err)
	}

	txs, total, err := repo.List(ctx, domain.TransactionFilter{UserID: userID, Page: 0, Size: 4})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 6 || len(txs) != 4 {
		t.Fatalf("expected total 6 and page of 4, got total %d, len %d", total, len(txs))
	}
	if !txs[0].Date.Equal(day(2024, 4, 1)) {
		t.Fatalf("expected newest first, got %s", txs[0].Date)
	}

	txs, _, err = repo.List(ctx, domain.TransactionFilter{UserID: userID, Page: 1, Size: 4})
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 on second page, got %d", len(txs))
	}

	from, to := day(2024, 3, 2), day(2024, 3, 4)
	expense := domain.TransactionTypeExpense
	txs, total, err = repo.List(ctx, domain.TransactionFilter{
		UserID: userID, From: &from, To: &to, CategoryID: &food, Type: &expense, Size: 20,
	})
	if err != nil {
		t.Fatalf("List filtered: %v", err)
	}
	if total != 3 || len(txs) != 3 {
		t.Fatalf("expected 3 filtered, got total %d, len %d", total, len(txs))
	}
}

func TestTransactionRepository_UpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "upd")
	food := seedCategory(t, db, userID, "Food", domain.TransactionTypeExpense)
	bills := seedCategory(t, db, userID, "Bills", domain.TransactionTypeExpense)

	tx, err := db.Transactions().Create(ctx, domain.Transaction{
		UserID: userID, CategoryID: food, Amount: 100, Type: domain.TransactionTypeExpense, Date: day(2024, 2, 2),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	next := *tx
	next.CategoryID = bills
	next.Amount = 250
	next.UserID = 424242 // must be ignored
	updated, err := db.Transactions().Update(ctx, next)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.CategoryName != "Bills" || updated.Amount != 250 {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.UserID != userID {
		t.Fatalf("user_id must not change, got %d", updated.UserID)
	}

	if err := db.Transactions().Delete(ctx, tx.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := db.Transactions().GetByID(ctx, tx.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTransactionRepository_TotalsByCategory(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	userID := seedUser(t, db, "totals")
	food := seedCategory(t, db, userID, "Food", domain.TransactionTypeExpense)
	salary := seedCategory(t, db, userID, "Salary", domain.TransactionTypeIncome)

	for _, tx := range []domain.Transaction{
		{UserID: userID, CategoryID: food, Amount: 1000, Type: domain.TransactionTypeExpense, Date: day(2024, 3, 1)},
		{UserID: userID, CategoryID: food, Amount: 550, Type: domain.TransactionTypeExpense, Date: day(2024, 3, 31)},
		{UserID: userID, CategoryID: food, Amount: 9999, Type: domain.TransactionTypeExpense, Date: day(2024, 4, 1)},
		{UserID: userID, CategoryID: salary, Amount: 300000, Type: domain.TransactionTypeIncome, Date: day(2024, 3, 25)},
	} {
		if _, err := db.Transactions().Create(ctx, tx); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	totals, err := db.Transactions().TotalsByCategory(ctx, userID, day(2024, 3, 1), day(2024, 3, 31))
	if err != nil {
		t.Fatalf("TotalsByCategory: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].CategoryName != "Food" || totals[0].Total != 1550 || totals[0].Count != 2 {
		t.Fatalf("unexpected food total: %+v", totals[0])
	}
	if totals[1].CategoryName != "Salary" || totals[1].Total != 300000 {
		t.Fatalf("unexpected salary total: %+v", totals[1])
	}
}
