package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/msomdec/finance-tracker/internal/domain"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	cases := map[string]domain.Money{
		`12.5`:    1250,
		`"12.50"`: 1250,
		`"12,34"`: 1234,
		`100`:     10000,
		`0.015`:   2,
		`"0.01"`:  1,
	}
	for in, want := range cases {
		var a Amount
		if err := json.Unmarshal([]byte(in), &a); err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if a.money() != want {
			t.Fatalf("%s: expected %d, got %d", in, want, a.money())
		}
	}

	for _, in := range []string{`-1`, `0`, `"abc"`, `true`, `"1e3"`} {
		var a Amount
		err := json.Unmarshal([]byte(in), &a)
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", in, err)
		}
	}
}

func TestAmount_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(struct {
		A Amount `json:"a"`
	}{A: Amount(1250)})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `{"a":12.50}` {
		t.Fatalf("unexpected JSON %s", raw)
	}
}

func TestDetail(t *testing.T) {
	err := fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	if got := detail(err, domain.ErrInvalidInput); got != "Amount must be positive." {
		t.Fatalf("unexpected detail %q", got)
	}
	if got := detail(domain.ErrCategoryInUse, domain.ErrConflict); got != "Category is referenced by transactions." {
		t.Fatalf("unexpected detail %q", got)
	}
}
