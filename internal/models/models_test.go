package models

import "testing"

// TestIsNewDebt проверяет распознавание системной категории нового долга,
// которую нельзя создавать, переименовывать и удалять вручную.
func TestIsNewDebt(t *testing.T) {
	if !(ExpenseCategory{Name: NewDebtCategoryName}).IsNewDebt() {
		t.Fatalf("category %q must be recognized as the debt category", NewDebtCategoryName)
	}
	if (ExpenseCategory{Name: "Groceries"}).IsNewDebt() {
		t.Fatalf("ordinary category must not be recognized as the debt category")
	}
	if (ExpenseCategory{Name: "new debt"}).IsNewDebt() {
		t.Fatalf("the reserved name is case sensitive")
	}
}

// TestIsRefund проверяет признак возврата по знаку суммы.
func TestIsRefund(t *testing.T) {
	if !(ExpenseTransaction{AmountCents: -500}).IsRefund() {
		t.Fatalf("negative amount must be a refund")
	}
	if (ExpenseTransaction{AmountCents: 500}).IsRefund() {
		t.Fatalf("positive amount must not be a refund")
	}
	if (ExpenseTransaction{}).IsRefund() {
		t.Fatalf("zero amount must not be a refund")
	}
}
