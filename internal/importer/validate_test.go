package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

func ptrStr(s string) *string { return &s }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Team: TeamImport{Name: "Acme", Currency: "SEK"},
		Periods: []PeriodImport{
			{Type: "monthly", Year: 2026, Number: 1, Transactions: 12},
		},
	}
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImportSchema)
		want   string
	}{
		{"missing team name", func(s *ImportSchema) { s.Team.Name = "" }, "team.name is required"},
		{"bad currency", func(s *ImportSchema) { s.Team.Currency = "KRONA" }, "team.currency"},
		{"bad locale", func(s *ImportSchema) { s.Team.Locale = "not a tag" }, "team.locale"},
		{"no periods", func(s *ImportSchema) { s.Periods = nil }, "at least one period"},
		{"bad type", func(s *ImportSchema) { s.Periods[0].Type = "daily" }, "periods[0].type"},
		{"year out of range", func(s *ImportSchema) { s.Periods[0].Year = 1999 }, "periods[0].year"},
		{"month out of range", func(s *ImportSchema) { s.Periods[0].Number = 13 }, "periods[0].number"},
		{"week 53 in a 52-week year", func(s *ImportSchema) {
			s.Periods[0].Type = "weekly"
			s.Periods[0].Year = 2025
			s.Periods[0].Number = 53
		}, "has no ISO week 53"},
		{"negative transactions", func(s *ImportSchema) { s.Periods[0].Transactions = -1 }, "transactions"},
		{"bad bank sync", func(s *ImportSchema) { s.Periods[0].LastBankSync = ptrStr("yesterday") }, "last_bank_sync"},
		{"negative expenses", func(s *ImportSchema) { s.Periods[0].Current.Expenses = -5 }, "periods[0].current: expenses failed \"gte\""},
		{"category without slug", func(s *ImportSchema) {
			s.Periods[0].Previous.CategorySpending = []domain.CategorySpending{{Name: "Rent", Amount: 100}}
		}, "category_spending[0].slug"},
		{"overdue invoice without id", func(s *ImportSchema) {
			s.Periods[0].Activity.MoneyOnTable.OverdueInvoices = []domain.OverdueInvoice{{CustomerName: "Globex", Amount: 10}}
		}, "periods[0].activity: money_on_table.overdue_invoices[0].id"},
		{"duplicate period", func(s *ImportSchema) { s.Periods = append(s.Periods, s.Periods[0]) }, "duplicate of periods[0]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			tt.mutate(s)
			errs := ValidateImportSchema(s)
			if assert.NotEmpty(t, errs) {
				var msgs []string
				for _, e := range errs {
					msgs = append(msgs, e.Error())
				}
				assert.Contains(t, strings.Join(msgs, "\n"), tt.want)
			}
		})
	}
}

func TestValidateImportSchema_CollectsAllErrors(t *testing.T) {
	s := validMinimalSchema()
	s.Team.Name = ""
	s.Periods[0].Type = "daily"
	s.Periods[0].Transactions = -3

	assert.Len(t, ValidateImportSchema(s), 3)
}

func TestValidateImportSchema_YearlyIgnoresNumber(t *testing.T) {
	s := validMinimalSchema()
	s.Periods = []PeriodImport{
		{Type: "yearly", Year: 2025},
		{Type: "yearly", Year: 2025, Number: 7},
	}
	errs := ValidateImportSchema(s)
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Error(), "duplicate")
	}
}
