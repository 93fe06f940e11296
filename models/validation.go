package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	CategoryDescriptionMin = 5
	CategoryDescriptionMax = 255
	ProductNameMin         = 5
	ProductNameMax         = 100
)

var (
	// MinPrice is the smallest price a product may be created or updated with.
	MinPrice = decimal.New(1, -2)
	// MaxPrice is the largest value the price column (decimal(10,2)) holds.
	MaxPrice = decimal.New(9999999999, -2)
)

// ValidateCategory checks a category draft and reports every violated constraint.
func ValidateCategory(d CategoryDraft) error {
	verr := &ValidationError{}
	checkText(verr, "descricao", d.Description, CategoryDescriptionMin, CategoryDescriptionMax)
	return verr.OrNil()
}

// ValidateProduct checks the fields of a product draft. The category reference is
// only checked for presence; resolving it is up to the caller.
func ValidateProduct(d ProductDraft) error {
	verr := &ValidationError{}
	checkText(verr, "nome", d.Name, ProductNameMin, ProductNameMax)
	switch {
	case d.Price.LessThan(MinPrice):
		verr.Add("price", "must be at least "+MinPrice.StringFixed(2))
	case RoundMoney(d.Price).GreaterThan(MaxPrice):
		verr.Add("price", "must be at most "+MaxPrice.StringFixed(2))
	}
	if d.CategoryID == 0 {
		verr.Add("categoria", "is required")
	}
	return verr.OrNil()
}

func checkText(verr *ValidationError, field, value string, lo, hi int) {
	if strings.TrimSpace(value) == "" {
		verr.Add(field, "is required")
		return
	}
	if n := utf8.RuneCountInString(value); n < lo || n > hi {
		verr.Add(field, fmt.Sprintf("must be between %d and %d characters", lo, hi))
	}
}
