package main

import (
	"slices"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// companyNameKey strips everything but letters and digits and lowercases
// the rest: "3M Company" -> "3mcompany"
func companyNameKey(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, name)
	return cases.Lower(language.Und).String(stripped)
}

func leadingDigits(key string) string {
	end := 0
	for end < len(key) && key[end] >= '0' && key[end] <= '9' {
		end++
	}
	return key[:end]
}

// compareCompanyNameKeys orders two name keys. When both start with a run
// of digits those runs are compared as numbers first, so "9west" sorts
// before "10x".
func compareCompanyNameKeys(a, b string) int {
	digitsA, digitsB := leadingDigits(a), leadingDigits(b)
	if digitsA != "" && digitsB != "" {
		if c := decimal.RequireFromString(digitsA).Cmp(decimal.RequireFromString(digitsB)); c != 0 {
			return c
		}
	}
	return strings.Compare(a, b)
}

func CompareCompanyNames(a, b string) int {
	return compareCompanyNameKeys(companyNameKey(a), companyNameKey(b))
}

type ByCompanyName struct {
	rows []CompanyStatement
	keys []string
}

func (a ByCompanyName) Len() int { return len(a.rows) }
func (a ByCompanyName) Less(i, j int) bool {
	return compareCompanyNameKeys(a.keys[i], a.keys[j]) < 0
}
func (a ByCompanyName) Swap(i, j int) {
	a.rows[i], a.rows[j] = a.rows[j], a.rows[i]
	a.keys[i], a.keys[j] = a.keys[j], a.keys[i]
}

// SortByCompanyName returns a sorted copy of rows; rows itself is left
// untouched. Descending order is the exact reverse of ascending, equal keys
// included.
func SortByCompanyName(rows []CompanyStatement, descending bool) []CompanyStatement {
	sorted := ByCompanyName{
		rows: slices.Clone(rows),
		keys: make([]string, len(rows)),
	}
	for n, row := range sorted.rows {
		sorted.keys[n] = companyNameKey(row.CompanyName())
	}

	sort.Stable(sorted)
	if descending {
		slices.Reverse(sorted.rows)
	}
	return sorted.rows
}
