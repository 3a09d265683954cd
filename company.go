package main

import (
	"time"
)

type Company struct {
	CompanyId      uint64    `db:"company_id" json:"company_id"`
	Symbol         string    `db:"symbol" json:"symbol"`
	CompanyName    string    `db:"company_name" json:"company_name"`
	CreateDatetime time.Time `db:"create_datetime" json:"create_datetime"`
	UpdateDatetime time.Time `db:"update_datetime" json:"update_datetime"`
}

// companiesBySymbol indexes companies by symbol, keeping the first company
// seen for a symbol
func companiesBySymbol(companies []Company) map[string]*Company {
	index := make(map[string]*Company, len(companies))
	for n := range companies {
		if _, ok := index[companies[n].Symbol]; ok {
			continue
		}
		index[companies[n].Symbol] = &companies[n]
	}
	return index
}
