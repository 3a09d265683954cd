package main

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/araddon/dateparse"
)

type IncomeStatement struct {
	IncomeStatementId  uint64          `db:"income_statement_id"`
	Symbol             string          `db:"symbol"`
	Date               string          `db:"date"`
	Period             string          `db:"period"`
	Revenue            sql.NullFloat64 `db:"revenue"`
	GrossProfit        sql.NullFloat64 `db:"gross_profit"`
	OperatingExpenses  sql.NullFloat64 `db:"operating_expenses"`
	NetIncome          sql.NullFloat64 `db:"net_income"`
	RevenueGrowthPct   sql.NullFloat64 `db:"revenue_growth_pct"`
	NetIncomeGrowthPct sql.NullFloat64 `db:"net_income_growth_pct"`
}

// periodTime parses the reporting period date. Dates that cannot be parsed
// come back as the zero time, which sorts before every real date.
func (is IncomeStatement) periodTime() time.Time {
	t, err := dateparse.ParseIn(is.Date, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nullable metrics travel as plain numbers or null in JSON and in the redis cache

type incomeStatementJSON struct {
	IncomeStatementId  uint64   `json:"income_statement_id"`
	Symbol             string   `json:"symbol"`
	Date               string   `json:"date"`
	Period             string   `json:"period"`
	Revenue            *float64 `json:"revenue"`
	GrossProfit        *float64 `json:"gross_profit"`
	OperatingExpenses  *float64 `json:"operating_expenses"`
	NetIncome          *float64 `json:"net_income"`
	RevenueGrowthPct   *float64 `json:"revenue_growth_pct"`
	NetIncomeGrowthPct *float64 `json:"net_income_growth_pct"`
}

func nullToPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func ptrToNull(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func (is IncomeStatement) MarshalJSON() ([]byte, error) {
	return json.Marshal(incomeStatementJSON{
		IncomeStatementId:  is.IncomeStatementId,
		Symbol:             is.Symbol,
		Date:               is.Date,
		Period:             is.Period,
		Revenue:            nullToPtr(is.Revenue),
		GrossProfit:        nullToPtr(is.GrossProfit),
		OperatingExpenses:  nullToPtr(is.OperatingExpenses),
		NetIncome:          nullToPtr(is.NetIncome),
		RevenueGrowthPct:   nullToPtr(is.RevenueGrowthPct),
		NetIncomeGrowthPct: nullToPtr(is.NetIncomeGrowthPct),
	})
}

func (is *IncomeStatement) UnmarshalJSON(data []byte) error {
	var raw incomeStatementJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*is = IncomeStatement{
		IncomeStatementId:  raw.IncomeStatementId,
		Symbol:             raw.Symbol,
		Date:               raw.Date,
		Period:             raw.Period,
		Revenue:            ptrToNull(raw.Revenue),
		GrossProfit:        ptrToNull(raw.GrossProfit),
		OperatingExpenses:  ptrToNull(raw.OperatingExpenses),
		NetIncome:          ptrToNull(raw.NetIncome),
		RevenueGrowthPct:   ptrToNull(raw.RevenueGrowthPct),
		NetIncomeGrowthPct: ptrToNull(raw.NetIncomeGrowthPct),
	}
	return nil
}
