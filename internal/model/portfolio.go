package model

import "github.com/shopspring/decimal"

type Position struct {
	Holding
	Quote     Quote           `json:"quote"`
	Value     decimal.Decimal `json:"value"`
	DayChange decimal.Decimal `json:"dayChange"`
}

type PortfolioSnapshot struct {
	Positions  []Position      `json:"positions"`
	TotalValue decimal.Decimal `json:"totalValue"`
	DayChange  decimal.Decimal `json:"dayChange"`
	// Unpriced counts holdings whose quote is unavailable or never fetched.
	Unpriced int `json:"unpriced"`
}

type IndustryAllocation struct {
	Industry string          `json:"industry"`
	Value    decimal.Decimal `json:"value"`
	Weight   decimal.Decimal `json:"weight"`
}
