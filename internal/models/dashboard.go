package models

import "github.com/shopspring/decimal"

// StageSummary aggregates the deals sitting in one pipeline stage.
type StageSummary struct {
	Stage          string          `json:"stage"`
	Count          int64           `json:"count"`
	RequestedTotal decimal.Decimal `json:"requested_total"`
	ApprovedTotal  decimal.Decimal `json:"approved_total"`
}

type PipelineSummary struct {
	Stages      []StageSummary  `json:"stages"`
	TotalDeals  int64           `json:"total_deals"`
	FundedTotal decimal.Decimal `json:"funded_total"`
}
