package domain

import "context"

// ProcessResult aggregates the outcome of one collection batch pass.
type ProcessResult struct {
	Processed     int `json:"processed"`
	RemindersSent int `json:"reminders_sent"`
	Escalated     int `json:"escalated"`
}

// BucketStat aggregates overdue invoices inside one age bucket.
type BucketStat struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// Delinquent is one entry of the top delinquents list.
type Delinquent struct {
	ClientName string  `json:"client_name"`
	Amount     float64 `json:"amount"`
	Days       int     `json:"days"`
}

// DelinquencyReport is the read-side aggregation over overdue invoices.
type DelinquencyReport struct {
	TotalOverdue   int                   `json:"total_overdue"`
	TotalAmount    float64               `json:"total_amount"`
	ByAge          map[string]BucketStat `json:"by_age"`
	TopDelinquents []Delinquent          `json:"top_delinquents"`
}

// Service is the collection engine entry point: one batch pass over the
// overdue candidate set plus the reporting query.
type Service interface {
	ProcessOverdueInvoices(ctx context.Context) (*ProcessResult, error)
	Report(ctx context.Context) (*DelinquencyReport, error)
}
