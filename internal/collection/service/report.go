package service

import (
	"context"
	"sort"

	"github.com/vallegroup/valle360/internal/collection/domain"
	invoicedomain "github.com/vallegroup/valle360/internal/invoice/domain"
)

var reportBuckets = []string{"1-7", "8-15", "16-30", "31-60", "60+"}

func bucketFor(days int) string {
	switch {
	case days <= 7:
		return "1-7"
	case days <= 15:
		return "8-15"
	case days <= 30:
		return "16-30"
	case days <= 60:
		return "31-60"
	default:
		return "60+"
	}
}

// Report aggregates every overdue invoice into fixed age buckets and
// the ten largest open amounts. Read-only.
func (s *service) Report(ctx context.Context) (*domain.DelinquencyReport, error) {
	overdue, err := s.invoiceRepo.FindOverdue(ctx, s.db)
	if err != nil {
		return nil, err
	}

	report := &domain.DelinquencyReport{
		ByAge:          make(map[string]domain.BucketStat, len(reportBuckets)),
		TopDelinquents: []domain.Delinquent{},
	}
	for _, b := range reportBuckets {
		report.ByAge[b] = domain.BucketStat{}
	}

	now := s.clock.Now()
	delinquents := make([]domain.Delinquent, 0, len(overdue))
	for _, inv := range overdue {
		days := invoicedomain.DaysOverdue(inv.DueDate, now)

		stat := report.ByAge[bucketFor(days)]
		stat.Count++
		stat.Amount += inv.Amount
		report.ByAge[bucketFor(days)] = stat

		report.TotalOverdue++
		report.TotalAmount += inv.Amount

		delinquents = append(delinquents, domain.Delinquent{
			ClientName: inv.ClientName,
			Amount:     inv.Amount,
			Days:       days,
		})
	}

	sort.SliceStable(delinquents, func(i, j int) bool {
		return delinquents[i].Amount > delinquents[j].Amount
	})
	if len(delinquents) > 10 {
		delinquents = delinquents[:10]
	}
	report.TopDelinquents = delinquents

	return report, nil
}
