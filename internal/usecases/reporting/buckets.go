package reporting

import (
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

const (
	todayLabel = "Today"
	dayLabel   = "Jan 2"
	weekDays   = 7
)

// bucketPlan descreve os buckets de um período. O mesmo labelOf gera os rótulos
// dos buckets e classifica as vendas.
type bucketPlan struct {
	labels  []string
	labelOf func(time.Time) string
}

func planBuckets(period domain.Period, loc *time.Location) bucketPlan {
	byDay := func(t time.Time) string {
		return t.In(loc).Format(dayLabel)
	}

	today := startOfDay(period.End.In(loc))

	switch period.Tag {
	case domain.PeriodWeek:
		labels := make([]string, 0, weekDays)
		for i := weekDays - 1; i >= 0; i-- {
			labels = append(labels, byDay(today.AddDate(0, 0, -i)))
		}
		return bucketPlan{labels: labels, labelOf: byDay}
	case domain.PeriodMonth:
		labels := make([]string, 0, today.Day())
		for d := 1; d <= today.Day(); d++ {
			labels = append(labels, byDay(time.Date(today.Year(), today.Month(), d, 0, 0, 0, 0, loc)))
		}
		return bucketPlan{labels: labels, labelOf: byDay}
	default:
		return bucketPlan{
			labels:  []string{todayLabel},
			labelOf: func(time.Time) string { return todayLabel },
		}
	}
}
