package reporting

import (
	"fmt"
	"time"

	"github.com/vfg2006/sales-dashboard-api/internal/domain"
)

// Resolve converte a tag em uma janela [início, now] no fuso informado.
// day começa à meia-noite, week na segunda-feira e month no dia 1.
func Resolve(tag domain.PeriodTag, now time.Time, loc *time.Location) (domain.Period, error) {
	if !tag.IsValid() {
		return domain.Period{}, fmt.Errorf("%w: %q", ErrInvalidPeriod, tag)
	}
	if loc == nil {
		loc = time.UTC
	}

	now = now.In(loc)
	midnight := startOfDay(now)

	var start time.Time
	switch tag {
	case domain.PeriodDay:
		start = midnight
	case domain.PeriodWeek:
		// domingo volta seis dias
		offset := (int(now.Weekday()) + 6) % 7
		start = midnight.AddDate(0, 0, -offset)
	case domain.PeriodMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	}

	return domain.Period{Tag: tag, Start: start, End: now}, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
