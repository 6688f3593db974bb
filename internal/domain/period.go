package domain

import "time"

// PeriodTag identifica uma janela de relatório
type PeriodTag string

const (
	PeriodDay   PeriodTag = "day"
	PeriodWeek  PeriodTag = "week"
	PeriodMonth PeriodTag = "month"
)

// PeriodTags lista as janelas suportadas, da menor para a maior
var PeriodTags = []PeriodTag{PeriodDay, PeriodWeek, PeriodMonth}

func (t PeriodTag) IsValid() bool {
	switch t {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Period é uma janela resolvida. End é o instante da resolução (janela "até agora"),
// e tanto Start quanto End são inclusivos.
type Period struct {
	Tag   PeriodTag `json:"period"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains indica se o instante pertence à janela
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}
