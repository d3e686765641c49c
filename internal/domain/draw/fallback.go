package draw

import "github.com/okian/gacha/internal/domain/model"

// SearchOrder lists the grades tried for a target, in order: the target,
// then every commoner grade (downward), then every rarer grade starting
// just above the target (upward). The walk only compensates for missing
// cards; it never changes the rolled odds.
func SearchOrder(target model.Grade) []model.Grade {
	grades := model.Grades()
	at := target.Rank()
	if at < 0 {
		return grades
	}

	order := make([]model.Grade, 0, len(grades))
	order = append(order, target)
	order = append(order, downward(grades, at)...)
	order = append(order, upward(grades, at)...)
	return order
}

// downward returns the grades commoner than grades[at], nearest first.
func downward(grades []model.Grade, at int) []model.Grade {
	return grades[at+1:]
}

// upward returns the grades rarer than grades[at], nearest first.
func upward(grades []model.Grade, at int) []model.Grade {
	out := make([]model.Grade, 0, at)
	for i := at - 1; i >= 0; i-- {
		out = append(out, grades[i])
	}
	return out
}
