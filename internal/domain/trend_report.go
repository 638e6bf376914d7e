package domain

// TrendReport is narrative analysis of a ticket set. It is produced fresh per
// analysis request and never persisted.
type TrendReport struct {
	TrendReport string
	ActionItems string
}

// HasActionItems reports whether the model returned action items.
func (r TrendReport) HasActionItems() bool {
	return r.ActionItems != ""
}
