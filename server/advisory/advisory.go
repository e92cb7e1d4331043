package advisory

import (
	"fmt"
	"time"

	"github.com/topi314/collective-tools/server/collective"
)

// Advisory is a derived notice asking event admins to move a leftover
// balance to the parent collective. It is recomputed on every evaluation and
// never persisted.
type Advisory struct {
	Title                  string   `json:"title"`
	Description            string   `json:"description"`
	TransactionDescription string   `json:"transactionDescription"`
	Balance                int64    `json:"balance"`
	Currency               string   `json:"currency"`
	Actions                []Action `json:"actions"`
}

type Action struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// NewEvaluator returns an evaluator using the given time source. A nil now
// falls back to time.Now.
func NewEvaluator(now func() time.Time) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{
		now: now,
	}
}

type Evaluator struct {
	now func() time.Time
}

// EventOver reports whether the event has ended. An event without an end
// date is never considered over.
func (e *Evaluator) EventOver(event collective.Event) bool {
	if event.EndsAt.IsZero() {
		return false
	}
	return e.now().After(event.EndsAt)
}

// Evaluate decides whether to surface a balance advisory. An advisory is
// only produced when the event is over, its balance is positive and the
// viewer can edit the event. The second return value distinguishes "no
// advisory" from an advisory with empty text.
func (e *Evaluator) Evaluate(event collective.Event, over bool, canEdit bool) (Advisory, bool) {
	if !over || event.Stats.Balance <= 0 || !canEdit {
		return Advisory{}, false
	}

	var parentName string
	if event.ParentCollective != nil {
		parentName = event.ParentCollective.Name
	}

	return Advisory{
		Title:       "Event is over and still has a positive balance",
		Description: fmt.Sprintf("If you still have expenses related to this event, please file them. Otherwise consider moving the money to your collective %s", parentName),
		TransactionDescription: fmt.Sprintf("Balance of %s (%s %s)",
			event.Name,
			FormatAmount(event.Stats.Balance),
			event.Currency,
		),
		Balance:  event.Stats.Balance,
		Currency: event.Currency,
		Actions: []Action{
			{
				Label: "Submit Expense",
				URL:   event.Path() + "/expenses/new",
			},
			{
				Label: "Send money to " + parentName,
				URL:   event.Path() + "/transfer",
			},
		},
	}, true
}

// FormatAmount renders an amount in minor currency units as a decimal
// string, e.g. 12345 -> "123.45".
func FormatAmount(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d", sign, amount/100, amount%100)
}
