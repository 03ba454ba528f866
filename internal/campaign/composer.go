package campaign

import (
	"fmt"
	"strings"

	"github.com/garageflow/garage-backend/internal/maintenance"
	"github.com/garageflow/garage-backend/internal/models"
)

// maxUpcomingItems caps the non-urgent lines in a message. Urgent items are
// never truncated.
const maxUpcomingItems = 2

// Compose renders a due selection into the notification body. Pure formatting,
// no side effects. The tone is deliberately soft: a reminder, not a deadline.
func Compose(v *models.Vehicle, items []maintenance.Status, estimatedKm int) string {
	var urgent, upcoming []maintenance.Status
	for _, it := range items {
		if it.Urgent {
			urgent = append(urgent, it)
		} else {
			upcoming = append(upcoming, it)
		}
	}
	if len(upcoming) > maxUpcomingItems {
		upcoming = upcoming[:maxUpcomingItems]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", v.OwnerName)
	fmt.Fprintf(&b, "Your %s is at an estimated %d km. A few maintenance items are coming up:\n\n", v.Model, estimatedKm)

	for _, it := range urgent {
		fmt.Fprintf(&b, "- %s has reached its recommended service interval (due at %d km)\n", it.Label, it.NextDueKm)
	}
	for _, it := range upcoming {
		fmt.Fprintf(&b, "- %s: about %d km (~%d days) remaining\n", it.Label, it.KmRemaining, it.DaysRemaining)
	}

	b.WriteString("\nWhenever it suits you, give us a call or drop by and we'll take care of it. Safe driving!")
	return b.String()
}
