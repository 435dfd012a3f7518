// Package notify delivers a rendered report over SMS or email.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/dailyspend/dailyspend/internal/model"
)

// Subject is the fixed subject line of report emails.
const Subject = "Yesterday's Expenses"

// Message is one report ready to send.
type Message struct {
	Subject string
	Body    string
}

// Notifier sends a message over one channel.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Body renders a ledger as "key: value" lines, body first then the totals.
func Body(l model.Ledger) string {
	var b strings.Builder
	for _, e := range l.Entries() {
		fmt.Fprintf(&b, "%s: %s\n", e.Key, e.Amount.StringFixed(2))
	}
	return b.String()
}
