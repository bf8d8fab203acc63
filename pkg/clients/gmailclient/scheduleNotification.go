package gmailclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/staff-scheduler/pkg/core/model"
)

// SendScheduleNotification emails an employee the shifts they were assigned for the period.
// Nothing is sent when shifts is empty.
func (c *Client) SendScheduleNotification(ctx context.Context, email, name string, shifts []model.Shift, periodLabel string) error {
	if len(shifts) == 0 {
		return nil
	}

	subject, body := ScheduleEmail(name, shifts, periodLabel)
	if err := c.SendEmail(ctx, email, subject, body); err != nil {
		return fmt.Errorf("failed to notify %s: %w", email, err)
	}
	return nil
}

// ScheduleEmail renders the subject and plain-text body of a schedule notification
func ScheduleEmail(name string, shifts []model.Shift, periodLabel string) (string, string) {
	subject := fmt.Sprintf("Your schedule for %s", periodLabel)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You have been scheduled for the following shifts in %s:\n\n", periodLabel)
	for _, s := range shifts {
		fmt.Fprintf(&b, "  %s  %s-%s  %s\n", s.Date.Format("Mon 02 Jan 2006"), s.StartTime, s.EndTime, s.RequiredPosition)
	}
	b.WriteString("\nPlease speak to your manager if you are unable to work any of these shifts.\n")

	return subject, b.String()
}
