package gmailclient

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
)

const EMAIL_INTERVAL = 3 * time.Second

// SendEmail sends a plain-text email with the specified subject and body.
// Sends are spaced at least EMAIL_INTERVAL apart to respect Gmail API rate limits.
func (c *Client) SendEmail(ctx context.Context, to, subject, body string) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	if err := c.waitForSendSlot(ctx); err != nil {
		return err
	}

	gmailMessage := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(buildMessage(c.sender, to, subject, body))),
	}

	if _, err := c.service.Users.Messages.Send("me", gmailMessage).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	c.lastSendTime = time.Now()
	return nil
}

func (c *Client) waitForSendSlot(ctx context.Context) error {
	if c.lastSendTime.IsZero() {
		return nil
	}

	wait := EMAIL_INTERVAL - time.Since(c.lastSendTime)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// buildMessage renders an RFC 2822 message. From is omitted when sender is empty
// and Gmail fills in the authenticated account.
func buildMessage(from, to, subject, body string) string {
	var b strings.Builder
	if from != "" {
		fmt.Fprintf(&b, "From: %s\r\n", from)
	}
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return b.String()
}
