package mailer

import (
	"fmt"
	"strings"

	"paper-assistant-be/internal/entity"

	"gopkg.in/gomail.v2"
)

type IDigestMailer interface {
	SendDailyDigest(recipient string, papers []*entity.Paper) error
}

type digestMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewDigestMailer(host string, port int, username, password, from string) IDigestMailer {
	return &digestMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendDailyDigest emails the day's fetched papers as a simple HTML list.
func (m *digestMailer) SendDailyDigest(recipient string, papers []*entity.Paper) error {
	if recipient == "" {
		return fmt.Errorf("no digest recipient configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", fmt.Sprintf("arXiv digest: %d new papers", len(papers)))
	msg.SetBody("text/html", buildDigestBody(papers))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func buildDigestBody(papers []*entity.Paper) string {
	var b strings.Builder
	b.WriteString("<h2>New papers in the last 24 hours</h2>")
	if len(papers) == 0 {
		b.WriteString("<p>Nothing new today.</p>")
		return b.String()
	}

	b.WriteString("<ul>")
	for _, p := range papers {
		summary := p.Summary
		if len(summary) > 300 {
			summary = summary[:300] + "..."
		}
		fmt.Fprintf(&b, `<li><p><a href="%s"><strong>%s</strong></a><br/><em>%s</em><br/>%s</p></li>`,
			p.PdfUrl, p.Title, p.Authors, summary)
	}
	b.WriteString("</ul>")
	return b.String()
}
