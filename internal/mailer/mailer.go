package mailer

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"rsvp-service/internal/config"
	"rsvp-service/internal/logger"
)

const subject = "Confirmation - Je Quitte La France - 4 Juillet 2026"

// Mailer sends the RSVP confirmation over an authenticated SMTP relay.
// Delivery is best-effort: when credentials or the recipient address are
// absent it no-ops, and errors are only ever logged by the caller.
type Mailer struct {
	cfg config.EmailConfig
	log *logger.Logger

	// sendMail is swappable in tests.
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg config.EmailConfig, log *logger.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		log:      log,
		sendMail: smtp.SendMail,
	}
}

func (m *Mailer) SendConfirmation(name, email string, lunchCount, dinnerCount int64) error {
	if !m.cfg.Configured() {
		m.log.Debug("MAIL", "Sender credentials not configured, skipping confirmation")
		return nil
	}
	if email == "" {
		m.log.Debug("MAIL", "No recipient address, skipping confirmation")
		return nil
	}

	msg := m.buildMessage(name, email, lunchCount, dinnerCount)
	addr := net.JoinHostPort(m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SenderEmail, m.cfg.SenderPassword, m.cfg.SMTPHost)

	if err := m.sendMail(addr, auth, m.cfg.SenderEmail, []string{email}, msg); err != nil {
		return fmt.Errorf("smtp delivery to %s failed: %w", email, err)
	}

	m.log.LogMail("SENT", email, "Confirmation email delivered")
	return nil
}

// buildMessage assembles a multipart/alternative message with plain text
// and HTML renderings of the confirmation.
func (m *Mailer) buildMessage(name, email string, lunchCount, dinnerCount int64) []byte {
	boundary := "rsvp-" + uuid.New().String()
	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), m.cfg.SMTPHost)

	lunchText := countText(lunchCount)
	dinnerText := countText(dinnerCount)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.cfg.SenderEmail)
	fmt.Fprintf(&b, "To: %s\r\n", email)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: %s\r\n", messageID)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, `Bonjour %s,

Merci d'avoir répondu à mon invitation.

Je te confirme que j'ai bien noté ta présence avec:
- %s le midi; et
- %s le soir.

Date: 4 juillet 2026
Lieu: 10 rue d'Echevanne, 70100 Velesmes

Possibilité de loger en tente/gîte selon disponibilité.

Pour toutes questions, n'hésite pas à me contacter au 0770706027 ou directement en répondant à cet email.

Hâte de te voir, je te tiens au courant!

Théo
`, name, lunchText, dinnerText)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&b, `<html>
<body style="font-family: Arial, sans-serif; color: #333; line-height: 1.6;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #00ff00;">Bonjour %s,</h2>
    <p>Merci d'avoir répondu à mon invitation.</p>
    <p>Je te confirme que j'ai bien noté ta présence avec:</p>
    <ul>
      <li><strong>%s</strong> le midi; et</li>
      <li><strong>%s</strong> le soir.</li>
    </ul>
    <div style="background-color: #f5f5f5; padding: 15px; border-left: 4px solid #00ff00; margin: 20px 0;">
      <p style="margin: 5px 0;"><strong>Date:</strong> 4 juillet 2026</p>
      <p style="margin: 5px 0;"><strong>Lieu:</strong> 10 rue d'Echevanne, 70100 Velesmes</p>
    </div>
    <p>Possibilité de loger en tente/gîte selon disponibilité.</p>
    <p>Pour toutes questions, n'hésite pas à me contacter au <strong>0770706027</strong> ou directement en répondant à cet email.</p>
    <p>Hâte de te voir, je te tiens au courant!</p>
    <p style="margin-top: 30px;">Théo</p>
  </div>
</body>
</html>
`, name, lunchText, dinnerText)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

func countText(count int64) string {
	switch {
	case count <= 0:
		return "aucune personne"
	case count == 1:
		return "1 personne"
	default:
		return fmt.Sprintf("%d personnes", count)
	}
}
