package email

import (
  "bytes"
  "context"
  "fmt"
  "html/template"
  "time"

  "github.com/wneessen/go-mail"
  "tvinup/internal/config"
)

const welcomeSubject = "TvinUP — მადლობა გამოწერისთვის!"

var welcomeHTML = template.Must(template.New("welcome").Parse(`
    <html>
    <body>
      <h1>მოგესალმებით!</h1>
      <p>მადლობა, რომ დაგვიტოვე ელ.ფოსტა. როგორც კი გავეშვებით, პირველი შენ გაცნობებთ.</p>
      <p><a href="{{.}}">Unsubscribe</a></p>
    </body>
    </html>
`))

type Sender struct {
  cfg *config.Config
}

func New(cfg *config.Config) *Sender {
  return &Sender{cfg: cfg}
}

// SendWelcome mails the launch-notice welcome message to a new subscriber.
func (s *Sender) SendWelcome(
  ctx context.Context,
  to string,
  unsubscribeLink string,
) error {
  msg, err := buildWelcome(s.cfg.SMTPFrom, to, unsubscribeLink)
  if err != nil {
    return err
  }

  client, err := mail.NewClient(
    s.cfg.SMTPHost,
    mail.WithPort(s.cfg.SMTPPort),
    mail.WithSMTPAuth(mail.SMTPAuthPlain),
    mail.WithUsername(s.cfg.SMTPUser),
    mail.WithPassword(s.cfg.SMTPPass),
    mail.WithTimeout(15*time.Second),
  )
  if err != nil {
    return fmt.Errorf("failed to create mail client: %w", err)
  }

  if err := client.DialAndSendWithContext(ctx, msg); err != nil {
    return fmt.Errorf("failed to send email: %w", err)
  }

  return nil
}

func buildWelcome(from, to, unsubscribeLink string) (*mail.Msg, error) {
  msg := mail.NewMsg()
  if err := msg.From(from); err != nil {
    return nil, fmt.Errorf("failed to set from: %w", err)
  }
  if err := msg.To(to); err != nil {
    return nil, fmt.Errorf("failed to set to: %w", err)
  }

  msg.Subject(welcomeSubject)

  var body bytes.Buffer
  if err := welcomeHTML.Execute(&body, unsubscribeLink); err != nil {
    return nil, fmt.Errorf("failed to render body: %w", err)
  }

  msg.SetBodyString(mail.TypeTextHTML, body.String())
  msg.AddAlternativeString(
    mail.TypeTextPlain,
    "მადლობა გამოწერისთვის! გამოწერის გაუქმება: "+unsubscribeLink,
  )

  return msg, nil
}
