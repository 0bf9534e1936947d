package tui

import (
  "context"
  "fmt"
  "strconv"
  "strings"

  tea "github.com/charmbracelet/bubbletea"
  "github.com/charmbracelet/lipgloss"
  "tvinup/internal/landing"
)

// ChangedMsg tells the program the page state changed outside Update, for
// example when an API call completes or the banner expires.
type ChangedMsg struct{}

// Model renders a landing.Page in the terminal.
type Model struct {
  page     *landing.Page
  quitting bool
}

func NewModel(page *landing.Page) Model {
  return Model{page: page}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
  return mountCmd(m.page)
}

func mountCmd(page *landing.Page) tea.Cmd {
  return func() tea.Msg {
    page.Mount(context.Background())
    return ChangedMsg{}
  }
}

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
  switch msg := msg.(type) {
  case tea.KeyMsg:
    return m.handleKeyPress(msg)
  case ChangedMsg:
    return m, nil
  }
  return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
  email := m.page.State().Email

  switch msg.Type {
  case tea.KeyCtrlC, tea.KeyEsc:
    m.quitting = true
    m.page.Close()
    return m, tea.Quit
  case tea.KeyTab:
    m.page.ToggleMute()
  case tea.KeyEnter:
    // Ignored while the email is invalid, like the disabled button.
    _ = m.page.SubmitDebounced()
  case tea.KeyBackspace:
    if r := []rune(email); len(r) > 0 {
      m.page.SetEmail(string(r[:len(r)-1]))
    }
  case tea.KeySpace:
    m.page.SetEmail(email + " ")
  case tea.KeyRunes:
    m.page.SetEmail(email + string(msg.Runes))
  }
  return m, nil
}

// View implements tea.Model interface
func (m Model) View() string {
  if m.quitting {
    return ""
  }

  s := m.page.State()
  var b strings.Builder

  if banner := m.page.Banner(); banner.Visible {
    style := ErrorBannerStyle
    if banner.Success {
      style = SuccessBannerStyle
    }
    b.WriteString(style.Render(banner.Text))
    b.WriteString("\n\n")
  }

  count := ""
  if s.CountKnown {
    count = strconv.Itoa(s.Count)
  }
  counter := lipgloss.JoinVertical(
    lipgloss.Center,
    CounterLabelStyle.Render("უკვე"),
    CounterValueStyle.Render(count),
    CounterLabelStyle.Render("TvinUP-ელი"),
  )

  button := DisabledButtonStyle.Render("დადასტურება")
  if m.page.CanSubmit() {
    button = ButtonStyle.Render("დადასტურება")
  }

  email := s.Email
  if email == "" {
    email = InfoStyle.Render("your@email.com")
  }

  card := lipgloss.JoinVertical(
    lipgloss.Center,
    counter,
    "",
    "დაგვიტოვე ელ.ფოსტა და როგორც კი გავეშვებით პირველი შენ გაცნობებთ 🙂",
    InputStyle.Render(email),
    hint(m.page),
    button,
  )
  b.WriteString(BoxStyle.Render(card))
  b.WriteString("\n\n")

  mute := m.page.MuteControl()
  b.WriteString(fmt.Sprintf("🔈 %s (%s)\n", mute.Label, mute.Icon))
  b.WriteString(InfoStyle.Render("enter: submit • tab: toggle sound • esc: quit"))
  b.WriteString("\n")

  return b.String()
}

func hint(page *landing.Page) string {
  switch {
  case page.SubmitPending():
    return InfoStyle.Render("იგზავნება...")
  case page.InvalidEmailHint():
    return HintStyle.Render("ელ-ფოსტის ფორმატი არასწორია")
  }
  return ""
}
