package tui

import (
  "context"
  "io"
  "sync"
  "testing"
  "time"

  tea "github.com/charmbracelet/bubbletea"
  "github.com/rs/zerolog"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"
  "tvinup/internal/landing"
)

type stubAPI struct {
  mu        sync.Mutex
  submitted []string
}

func (s *stubAPI) Subscribe(_ context.Context, email string) (int, error) {
  s.mu.Lock()
  defer s.mu.Unlock()
  s.submitted = append(s.submitted, email)
  return 201, nil
}

func (s *stubAPI) SendEmail(context.Context, string) (int, error) { return 200, nil }

func (s *stubAPI) Count(context.Context) (int, error) { return 7, nil }

func (s *stubAPI) emails() []string {
  s.mu.Lock()
  defer s.mu.Unlock()
  return append([]string(nil), s.submitted...)
}

func newTestModel(t *testing.T, api landing.API, video landing.Video) Model {
  t.Helper()
  page := landing.NewPage(api, video,
    landing.WithLogger(zerolog.Nop()),
    landing.WithDebounce(10*time.Millisecond),
  )
  t.Cleanup(page.Close)
  return NewModel(page)
}

func typeText(m tea.Model, s string) tea.Model {
  m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
  return m
}

func TestModel_Init(t *testing.T) {
  m := newTestModel(t, &stubAPI{}, nil)

  msg := m.Init()()
  assert.IsType(t, ChangedMsg{}, msg)
  assert.Contains(t, m.View(), "7")
}

func TestModel_TypingAndBackspace(t *testing.T) {
  m := newTestModel(t, &stubAPI{}, nil)

  var tm tea.Model = m
  tm = typeText(tm, "nino@example.gee")
  tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyBackspace})

  assert.Equal(t, "nino@example.ge", m.page.State().Email)
  assert.True(t, m.page.CanSubmit())
  assert.Contains(t, tm.View(), "nino@example.ge")
}

func TestModel_EnterSubmits(t *testing.T) {
  api := &stubAPI{}
  m := newTestModel(t, api, nil)

  var tm tea.Model = m
  tm = typeText(tm, "bad")
  tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

  tm = typeText(tm, "@example.ge")
  tm, _ = tm.Update(tea.KeyMsg{Type: tea.KeyEnter})

  require.Eventually(t, func() bool {
    return m.page.Banner().Visible
  }, time.Second, 5*time.Millisecond)

  assert.Equal(t, []string{"bad@example.ge"}, api.emails())
  assert.Contains(t, tm.View(), "გამოწერილია წარმატებით")
}

func TestModel_TabTogglesMute(t *testing.T) {
  video := &landing.Player{}
  m := newTestModel(t, &stubAPI{}, video)

  assert.Contains(t, m.View(), "ხმის ჩართვა")

  tm, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
  assert.False(t, video.Muted())
  assert.Contains(t, tm.View(), "ხმის გამორთვა")
  assert.Contains(t, tm.View(), "volume.png")
}

func TestModel_Quit(t *testing.T) {
  m := newTestModel(t, &stubAPI{}, nil)

  tm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
  require.NotNil(t, cmd)
  assert.IsType(t, tea.QuitMsg{}, cmd())
  assert.Empty(t, tm.View())
}

func TestProgram_HandlesKeysWithChangeNotifications(t *testing.T) {
  notifier := &Notifier{}
  page := landing.NewPage(&stubAPI{}, &landing.Player{},
    landing.WithLogger(zerolog.Nop()),
    landing.WithDebounce(10*time.Millisecond),
    landing.WithOnChange(notifier.Notify),
  )
  t.Cleanup(page.Close)

  ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
  defer cancel()

  program := tea.NewProgram(NewModel(page),
    tea.WithContext(ctx),
    tea.WithInput(nil),
    tea.WithOutput(io.Discard),
    tea.WithoutRenderer(),
  )
  notifier.Attach(program)

  done := make(chan error, 1)
  go func() {
    _, err := program.Run()
    done <- err
  }()

  program.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
  program.Send(tea.KeyMsg{Type: tea.KeyTab})
  program.Send(tea.KeyMsg{Type: tea.KeyEsc})

  select {
  case err := <-done:
    require.NoError(t, err)
  case <-time.After(3 * time.Second):
    t.Fatal("program did not quit")
  }

  s := page.State()
  assert.Equal(t, "a", s.Email)
  assert.False(t, s.Muted)
}

func TestModel_InvalidEmailHint(t *testing.T) {
  m := newTestModel(t, &stubAPI{}, nil)

  var tm tea.Model = m
  tm = typeText(tm, "nino@")

  require.Eventually(t, m.page.InvalidEmailHint, time.Second, 5*time.Millisecond)
  assert.Contains(t, tm.View(), "ელ-ფოსტის ფორმატი არასწორია")
}
