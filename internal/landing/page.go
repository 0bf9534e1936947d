package landing

import (
  "context"
  "net/http"
  "sync"
  "time"

  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"
  "golang.org/x/sync/errgroup"
  "tvinup/internal/debounce"
)

const DefaultBannerDuration = 5 * time.Second

// API is the backend the page talks to. *client.Client satisfies it.
type API interface {
  Subscribe(ctx context.Context, email string) (int, error)
  SendEmail(ctx context.Context, email string) (int, error)
  Count(ctx context.Context) (int, error)
}

// State is a snapshot of what the page displays. A zero status means the
// corresponding call has not completed since the banner was last cleared.
type State struct {
  Email              string
  Muted              bool
  SubscriptionStatus int
  EmailStatus        int
  ShowMessage        bool
  Count              int
  CountKnown         bool
}

type Banner struct {
  Visible bool
  Text    string
  Success bool
}

// Page is the landing page view model: form, banner, counter and mute
// toggle. It is safe for concurrent use.
type Page struct {
  api            API
  video          Video
  bannerDuration time.Duration
  debounceDelay  time.Duration
  onChange       func()
  logger         zerolog.Logger

  ctx     context.Context
  cancel  context.CancelFunc
  submit  *debounce.Func[string]
  settled *debounce.Value[string]

  mu          sync.Mutex
  state       State
  bannerTimer *time.Timer
  closed      bool
}

type Option func(*Page)

func WithBannerDuration(d time.Duration) Option {
  return func(p *Page) {
    if d > 0 {
      p.bannerDuration = d
    }
  }
}

func WithDebounce(d time.Duration) Option {
  return func(p *Page) {
    p.debounceDelay = d
  }
}

// WithOnChange registers a callback run after every state change. It is
// called without the page lock held and may come from any goroutine.
func WithOnChange(fn func()) Option {
  return func(p *Page) {
    p.onChange = fn
  }
}

func WithLogger(l zerolog.Logger) Option {
  return func(p *Page) {
    p.logger = l
  }
}

func NewPage(api API, video Video, opts ...Option) *Page {
  p := &Page{
    api:            api,
    video:          video,
    bannerDuration: DefaultBannerDuration,
    debounceDelay:  debounce.DefaultDelay,
    logger:         log.With().Str("component", "landing").Logger(),
  }
  for _, opt := range opts {
    opt(p)
  }

  p.ctx, p.cancel = context.WithCancel(context.Background())
  p.submit = debounce.NewFunc(func(email string) {
    p.submitEmail(p.ctx, email)
  }, p.debounceDelay)
  p.settled = debounce.NewValue("", p.debounceDelay, func(string) {
    p.notify()
  })

  // The video autoplays muted.
  p.state.Muted = true
  if video != nil {
    video.SetMuted(true)
  }

  return p
}

// Mount loads the subscriber count.
func (p *Page) Mount(ctx context.Context) {
  p.RefreshCount(ctx)
}

func (p *Page) RefreshCount(ctx context.Context) {
  n, err := p.api.Count(ctx)
  if err != nil {
    p.logger.Warn().Err(err).Msg("ℹ failed to fetch subscriber count")
    return
  }

  p.update(func(s *State) {
    s.Count = n
    s.CountKnown = true
  })
}

func (p *Page) SetEmail(email string) {
  p.update(func(s *State) {
    s.Email = email
  })
  p.settled.Set(email)
}

func (p *Page) CanSubmit() bool {
  return IsEmailValid(p.State().Email)
}

// InvalidEmailHint reports whether the email, once the user has stopped
// typing for the debounce delay, is non-empty and invalid.
func (p *Page) InvalidEmailHint() bool {
  email := p.settled.Get()
  return email != "" && email == p.State().Email && !IsEmailValid(email)
}

// SubmitPending reports whether a debounced submit is waiting to fire.
func (p *Page) SubmitPending() bool {
  return p.submit.Pending()
}

// Submit fires the subscribe and welcome-email calls concurrently for the
// current email and returns once both have completed and the count has been
// refreshed.
func (p *Page) Submit(ctx context.Context) error {
  email := p.State().Email
  if !IsEmailValid(email) {
    return ErrInvalidEmail
  }
  p.submitEmail(ctx, email)
  return nil
}

// SubmitDebounced schedules a submit of the current email after the
// debounce delay. Repeated calls within the delay collapse into one.
func (p *Page) SubmitDebounced() error {
  email := p.State().Email
  if !IsEmailValid(email) {
    return ErrInvalidEmail
  }
  p.submit.Call(email)
  return nil
}

func (p *Page) submitEmail(ctx context.Context, email string) {
  var g errgroup.Group

  g.Go(func() error {
    code, err := p.api.Subscribe(ctx, email)
    if err != nil {
      p.logger.Error().Err(err).Str("email", email).Msg("❌ error subscribing")
    }
    p.setStatus(func(s *State) { s.SubscriptionStatus = statusOrFallback(code) })
    return nil
  })

  g.Go(func() error {
    code, err := p.api.SendEmail(ctx, email)
    if err != nil {
      p.logger.Error().Err(err).Str("email", email).Msg("❌ error sending email")
    }
    p.setStatus(func(s *State) { s.EmailStatus = statusOrFallback(code) })
    return nil
  })

  g.Wait()
  p.RefreshCount(ctx)
}

func statusOrFallback(code int) int {
  if code == 0 {
    return http.StatusInternalServerError
  }
  return code
}

// setStatus applies fn, shows the banner and restarts its timer.
func (p *Page) setStatus(fn func(*State)) {
  p.mu.Lock()
  if p.closed {
    p.mu.Unlock()
    return
  }
  fn(&p.state)
  p.state.ShowMessage = true

  if p.bannerTimer != nil {
    p.bannerTimer.Stop()
  }
  var t *time.Timer
  t = time.AfterFunc(p.bannerDuration, func() {
    p.expireBanner(t)
  })
  p.bannerTimer = t
  p.mu.Unlock()

  p.notify()
}

func (p *Page) expireBanner(t *time.Timer) {
  p.mu.Lock()
  if p.closed || p.bannerTimer != t {
    p.mu.Unlock()
    return
  }
  p.bannerTimer = nil
  p.state.ShowMessage = false
  p.state.SubscriptionStatus = 0
  p.state.EmailStatus = 0
  p.mu.Unlock()

  p.notify()
}

// ToggleMute flips the video's muted flag. Without a video it does nothing.
func (p *Page) ToggleMute() {
  if p.video == nil {
    return
  }

  p.mu.Lock()
  if p.closed {
    p.mu.Unlock()
    return
  }
  p.video.SetMuted(!p.video.Muted())
  p.state.Muted = p.video.Muted()
  p.mu.Unlock()

  p.notify()
}

func (p *Page) MuteControl() MuteControl {
  return MuteControlFor(p.State().Muted)
}

func (p *Page) State() State {
  p.mu.Lock()
  defer p.mu.Unlock()
  return p.state
}

// Banner reports the transient status message. The subscription status
// takes precedence over the email status for the text; either call
// returning 200 marks it as a success.
func (p *Page) Banner() Banner {
  s := p.State()

  code := s.SubscriptionStatus
  if code == 0 {
    code = s.EmailStatus
  }

  return Banner{
    Visible: s.ShowMessage,
    Text:    MessageForStatus(code),
    Success: s.SubscriptionStatus == http.StatusOK || s.EmailStatus == http.StatusOK,
  }
}

// Close cancels pending debounced submits, in-flight calls started by them
// and the banner timer.
func (p *Page) Close() {
  p.mu.Lock()
  p.closed = true
  if p.bannerTimer != nil {
    p.bannerTimer.Stop()
    p.bannerTimer = nil
  }
  p.mu.Unlock()

  p.submit.Stop()
  p.settled.Stop()
  p.cancel()
}

func (p *Page) update(fn func(*State)) {
  p.mu.Lock()
  if p.closed {
    p.mu.Unlock()
    return
  }
  fn(&p.state)
  p.mu.Unlock()

  p.notify()
}

func (p *Page) notify() {
  if p.onChange != nil {
    p.onChange()
  }
}
