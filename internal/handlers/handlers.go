package handlers

import (
  "context"
  "embed"
  "encoding/json"
  "errors"
  "fmt"
  "html/template"
  "net/http"
  "net/url"
  "strings"

  "github.com/prometheus/client_golang/prometheus"
  "github.com/prometheus/client_golang/prometheus/promhttp"
  "github.com/rs/zerolog"
  "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
  "tvinup/internal/config"
  "tvinup/internal/database"
  "tvinup/internal/landing"
  "tvinup/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

const maxBodyBytes = 4096

// Store is the subscriber storage. *database.DB satisfies it.
type Store interface {
  AddSubscriber(ctx context.Context, email string) error
  RemoveSubscriber(ctx context.Context, email string) error
  CountSubscribers(ctx context.Context) (int, error)
  Ping(ctx context.Context) error
}

// Mailer sends the welcome email. *email.Sender satisfies it.
type Mailer interface {
  SendWelcome(ctx context.Context, to, unsubscribeLink string) error
}

type Handler struct {
  store    Store
  mailer   Mailer
  cfg      *config.Config
  metrics  *metrics
  registry *prometheus.Registry
  tmpl     *template.Template
}

func New(
  store Store,
  mailer Mailer,
  cfg *config.Config,
  reg *prometheus.Registry,
) (*Handler, error) {
  tmpl, err := template.ParseFS(
    templatesFS,
    "templates/base.html",
    "templates/index.html",
  )
  if err != nil {
    return nil, fmt.Errorf("failed to parse templates: %w", err)
  }

  m, err := newMetrics(reg)
  if err != nil {
    return nil, fmt.Errorf("failed to register metrics: %w", err)
  }

  return &Handler{
    store:    store,
    mailer:   mailer,
    cfg:      cfg,
    metrics:  m,
    registry: reg,
    tmpl:     tmpl,
  }, nil
}

// Routes returns the fully wrapped server handler.
func (h *Handler) Routes() http.Handler {
  mux := http.NewServeMux()

  mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.cfg.StaticPath))))

  mux.HandleFunc("GET /{$}", h.indexHandler)
  mux.HandleFunc("POST /subscribe", h.subscribeHandler)
  mux.HandleFunc("POST /sendEmail", h.sendEmailHandler)
  mux.HandleFunc("GET /emails", h.countHandler)
  mux.HandleFunc("GET /unsubscribe", h.unsubscribeHandler)
  mux.HandleFunc("GET /health", h.healthHandler)
  mux.HandleFunc("GET /healthz", h.livenessHandler)
  mux.Handle("GET /metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

  handler := h.metricsMiddleware(mux)
  handler = h.loggingMiddleware(handler)
  handler = requestIDMiddleware(handler)

  return otelhttp.NewHandler(handler, "landing")
}

type pageData struct {
  Count          int
  CountKnown     bool
  Mute           landing.MuteControl
  MuteControls   map[string]landing.MuteControl
  Messages       map[int]string
  EmailPattern   string
  BannerMillis   int64
  DebounceMillis int64
}

func (h *Handler) indexHandler(
  w http.ResponseWriter,
  r *http.Request,
) {
  logger := zerolog.Ctx(r.Context())

  data := pageData{
    Mute: landing.MuteControlFor(true),
    MuteControls: map[string]landing.MuteControl{
      "muted":   landing.MuteControlFor(true),
      "unmuted": landing.MuteControlFor(false),
    },
    Messages:       landing.StatusMessages(),
    EmailPattern:   landing.EmailPattern,
    BannerMillis:   h.cfg.UI.BannerDuration.Milliseconds(),
    DebounceMillis: h.cfg.UI.SubmitDebounce.Milliseconds(),
  }

  if n, err := h.store.CountSubscribers(r.Context()); err != nil {
    logger.Warn().Err(err).Msg("ℹ rendering page without subscriber count")
  } else {
    data.Count = n
    data.CountKnown = true
  }

  w.Header().Set("Content-Type", "text/html; charset=utf-8")
  if err := h.tmpl.ExecuteTemplate(w, "base.html", data); err != nil {
    logger.Error().Err(err).Msg("❌ template execute error")
  }
}

func (h *Handler) subscribeHandler(
  w http.ResponseWriter,
  r *http.Request,
) {
  logger := zerolog.Ctx(r.Context())

  email, ok := decodeEmail(w, r)
  if !ok {
    h.metrics.subscriptions.WithLabelValues("invalid").Inc()
    return
  }

  if err := h.store.AddSubscriber(r.Context(), email); err != nil {
    if errors.Is(err, database.ErrDuplicate) {
      h.metrics.subscriptions.WithLabelValues("duplicate").Inc()
      writeJSON(w, http.StatusConflict, models.MessageResponse{
        Error: "Email already subscribed",
      })
      return
    }

    h.metrics.subscriptions.WithLabelValues("error").Inc()
    logger.Error().Err(err).Str("email", email).Msg("❌ failed to add subscriber")
    writeJSON(w, http.StatusInternalServerError, models.MessageResponse{
      Error: "Failed to add email",
    })
    return
  }

  h.metrics.subscriptions.WithLabelValues("created").Inc()
  logger.Info().Str("email", email).Msg("✓ new subscriber added")

  writeJSON(w, http.StatusCreated, models.MessageResponse{
    Message: "Email has been added",
  })
}

func (h *Handler) sendEmailHandler(
  w http.ResponseWriter,
  r *http.Request,
) {
  logger := zerolog.Ctx(r.Context())

  email, ok := decodeEmail(w, r)
  if !ok {
    h.metrics.welcomeEmails.WithLabelValues("invalid").Inc()
    return
  }

  if err := h.mailer.SendWelcome(
    r.Context(),
    email,
    h.unsubscribeLink(r, email),
  ); err != nil {
    h.metrics.welcomeEmails.WithLabelValues("error").Inc()
    logger.Error().Err(err).Str("email", email).Msg("❌ failed to send welcome email")
    writeJSON(w, http.StatusInternalServerError, models.MessageResponse{
      Error: "Failed to send email",
    })
    return
  }

  h.metrics.welcomeEmails.WithLabelValues("sent").Inc()
  logger.Info().Str("email", email).Msg("✓ welcome email sent")

  writeJSON(w, http.StatusOK, models.MessageResponse{
    Message: "Email has been sent",
  })
}

func (h *Handler) countHandler(
  w http.ResponseWriter,
  r *http.Request,
) {
  n, err := h.store.CountSubscribers(r.Context())
  if err != nil {
    zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ failed to count subscribers")
    writeJSON(w, http.StatusInternalServerError, models.MessageResponse{
      Error: "Failed to count emails",
    })
    return
  }

  writeJSON(w, http.StatusOK, models.CountResponse{Data: n})
}

func (h *Handler) unsubscribeHandler(
  w http.ResponseWriter,
  r *http.Request,
) {
  email := landing.NormalizeEmail(r.URL.Query().Get("email"))
  if email == "" {
    http.Error(w, "No email specified", http.StatusBadRequest)
    return
  }

  if err := h.store.RemoveSubscriber(r.Context(), email); err != nil {
    if !errors.Is(err, database.ErrNotFound) {
      zerolog.Ctx(r.Context()).Error().Err(err).Msg("❌ failed to unsubscribe")
    }
    http.Error(
      w,
      fmt.Sprintf(
        "Email %s was not found or already unsubscribed",
        email,
      ),
      http.StatusBadRequest,
    )
    return
  }

  zerolog.Ctx(r.Context()).Info().Str("email", email).Msg("✓ unsubscribed")

  w.Header().Set("Content-Type", "text/plain; charset=utf-8")
  fmt.Fprintf(w, "The email %s has been unsubscribed.", email)
}

func (h *Handler) healthHandler(w http.ResponseWriter, r *http.Request) {
  if err := h.store.Ping(r.Context()); err != nil {
    zerolog.Ctx(r.Context()).Warn().Err(err).Msg("ℹ health check failed")
    writeJSON(w, http.StatusServiceUnavailable, map[string]string{
      "status": "unhealthy",
    })
    return
  }
  writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) livenessHandler(w http.ResponseWriter, r *http.Request) {
  writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeEmail reads and validates the {"email"} body, answering 400 itself
// when it is unusable.
func decodeEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
  var req models.EmailRequest

  body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
  if err := json.NewDecoder(body).Decode(&req); err != nil {
    writeJSON(w, http.StatusBadRequest, models.MessageResponse{
      Error: "Invalid request",
    })
    return "", false
  }

  email := landing.NormalizeEmail(req.Email)
  if email == "" {
    writeJSON(w, http.StatusBadRequest, models.MessageResponse{
      Error: "Email is required",
    })
    return "", false
  }
  if !landing.IsEmailValid(email) {
    writeJSON(w, http.StatusBadRequest, models.MessageResponse{
      Error: "Invalid email address",
    })
    return "", false
  }

  return email, true
}

func (h *Handler) unsubscribeLink(r *http.Request, email string) string {
  base := strings.TrimRight(h.cfg.PublicURL, "/")
  if base == "" {
    base = getBaseURL(r)
  }
  return base + "/unsubscribe?email=" + url.QueryEscape(email)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
  w.Header().Set("Content-Type", "application/json")
  w.WriteHeader(status)
  json.NewEncoder(w).Encode(v)
}

func getBaseURL(r *http.Request) string {
  scheme := "http"
  if r.TLS != nil {
    scheme = "https"
  }
  if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
    scheme = strings.Split(proto, ",")[0]
  }
  return fmt.Sprintf("%s://%s", scheme, r.Host)
}
