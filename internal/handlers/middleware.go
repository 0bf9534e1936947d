package handlers

import (
  "net/http"
  "strings"
  "time"

  "github.com/google/uuid"
  "github.com/rs/zerolog"
  "github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// Block malicious bots and common attack patterns
var blockedPatterns = []string{
  "python-requests",
  "curl",
  "wget",
  "sqlmap",
  "nikto",
  ".php",
  ".env",
  ".git",
  "wp-admin",
  "xmlrpc",
  "backup",
  "config",
}

// requestIDMiddleware propagates or assigns X-Request-ID and stores a
// logger carrying it in the request context.
func requestIDMiddleware(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    id := r.Header.Get(RequestIDHeader)
    if id == "" {
      id = uuid.NewString()
    }
    w.Header().Set(RequestIDHeader, id)

    logger := log.With().Str("request_id", id).Logger()
    next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
  })
}

// loggingMiddleware logs HTTP requests
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
  return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
    logger := zerolog.Ctx(r.Context())
    userAgent := r.UserAgent()

    // Only the path is matched; the query carries subscriber addresses.
    if pattern, ok := blocked(r.URL.Path, userAgent); ok {
      http.Error(w, "Access Denied", http.StatusForbidden)
      logger.Warn().
        Str("pattern", pattern).
        Str("method", r.Method).
        Str("uri", r.RequestURI).
        Str("remote", r.RemoteAddr).
        Str("user_agent", userAgent).
        Msg("BLOCKED")
      return
    }

    start := time.Now()
    wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

    next.ServeHTTP(wrapped, r)

    logger.Info().
      Str("method", r.Method).
      Str("uri", r.RequestURI).
      Int("status", wrapped.statusCode).
      Dur("duration", time.Since(start)).
      Str("remote", r.RemoteAddr).
      Int("bytes", wrapped.contentLength).
      Str("user_agent", userAgent).
      Msg("request")
  })
}

func blocked(path, userAgent string) (string, bool) {
  path = strings.ToLower(path)
  userAgent = strings.ToLower(userAgent)
  for _, pattern := range blockedPatterns {
    if strings.Contains(path, pattern) || strings.Contains(userAgent, pattern) {
      return pattern, true
    }
  }
  return "", false
}

type responseWriter struct {
  http.ResponseWriter
  statusCode    int
  contentLength int
  wroteHeader   bool
}

func (rw *responseWriter) WriteHeader(code int) {
  if !rw.wroteHeader {
    rw.statusCode = code
    rw.wroteHeader = true
  }
  rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
  rw.wroteHeader = true
  n, err := rw.ResponseWriter.Write(b)
  rw.contentLength += n
  return n, err
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
  return rw.ResponseWriter
}
