package landing

import (
  "errors"
  "net/http"
  "regexp"
  "strings"
)

// EmailPattern is shared with the browser page so both sides agree on what
// enables the submit button.
const EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

var emailRegex = regexp.MustCompile(EmailPattern)

var ErrInvalidEmail = errors.New("invalid email address")

const (
  msgSubscribed     = "გამოწერილია წარმატებით"
  msgAlreadyPresent = "ელ-ფოსტა უკვე ჩანიშნულია"
  msgBadRequest     = "Bad request. Please check your email."
  msgServerError    = "Internal server error. Please try again later."
)

func IsEmailValid(email string) bool {
  return emailRegex.MatchString(email)
}

// NormalizeEmail is applied by the server before storing an address.
func NormalizeEmail(email string) string {
  return strings.ToLower(strings.TrimSpace(email))
}

// MessageForStatus maps an API status code to the banner text. Unknown
// codes map to "".
func MessageForStatus(code int) string {
  switch code {
  case http.StatusOK, http.StatusCreated:
    return msgSubscribed
  case http.StatusConflict:
    return msgAlreadyPresent
  case http.StatusBadRequest:
    return msgBadRequest
  case http.StatusInternalServerError:
    return msgServerError
  default:
    return ""
  }
}

// StatusMessages lists every non-empty mapping, keyed by code.
func StatusMessages() map[int]string {
  codes := []int{
    http.StatusOK,
    http.StatusCreated,
    http.StatusBadRequest,
    http.StatusConflict,
    http.StatusInternalServerError,
  }
  m := make(map[int]string, len(codes))
  for _, c := range codes {
    m[c] = MessageForStatus(c)
  }
  return m
}
