package models

// EmailRequest is the body of POST /subscribe and POST /sendEmail.
type EmailRequest struct {
  Email string `json:"email"`
}

// CountResponse is the body of GET /emails.
type CountResponse struct {
  Data int `json:"data"`
}

type MessageResponse struct {
  Message string `json:"message,omitempty"`
  Error   string `json:"error,omitempty"`
}
