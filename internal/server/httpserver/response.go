package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/skywatch/internal/common"
)

const (
	codeInvalidInput       = "invalid_input"
	codeAlreadyExists      = "already_exists"
	codeNotFound           = "not_found"
	codeInvalidCredentials = "invalid_credentials"
	codeForbidden          = "forbidden"
	codeInternal           = "internal_error"

	msgInternal = "Something went wrong. Please try again later"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

type successBody struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, successBody{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Success: false, Error: code, Message: message})
}

// notFoundReply is how a route reports common.ErrorNotFound; the status
// differs between endpoints.
type notFoundReply struct {
	status  int
	message string
}

// writeServiceError maps a service error onto the wire.
func writeServiceError(w http.ResponseWriter, err error, nf notFoundReply) {
	switch {
	case errors.Is(err, common.ErrorInvalidInput):
		writeError(w, http.StatusBadRequest, codeInvalidInput, err.Error())
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, codeAlreadyExists, "User already exists. Please login")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, nf.status, codeNotFound, nf.message)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeError(w, http.StatusBadRequest, codeInvalidCredentials, "Invalid Credentials")
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, msgInternal)
	}
}

// decodeJSON reads a single JSON value into dst. Any failure, including
// trailing data after the value, is reported as invalid input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "Malformed JSON body")
		return false
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, codeInvalidInput, "Malformed JSON body")
		return false
	}
	return true
}

func (s *HTTPServer) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *HTTPServer) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
