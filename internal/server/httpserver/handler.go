package httpserver

import (
	"net/http"

	"github.com/dmitrijs2005/skywatch/internal/logging"
	"github.com/dmitrijs2005/skywatch/internal/server/services"
)

var (
	loginNotFound   = notFoundReply{http.StatusBadRequest, "User with the email address does not exist. Please register"}
	weatherNotFound = notFoundReply{http.StatusBadRequest, "Area not found"}
	alertNotFound   = notFoundReply{http.StatusNotFound, "No alert for this city"}
)

func (s *HTTPServer) register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.users.Register(r.Context(), req)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Info(r.Context(), "registration failed", "err", err.Error())
		writeServiceError(w, err, loginNotFound)
		return
	}

	s.setSessionCookie(w, res.Token)
	writeOK(w, res.User)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := s.users.Login(r.Context(), req)
	if err != nil {
		logging.FromContext(r.Context(), s.logger).Info(r.Context(), "login failed", "err", err.Error())
		writeServiceError(w, err, loginNotFound)
		return
	}

	s.setSessionCookie(w, res.Token)
	writeOK(w, res.User)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Successfully logged out"})
}

func (s *HTTPServer) welcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome"})
}

func (s *HTTPServer) getWeather(w http.ResponseWriter, r *http.Request) {
	var req services.WeatherRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	report, err := s.weather.Lookup(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, weatherNotFound)
		return
	}

	writeOK(w, report)
}

func (s *HTTPServer) createAlert(w http.ResponseWriter, r *http.Request) {
	var req services.AlertRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if _, err := s.alerts.Create(r.Context(), req); err != nil {
		writeServiceError(w, err, alertNotFound)
		return
	}

	writeJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *HTTPServer) getAlert(w http.ResponseWriter, r *http.Request) {
	alert, err := s.alerts.GetByCity(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		writeServiceError(w, err, alertNotFound)
		return
	}

	writeOK(w, map[string]string{"message": alert.Message})
}

func (s *HTTPServer) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}
