package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/ignite/contact-api/internal/config"
	"github.com/ignite/contact-api/internal/mailer"
	"github.com/ignite/contact-api/internal/signup"
	"github.com/rs/zerolog"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store  *signup.Store
	relay  *mailer.Relay
	mail   config.MailConfig
	server config.ServerConfig
	logger zerolog.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store *signup.Store, relay *mailer.Relay, cfg *config.Config, logger zerolog.Logger) *Handlers {
	return &Handlers{
		store:  store,
		relay:  relay,
		mail:   cfg.Mail,
		server: cfg.Server,
		logger: logger,
	}
}

// Root returns a fixed liveness payload
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"response": "OK"})
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondFieldErrors(w http.ResponseWriter, errs interface{}) {
	respondJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
}

// allowedRedirect reports whether target is safe to redirect to: a
// same-site relative path, or an absolute http(s) URL whose origin is in
// the configured allow-list.
func allowedRedirect(target string, origins []string) bool {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return true
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	origin := u.Scheme + "://" + u.Host
	for _, allowed := range origins {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// isJSON reports whether the request body should be decoded as JSON rather
// than form fields
func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}
