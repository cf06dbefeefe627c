package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ignite/contact-api/internal/config"
	"github.com/ignite/contact-api/internal/mailer"
	"github.com/ignite/contact-api/internal/signup"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSender records delivered messages and optionally fails every send.
type captureSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *captureSender) Send(msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *captureSender) messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

func testConfig() *config.Config {
	cfg, _ := config.Load("")
	cfg.Server.AllowedRedirectOrigins = []string{"https://site.example"}
	cfg.Mail.User = "sender@example.com"
	cfg.Mail.Pass = "app-password"
	cfg.Mail.Recipient = "owner@example.com"
	return cfg
}

// setupHandlers wires handlers over a sqlmock store and the given sender.
// The returned relay must be closed to flush queued mail.
func setupHandlers(t *testing.T, sender mailer.Sender) (http.Handler, sqlmock.Sqlmock, *mailer.Relay) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := signup.NewStore(db, zerolog.Nop())
	relay := mailer.NewRelay(sender, zerolog.Nop())
	relay.Start()

	h := NewHandlers(store, relay, testConfig(), zerolog.Nop())
	return SetupRoutes(h), mock, relay
}

func TestRoot(t *testing.T) {
	router, _, relay := setupHandlers(t, &captureSender{})
	defer relay.Close()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["response"])
}
