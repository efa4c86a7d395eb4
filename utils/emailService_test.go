package utils

import (
	"edulearn/config"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mailRecorder struct {
	mu       sync.Mutex
	auth     []string
	bodies   []string
	respCode int
}

func (r *mailRecorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	body, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	r.auth = append(r.auth, req.Header.Get("Authorization"))
	r.bodies = append(r.bodies, string(body))
	r.mu.Unlock()
	w.WriteHeader(r.respCode)
}

func withSendgrid(t *testing.T, code int) *mailRecorder {
	t.Helper()
	rec := &mailRecorder{respCode: code}
	srv := httptest.NewServer(rec)

	cfg := config.Testing()
	cfg.SendgridApiKey = "SG.test"

	prev := sendgridHost
	sendgridHost = srv.URL
	t.Cleanup(func() {
		sendgridHost = prev
		srv.Close()
		cfg.SendgridApiKey = ""
	})
	return rec
}

func TestSendEmail(t *testing.T) {
	rec := withSendgrid(t, http.StatusAccepted)

	err := SendEmail([]string{"student@example.com"}, "Enrollment Approved: Go", getEmailTemplate("Enrollment Approved", "<p>hi</p>"))
	require.NoError(t, err)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.NotEmpty(t, rec.bodies)

	var found bool
	for i, body := range rec.bodies {
		if strings.Contains(body, "Enrollment Approved: Go") {
			found = true
			assert.Equal(t, "Bearer SG.test", rec.auth[i])
			assert.Contains(t, body, "student@example.com")
			assert.Contains(t, body, "noreply@edulearn.local")
		}
	}
	assert.True(t, found, "no request carried the subject")
}

func TestSendEmailRejected(t *testing.T) {
	withSendgrid(t, http.StatusUnauthorized)

	err := SendEmail([]string{"student@example.com"}, "Hello", "<p>hi</p>")
	assert.Error(t, err)
}

func TestSendEmailWithoutKeyOnlyLogs(t *testing.T) {
	config.Testing()
	assert.NoError(t, SendEmail([]string{"student@example.com"}, "Hello", "<p>hi</p>"))
}
