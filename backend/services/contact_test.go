package services

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skillnexis/backend/models"
	"skillnexis/backend/utils"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testContactConfig = ContactConfig{
	FromName:     "SkillNexis Contact Form",
	FromEmail:    "from@skillnexis.com",
	ContactEmail: "team@skillnexis.com",
}

func TestContactRelaysToBrevo(t *testing.T) {
	var got Email
	var apiKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey = r.Header.Get("api-key")
		body, _ := io.ReadAll(r.Body)
		_ = sonic.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<abc@brevo>"}`))
	}))
	defer srv.Close()

	svc := NewContactService(NewBrevoMailer("key-123", srv.URL), testContactConfig, utils.DiscardLogger())
	id, err := svc.Submit(context.Background(), models.ContactMessage{
		Name:    "Jane <b>",
		Email:   "jane@x.com",
		Subject: "Hello",
		Message: "line one\nline two",
	})
	require.NoError(t, err)

	assert.Equal(t, "<abc@brevo>", id)
	assert.Equal(t, "key-123", apiKey)
	assert.Equal(t, "Contact Form: Hello", got.Subject)
	assert.Equal(t, "from@skillnexis.com", got.Sender.Email)
	require.Len(t, got.To, 1)
	assert.Equal(t, "team@skillnexis.com", got.To[0].Email)
	require.NotNil(t, got.ReplyTo)
	assert.Equal(t, "jane@x.com", got.ReplyTo.Email)
	assert.Contains(t, got.HTMLContent, "line one<br>line two")
	assert.Contains(t, got.HTMLContent, "Jane &lt;b&gt;")
	assert.NotContains(t, got.HTMLContent, "Jane <b>")
	assert.Contains(t, got.TextContent, "line one\nline two")
}

func TestContactUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	svc := NewContactService(NewBrevoMailer("bad", srv.URL), testContactConfig, utils.DiscardLogger())
	_, err := svc.Submit(context.Background(), models.ContactMessage{
		Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "Hello",
	})

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnauthorized, upstream.Status)
}

func TestContactValidation(t *testing.T) {
	svc := NewContactService(&LogMailer{Logger: utils.DiscardLogger()}, testContactConfig, utils.DiscardLogger())
	ctx := context.Background()

	_, err := svc.Submit(ctx, models.ContactMessage{Name: "Jane", Email: "jane@x.com", Subject: " ", Message: "Hi"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "All fields are required", verr.Message)

	_, err = svc.Submit(ctx, models.ContactMessage{Name: "Jane", Email: "jane", Subject: "Hi", Message: "Hi"})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid email format", verr.Message)
}

func TestContactSimulatedMode(t *testing.T) {
	svc := NewContactService(&LogMailer{Logger: utils.DiscardLogger()}, testContactConfig, utils.DiscardLogger())

	id, err := svc.Submit(context.Background(), models.ContactMessage{
		Name: "Jane", Email: "jane@x.com", Subject: "Hi", Message: "Hello",
	})
	require.NoError(t, err)
	assert.Contains(t, id, "simulated-")
}
