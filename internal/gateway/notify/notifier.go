package notify

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cuongbtq/job-gateway/internal/gateway/domain"
)

// SignatureHeader carries the HMAC of the callback body when a secret is
// configured.
const SignatureHeader = "X-Signature-256"

// Payload is the JSON body POSTed to the caller-supplied callback URL
type Payload struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Notifier delivers one best-effort callback per finished job. Delivery is
// fire-and-forget on its own goroutine: a slow or failing target never
// stalls the worker pool, failures are logged and never retried.
type Notifier struct {
	logger *slog.Logger
	client *http.Client
	secret []byte
}

// NewNotifier creates a Notifier. An empty secret disables signing.
func NewNotifier(logger *slog.Logger, hmacSecret string, timeout time.Duration) *Notifier {
	var secret []byte
	if hmacSecret != "" {
		secret = []byte(hmacSecret)
	}
	return &Notifier{
		logger: logger,
		client: &http.Client{Timeout: timeout},
		secret: secret,
	}
}

// Notify schedules the callback for a terminal job. Jobs without a callback
// URL are ignored.
func (n *Notifier) Notify(job *domain.Job) {
	if job.CallbackURL == "" {
		return
	}
	go n.deliver(job)
}

// Sign returns the hex HMAC-SHA256 of body under secret
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (n *Notifier) deliver(job *domain.Job) {
	payload := Payload{
		JobID:  job.JobID,
		Status: job.Status,
		Result: job.Result,
		Error:  job.Error,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		n.logger.Error("Failed to encode callback payload",
			slog.String("job_id", job.JobID),
			slog.String("error", err.Error()),
		)
		return
	}

	req, err := http.NewRequest(http.MethodPost, job.CallbackURL, bytes.NewReader(body))
	if err != nil {
		n.logger.Error("Failed to build callback request",
			slog.String("job_id", job.JobID),
			slog.String("callback_url", job.CallbackURL),
			slog.String("error", err.Error()),
		)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	// Signature covers the exact outgoing body bytes
	if len(n.secret) > 0 {
		req.Header.Set(SignatureHeader, "sha256="+Sign(n.secret, body))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("Callback delivery failed",
			slog.String("job_id", job.JobID),
			slog.String("callback_url", job.CallbackURL),
			slog.String("error", err.Error()),
		)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("Callback target returned non-2xx status",
			slog.String("job_id", job.JobID),
			slog.String("callback_url", job.CallbackURL),
			slog.Int("status", resp.StatusCode),
		)
		return
	}

	n.logger.Debug("Callback delivered",
		slog.String("job_id", job.JobID),
		slog.Int("status", resp.StatusCode),
	)
}
