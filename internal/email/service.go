package email

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pankajbaid567/Fittlr-Backend/internal/logger"
	"github.com/pankajbaid567/Fittlr-Backend/internal/metrics"
)

const (
	queueKey       = "emails"
	failedQueueKey = "emails:failed"
	maxTries       = 3
	retryDelay     = 5 * time.Second
	pollTimeout    = 2 * time.Second
	// queueBackoff is the pause after a failed poll, so an unreachable Redis
	// does not spin the worker.
	queueBackoff = time.Second
)

type EmailJob struct {
	Type    string    `json:"type"`
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Options struct {
	RedisAddr string
	From      string
	FromName  string
	SMTPHost  string
	SMTPPort  string
	SMTPUser  string
	SMTPPass  string
	// OpsEmail receives machine service alerts. Alerts are dropped when empty.
	OpsEmail string
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
	opsEmail string

	backoff time.Duration
}

func New(opts Options) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: opts.RedisAddr,
		}),
		from:     opts.From,
		fromName: opts.FromName,
		smtpHost: opts.SMTPHost,
		smtpPort: opts.SMTPPort,
		smtpUser: opts.SMTPUser,
		smtpPass: opts.SMTPPass,
		opsEmail: opts.OpsEmail,
		backoff:  queueBackoff,
	}
}

func (s *Service) Send(ctx context.Context, emailType, to, name, subject, body string) error {
	job := EmailJob{
		Type:    emailType,
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal email job: %w", err)
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Error("failed to queue email", "to", to, "type", emailType, "error", err)
		return fmt.Errorf("queue email: %w", err)
	}

	logger.Info("email queued", "to", to, "type", emailType)
	return nil
}

// Start drains the queue until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	logger.Info("email worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("email worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, pollTimeout, queueKey).Result()
	if errors.Is(err, redis.Nil) || ctx.Err() != nil {
		return
	}
	if err != nil {
		logger.WithError(err).Warn("email queue poll failed", "retry_in", s.backoff.String())
		select {
		case <-ctx.Done():
		case <-time.After(s.backoff):
		}
		return
	}

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Error("bad email job", "error", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		metrics.RecordEmail(job.Type, "failed")
		logger.Error("failed to send email", "to", job.To, "attempt", job.Tries, "error", err)

		if job.Tries < maxTries {
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			return
		}
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Type, "success")
	logger.Info("email sent", "to", job.To, "type", job.Type)
}

func (s *Service) sendNow(job EmailJob) error {
	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", job.To)
	fmt.Fprintf(&msg, "Subject: %s\r\n", job.Subject)
	msg.WriteString("\r\n" + job.Body)

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(msg.String()))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Error("email moved to failed queue", "to", job.To, "attempts", job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, err := s.redis.LLen(ctx, queueKey).Result()
	if err != nil {
		return 0
	}
	metrics.EmailQueueLength.Set(float64(length))
	return length
}

// Ping reports whether the queue backend is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.redis.Close()
}
