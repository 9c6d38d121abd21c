package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/config"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/logger"
	"github.com/lucaolguin-utn/ani-rivero-pilates/internal/metrics"
)

const (
	queueKey       = "notifications"
	failedQueueKey = "notifications:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Type    string    `json:"type"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

// Service queues outbound mail on a redis list and drains it from a
// background worker, so booking requests never wait on SMTP.
type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(cfg *config.Config) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
		}),
		from:     cfg.EmailFrom,
		fromName: cfg.EmailFromName,
		smtpHost: cfg.SMTPHost,
		smtpPort: cfg.SMTPPort,
		smtpUser: cfg.SMTPUser,
		smtpPass: cfg.SMTPPass,
	}
}

func (s *Service) enqueue(ctx context.Context, job EmailJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", job.To, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", job.Subject, job.To)
	return nil
}

// QueueBookingConfirmation satisfies the booking service's Notifier. Queue
// failures are logged, never surfaced: the booking already committed.
func (s *Service) QueueBookingConfirmation(ctx context.Context, toEmail, toName, classTitle string, startsAt time.Time) {
	body := fmt.Sprintf(`Hola %s,

Tu lugar está reservado.

Clase: %s
Horario: %s

Te esperamos en el estudio.

- Ani Rivero Pilates`, toName, classTitle, startsAt.Format("Mon 02 Jan, 15:04"))

	_ = s.enqueue(ctx, EmailJob{
		To:      toEmail,
		Name:    toName,
		Type:    "booking_confirmation",
		Subject: "Reserva confirmada: " + classTitle,
		Body:    body,
		Created: time.Now(),
	})
}

func (s *Service) QueuePaymentReceipt(ctx context.Context, toEmail, toName string, amountCents int64, paymentDate time.Time) {
	body := fmt.Sprintf(`Hola %s,

Registramos tu pago de $%.2f el %s.
Tu suscripción está al día.

- Ani Rivero Pilates`, toName, float64(amountCents)/100, paymentDate.Format("02/01/2006"))

	_ = s.enqueue(ctx, EmailJob{
		To:      toEmail,
		Name:    toName,
		Type:    "payment_receipt",
		Subject: "Pago recibido",
		Body:    body,
		Created: time.Now(),
	})
}

// Start drains the queue until ctx is cancelled. Run it on its own
// goroutine.
func (s *Service) Start(ctx context.Context) {
	logger.Info("Notification worker started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Notification worker stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email job data: %v", err)
		return
	}

	job.Tries++
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s (attempt %d): %v", job.To, job.Tries, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			return
		}

		metrics.RecordEmail(job.Type, "failed")
		s.saveFailed(job, err)
		return
	}

	metrics.RecordEmail(job.Type, "sent")
	logger.Infof("Email sent to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Email to %s moved to failed queue after %d attempts", job.To, job.Tries)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}
