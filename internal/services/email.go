package services

import (
	"bytes"
	"dhrubfoundation/internal/config"
	"dhrubfoundation/internal/logger"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"net/smtp"
	"net/textproto"

	"go.uber.org/zap"
)

type EmailService struct {
	auth smtp.Auth
	from string
	host string
	port string
}

func NewEmailService(cfg *config.Config) *EmailService {
	auth := smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	return &EmailService{
		auth: auth,
		from: cfg.SMTPUser,
		host: cfg.SMTPHost,
		port: cfg.SMTPPort,
	}
}

func (s *EmailService) Send(to []string, subject, body string) error {
	msg := []byte("Subject: " + subject + "\r\n" +
		"Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}

func (s *EmailService) SendHTML(to []string, subject, body string) error {
	msg := []byte("Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: text/html; charset=\"utf-8\"\r\n\r\n" +
		body)

	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, msg)
}

// Attachment — вложение письма (например, PDF-квитанция).
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SendHTMLWithAttachments собирает multipart/mixed: HTML-часть плюс
// base64-вложения.
func (s *EmailService) SendHTMLWithAttachments(to []string, subject, body string, attachments []Attachment) error {
	if len(attachments) == 0 {
		return s.SendHTML(to, subject, body)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	buf2 := &bytes.Buffer{}
	buf2.WriteString("Subject: " + subject + "\r\n")
	buf2.WriteString("MIME-Version: 1.0\r\n")
	buf2.WriteString("Content-Type: multipart/mixed; boundary=\"" + mw.Boundary() + "\"\r\n\r\n")

	htmlHeader := textproto.MIMEHeader{}
	htmlHeader.Set("Content-Type", "text/html; charset=\"utf-8\"")
	part, err := mw.CreatePart(htmlHeader)
	if err != nil {
		return err
	}
	if _, err := part.Write([]byte(body)); err != nil {
		return err
	}

	for _, a := range attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", a.ContentType)
		h.Set("Content-Transfer-Encoding", "base64")
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Filename))
		part, err := mw.CreatePart(h)
		if err != nil {
			return err
		}
		if _, err := part.Write([]byte(base64.StdEncoding.EncodeToString(a.Data))); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	buf2.Write(buf.Bytes())
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	return smtp.SendMail(addr, s.auth, s.from, to, buf2.Bytes())
}

type EmailJob struct {
	To          []string
	Subject     string
	Body        string
	IsHTML      bool
	Attachments []Attachment
}

var EmailQueue = make(chan EmailJob, 100) // глобальная очередь на 100 писем

// StartEmailWorker — отправка fire-and-forget: сбой доставки логируется,
// операцию, поставившую письмо в очередь, он не роняет.
func StartEmailWorker(emailService *EmailService) {
	go func() {
		for job := range EmailQueue {
			var err error
			switch {
			case len(job.Attachments) > 0:
				err = emailService.SendHTMLWithAttachments(job.To, job.Subject, job.Body, job.Attachments)
			case job.IsHTML:
				err = emailService.SendHTML(job.To, job.Subject, job.Body)
			default:
				err = emailService.Send(job.To, job.Subject, job.Body)
			}
			if err != nil {
				logger.Log.Error("Не удалось отправить письмо", zap.Error(err))
			}
		}
	}()
}
