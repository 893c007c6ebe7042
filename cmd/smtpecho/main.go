// smtpecho is a diagnostic SMTP listener: it accepts any message and
// echoes it to stdout. Useful as a local relay target during development;
// the auth service does not depend on it.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/emersion/go-smtp"

	"github.com/mailsign/signup-backend/internal/common/logger"
)

type backend struct {
	log *logger.Logger
}

func (b *backend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &echoSession{log: b.log}, nil
}

type echoSession struct {
	log  *logger.Logger
	from string
}

func (s *echoSession) AuthPlain(username, password string) error {
	return nil
}

func (s *echoSession) Mail(from string, opts *smtp.MailOptions) error {
	s.from = from
	return nil
}

func (s *echoSession) Rcpt(to string, opts *smtp.RcptOptions) error {
	s.log.Infof("message from %s to %s", s.from, to)
	return nil
}

func (s *echoSession) Data(r io.Reader) error {
	_, err := io.Copy(os.Stdout, r)
	return err
}

func (s *echoSession) Reset() {
	s.from = ""
}

func (s *echoSession) Logout() error {
	return nil
}

func main() {
	log, err := logger.New(os.Getenv("LOG_DIR"), "smtpecho", os.Getenv("LOG_LEVEL"))
	if err != nil {
		os.Stderr.WriteString(fmt.Sprintf("failed to initialize logger: %v\n", err))
		os.Exit(1)
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "1025"
	}

	server := smtp.NewServer(&backend{log: log})
	server.Addr = ":" + port
	server.Domain = "localhost"
	server.ReadTimeout = 10 * time.Second
	server.WriteTimeout = 10 * time.Second
	server.AllowInsecureAuth = true

	log.Infof("smtp echo server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("smtp echo server failed: %v", err)
	}
}
