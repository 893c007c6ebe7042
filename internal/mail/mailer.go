// Package mail wraps the SMTP relay behind a narrow dispatch interface so
// the auth service can treat email as a fire-and-forget collaborator.
package mail

import "context"

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
