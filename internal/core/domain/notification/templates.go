package notification

import (
	"fmt"
	"net/url"
	"strings"
)

// Templates renders the plain text emails of the password recovery flow.
type Templates struct {
	RecoveryFrom         string
	ConfirmationFrom     string
	SubjectPrefix        string
	PasswordResetBaseURL url.URL
}

// PasswordResetURL appends the token to the base URL. Bases routed by
// fragment (http://host/#/reset) get the token appended to the fragment.
func (t Templates) PasswordResetURL(token string) string {
	u := t.PasswordResetBaseURL
	if u.Fragment != "" {
		u.Fragment = strings.TrimRight(u.Fragment, "/") + "/" + token
		return u.String()
	}
	return u.JoinPath(token).String()
}

func (t Templates) RecoveryNotification(to string, name string, token string) Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Hello, %s.\n\n", name)
	body.WriteString(
		"You are receiving this because you (or someone else) have requested " +
			"the reset of the password for your account.\n\n",
	)
	body.WriteString(
		"Please click on the following link, or paste this into your browser " +
			"to complete the process:\n\n",
	)
	fmt.Fprintf(&body, "%s \n\n", t.PasswordResetURL(token))
	body.WriteString(
		"If you did not request this, please ignore this email " +
			"and your password will remain unchanged.\n",
	)
	return Message{
		To:      to,
		From:    t.RecoveryFrom,
		Subject: t.subject("password change request"),
		Body:    body.String(),
	}
}

func (t Templates) RecoveryConfirmation(to string) Message {
	return Message{
		To:      to,
		From:    t.ConfirmationFrom,
		Subject: t.subject("password reset confirmation"),
		Body:    fmt.Sprintf("This is a confirmation that the password for your account %s has just been changed.\n", to),
	}
}

func (t Templates) subject(s string) string {
	if t.SubjectPrefix == "" {
		return s
	}
	return fmt.Sprintf("[%s]: %s", t.SubjectPrefix, s)
}
