// Package email builds SendGrid mail payloads from contact submissions and delivers them.
package email

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	ContactAddress = "contact@mainmatter.com"
	ContactName    = "Mainmatter"
	NoReplyAddress = "no-reply@mainmatter.com"

	BaseSubject = "Mainmatter inquiry"

	// EmptyMessagePlaceholder replaces blank messages; SendGrid rejects empty content values.
	EmptyMessagePlaceholder = "–"

	senderSuffix   = "via mainmatter.com"
	otherService   = "other"
	textPlainMedia = "text/plain"
)

// Submission is one contact-form request as received from the website.
type Submission struct {
	Name    string
	Email   string
	Message string
	Service *string
	Company *string
}

// PayloadOptions carries per-deployment settings applied to every payload.
type PayloadOptions struct {
	// BCC is an optional notification address copied on every message.
	BCC string
}

// Address is a SendGrid email object with a display name.
type Address struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Recipient is an address-only email object, used for BCC.
type Recipient struct {
	Email string `json:"email"`
}

type Personalization struct {
	To  []Address   `json:"to"`
	Bcc []Recipient `json:"bcc,omitempty"`
}

type Content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Payload is the body of a SendGrid v3 mail/send request. Field order matches the wire format.
type Payload struct {
	Personalizations []Personalization `json:"personalizations"`
	From             Address           `json:"from"`
	ReplyTo          Address           `json:"reply_to"`
	Subject          string            `json:"subject"`
	Content          []Content         `json:"content"`
}

// BuildPayload turns a submission into the message sent to the contact inbox.
func BuildPayload(sub Submission, opts PayloadOptions) Payload {
	personalization := Personalization{
		To: []Address{{Email: ContactAddress, Name: ContactName}},
	}
	if bcc := strings.TrimSpace(opts.BCC); bcc != "" {
		personalization.Bcc = []Recipient{{Email: bcc}}
	}

	return Payload{
		Personalizations: []Personalization{personalization},
		From: Address{
			Email: NoReplyAddress,
			Name:  senderName(sub.Name, sub.Company),
		},
		ReplyTo: Address{
			Email: sub.Email,
			Name:  sub.Name,
		},
		Subject: subject(sub.Service),
		Content: []Content{{
			Type:  textPlainMedia,
			Value: messageBody(sub.Message),
		}},
	}
}

// Encode renders the payload as compact JSON. HTML escaping is disabled so that
// characters such as "&" reach SendGrid unchanged.
func (p Payload) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode sendgrid payload: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func messageBody(message string) string {
	message = strings.TrimSpace(message)
	if message == "" {
		return EmptyMessagePlaceholder
	}
	return message
}

func subject(service *string) string {
	s := trimmed(service)
	if s == "" || strings.EqualFold(s, otherService) {
		return BaseSubject
	}
	return fmt.Sprintf("%s for %s", BaseSubject, s)
}

func senderName(name string, company *string) string {
	if c := trimmed(company); c != "" {
		return fmt.Sprintf("%s (%s) %s", name, c, senderSuffix)
	}
	return fmt.Sprintf("%s %s", name, senderSuffix)
}

func trimmed(value *string) string {
	if value == nil {
		return ""
	}
	return strings.TrimSpace(*value)
}
