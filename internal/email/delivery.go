package email

import (
	"context"
	"fmt"
	"net/http"
)

type OutcomeKind int

const (
	Accepted OutcomeKind = iota
	Rejected
	TransportFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case TransportFailed:
		return "transport_failed"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of a single delivery attempt.
// Status is set only for Rejected; Err only for TransportFailed.
type Outcome struct {
	Kind   OutcomeKind
	Status int
	Err    error
}

// Deliver sends the payload once. SendGrid answers 202 for accepted mail; every other
// status is a rejection. Nothing is retried.
func Deliver(ctx context.Context, transport Transport, apiKey string, payload Payload) Outcome {
	if transport == nil {
		return Outcome{Kind: TransportFailed, Err: fmt.Errorf("transport is not configured")}
	}

	body, err := payload.Encode()
	if err != nil {
		return Outcome{Kind: TransportFailed, Err: err}
	}

	status, err := transport(ctx, apiKey, body)
	if err != nil {
		return Outcome{Kind: TransportFailed, Err: err}
	}
	if status != http.StatusAccepted {
		return Outcome{Kind: Rejected, Status: status}
	}
	return Outcome{Kind: Accepted}
}
