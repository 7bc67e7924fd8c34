package senders

import (
	"context"
	"io"
	"net/http"

	"github.com/carlmjohnson/requests"

	"github.com/fiffu/pushrelay/lib/credentials"
	"github.com/fiffu/pushrelay/lib/errs"
)

// fcmSender posts to the FCM HTTP v1 per-project send endpoint, one token per
// call. No retries, no multicast batching.
type fcmSender struct {
	base
	creds credentials.Source
}

type fcmEnvelope struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (s *fcmSender) Send(ctx context.Context, token, title, body string, data map[string]string) (string, error) {
	access, err := s.creds.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	envelope := fcmEnvelope{
		Message: fcmMessage{
			Token:        token,
			Notification: fcmNotification{Title: title, Body: body},
			Data:         data,
		},
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.RemoteTimeout())
	defer cancel()

	var raw string
	var statusCode int
	var status string
	err = requests.
		URL(s.cfg.Firebase.MessagingBaseURL).
		Pathf("/v1/projects/%s/messages:send", s.cfg.Firebase.ProjectID).
		Bearer(access).
		BodyJSON(envelope).
		Transport(s.transport).
		AddValidator(nil).
		Handle(func(res *http.Response) error {
			statusCode = res.StatusCode
			status = res.Status
			payload, err := io.ReadAll(res.Body)
			if err != nil {
				return err
			}
			raw = string(payload)
			return nil
		}).
		Fetch(ctx)
	if err != nil {
		return "", errs.Remote(errs.KindDelivery, err, "failed to send notification")
	}
	if statusCode < http.StatusOK || statusCode >= http.StatusMultipleChoices {
		// Surfaces the provider's status line verbatim to the caller.
		return "", errs.Newf(errs.KindDelivery, "failed to send notification: %s", status)
	}
	return raw, nil
}
