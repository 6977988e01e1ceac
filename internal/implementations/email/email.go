package email

import (
	"context"
	"errors"
	"fmt"
	"recoverme/internal/core/domain/notification"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

const charset = "UTF-8"

type sesClient interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier delivers plain text emails through Amazon SES. Sender
// addresses must be verified with SES.
type SESNotifier struct {
	ses     sesClient
	timeout time.Duration
}

func NewSESNotifier(awsConfig aws.Config, timeout time.Duration) *SESNotifier {
	return newSESNotifier(ses.NewFromConfig(awsConfig), timeout)
}

func newSESNotifier(client sesClient, timeout time.Duration) *SESNotifier {
	return &SESNotifier{ses: client, timeout: timeout}
}

func (s *SESNotifier) Send(ctx context.Context, m notification.Message) error {
	if m.To == "" {
		return errors.New("message recipient is not defined")
	}
	if m.From == "" {
		return errors.New("message sender is not defined")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	_, err := s.ses.SendEmail(
		ctx,
		&ses.SendEmailInput{
			Source: aws.String(m.From),
			Destination: &types.Destination{
				CcAddresses: []string{},
				ToAddresses: []string{m.To},
			},
			Message: &types.Message{
				Subject: &types.Content{Data: aws.String(m.Subject), Charset: aws.String(charset)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(m.Body), Charset: aws.String(charset)},
				},
			},
		},
	)
	if err != nil {
		return fmt.Errorf("could not send email to %s: %w", m.To, err)
	}
	return nil
}
