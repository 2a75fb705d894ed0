package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESAPI is the subset of the SES v2 client used for delivery.
type SESAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESMailer sends email through AWS SES.
type SESMailer struct {
	client SESAPI
}

// NewSESMailer creates an SESMailer with static credentials.
func NewSESMailer(ctx context.Context, region, accessKey, secretKey string) (*SESMailer, error) {
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("ses: load AWS config: %w", err)
	}
	return &SESMailer{client: sesv2.NewFromConfig(cfg)}, nil
}

// NewSESMailerWithClient wraps an existing client.
func NewSESMailerWithClient(client SESAPI) *SESMailer {
	return &SESMailer{client: client}
}

// Send implements Mailer.
func (m *SESMailer) Send(ctx context.Context, msg *Message) (string, error) {
	out, err := m.client.SendEmail(ctx, sesInput(msg))
	if err != nil {
		return "", fmt.Errorf("ses: send: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

func sesInput(msg *Message) *sesv2.SendEmailInput {
	from := msg.FromEmail
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTML), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.Text != "" {
		input.Content.Simple.Body.Text = &types.Content{Data: aws.String(msg.Text), Charset: aws.String("UTF-8")}
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = []string{msg.ReplyTo}
	}
	return input
}
