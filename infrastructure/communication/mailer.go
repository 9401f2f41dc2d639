package communication

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SendWelcomeEmail sends the post-registration mail through SES.
func SendWelcomeEmail(ctx context.Context, from, to, username string) error {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	client := ses.NewFromConfig(cfg)

	subject := "Welcome to WindSightAI"
	body := fmt.Sprintf(
		"Hi %s,\r\n\r\nYour WindSightAI account is ready. Upload blade inspection "+
			"images or videos and run defect detection from your dashboard.\r\n\r\n"+
			"The WindSightAI team",
		username,
	)

	_, err = client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}
