package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/lenddesk/loan_application_app/internal/core/domain"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
)

const eventTypeApplicationApproved = "application.approved"

// SNSPublisher delivers approval events to an SNS topic.
type SNSPublisher struct {
	client   *sns.Client
	topicARN string
}

// NewSNSPublisher creates a publisher bound to the given topic.
func NewSNSPublisher(ctx context.Context, region string, topicARN string) (*SNSPublisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &SNSPublisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
	}, nil
}

// Ensure SNSPublisher implements the ApprovalEventPublisher interface
var _ portssvc.ApprovalEventPublisher = (*SNSPublisher)(nil)

func (p *SNSPublisher) PublishApplicationApproved(ctx context.Context, event domain.ApplicationApprovedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal approval event for application %s: %w", event.ApplicationID, err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(eventTypeApplicationApproved),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish approval event for application %s: %w", event.ApplicationID, err)
	}
	return nil
}
