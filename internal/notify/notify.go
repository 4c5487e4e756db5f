// Package notify publishes operator notifications to an SNS topic.
package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/jimlawless/whereami"
	"github.com/sh3r4rd/product_uploads/pkg/e"
)

// PublishAPI is implemented by *sns.Client.
type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier sends plain-text messages to one topic.
type SNSNotifier struct {
	client   PublishAPI
	topicARN string
}

func NewSNSNotifier(client PublishAPI, topicARN string) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicARN: topicARN,
	}
}

// Notify publishes message under subject.
func (n *SNSNotifier) Notify(ctx context.Context, subject, message string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}
