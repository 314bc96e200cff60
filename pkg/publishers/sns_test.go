package publishers

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Adda-Baaj/infomedia-harvester/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

type fakeSNSClient struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNSClient) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-123")}, nil
}

func TestSNSPublisherPublishes(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   client,
		log:      noopLogger{},
	}

	err := pub.Publish(context.Background(), Event{
		SourceID: "national",
		Article:  domain.Article{ID: "e70a7343"},
	})
	if err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if got := aws.ToString(client.input.TopicArn); got != "arn:aws:sns:::topic" {
		t.Fatalf("TopicArn = %s", got)
	}
	attr, ok := client.input.MessageAttributes["article_id"]
	if !ok || aws.ToString(attr.StringValue) != "e70a7343" {
		t.Fatalf("article_id attribute missing or wrong: %#v", attr)
	}
	if !strings.Contains(aws.ToString(client.input.Message), `"source_id":"national"`) {
		t.Fatalf("Message missing source_id: %s", aws.ToString(client.input.Message))
	}
}

func TestSNSPublisherSkipsEmptyAttributes(t *testing.T) {
	client := &fakeSNSClient{}
	pub := &snsPublisher{id: "topic", topicARN: "arn", client: client, log: noopLogger{}}

	if err := pub.Publish(context.Background(), Event{SourceID: "national"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if _, ok := client.input.MessageAttributes["article_id"]; ok {
		t.Fatalf("empty attribute values must not be sent")
	}
}

func TestSNSPublisherPublishError(t *testing.T) {
	pub := &snsPublisher{
		id:       "topic",
		topicARN: "arn:aws:sns:::topic",
		client:   &fakeSNSClient{err: errors.New("boom")},
		log:      noopLogger{},
	}
	if err := pub.Publish(context.Background(), Event{}); err == nil {
		t.Fatalf("expected error from Publish")
	}
}
