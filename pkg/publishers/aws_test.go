package publishers

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
)

func TestLoadAWSConfigUsesStaticAccess(t *testing.T) {
	cfg, err := loadAWSConfig(context.Background(), "eu-north-1", AWSAccess{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		Endpoint:        "http://localhost:4566",
	})
	if err != nil {
		t.Fatalf("loadAWSConfig: %v", err)
	}
	if cfg.Region != "eu-north-1" {
		t.Fatalf("region = %q", cfg.Region)
	}
	if aws.ToString(cfg.BaseEndpoint) != "http://localhost:4566" {
		t.Fatalf("endpoint = %q", aws.ToString(cfg.BaseEndpoint))
	}
	creds, err := cfg.Credentials.Retrieve(context.Background())
	if err != nil {
		t.Fatalf("retrieve credentials: %v", err)
	}
	if creds.AccessKeyID != "AKIDEXAMPLE" || creds.SecretAccessKey != "secret" {
		t.Fatalf("unexpected credentials %+v", creds)
	}
}

func TestAWSAccessParsedInline(t *testing.T) {
	reg, err := parsePublisherRegistry([]byte(`
publishers:
  - id: local
    type: sqs
    sqs:
      uri: http://localhost:4566/000000000000/articles
      region: us-east-1
      access_key_id: test
      secret_access_key: test
      endpoint: http://localhost:4566
`), ".yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	sqsCfg := reg.Publishers[0].SQS
	if sqsCfg.AccessKeyID != "test" || sqsCfg.Endpoint != "http://localhost:4566" {
		t.Fatalf("inline aws access not decoded: %+v", sqsCfg)
	}

	pub, err := newSQSPublisher(context.Background(), sanitizePublisherConfig(reg.Publishers[0]), nil)
	if err != nil {
		t.Fatalf("newSQSPublisher: %v", err)
	}
	if pub.Type() != TypeSQS || pub.ID() != "local" {
		t.Fatalf("unexpected publisher %s/%s", pub.Type(), pub.ID())
	}
}
