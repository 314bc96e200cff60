package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: topic
    type: SNS
    sns:
      topic_arn: arn:aws:sns:eu-north-1:123456789012:articles
      region: eu-north-1
  - id: gcp
    type: pubsub
    pubsub:
      project_id: media
      topic: articles
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 2 || enabled[0].ID != "topic" || enabled[1].ID != "gcp" {
		t.Fatalf("expected topic and gcp enabled, got %#v", enabled)
	}
	if enabled[0].Type != TypeSNS {
		t.Fatalf("type should be lower-cased, got %q", enabled[0].Type)
	}
	http1, ok := reg.ByID("http1")
	if !ok || http1.HTTP.Method != "POST" || http1.HTTP.TimeoutSeconds != httpDefaultTimeoutSeconds {
		t.Fatalf("http defaults not applied: %#v", http1.HTTP)
	}
}

func TestValidatePublisherConfigRejectsIncompleteEntries(t *testing.T) {
	cases := map[string]PublisherConfig{
		"missing http":   {ID: "h1", Type: TypeHTTP},
		"missing region": {ID: "q1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "https://q"}},
		"missing arn":    {ID: "s1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "eu-north-1"}},
		"missing topic":  {ID: "p1", Type: TypePubSub, PubSub: &PubSubPublisherConfig{ProjectID: "media"}},
		"missing id":     {Type: TypeHTTP},
	}
	for name, cfg := range cases {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestNewConfigRegistryRejectsDuplicates(t *testing.T) {
	cfg := PublisherConfig{ID: "dup", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com"}}
	if _, err := NewConfigRegistry([]PublisherConfig{cfg, cfg}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
