package publishers

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestBuildAllWithDefaultRegistry(t *testing.T) {
	pubs, err := BuildAll(context.Background(), DefaultRegistry(), []PublisherConfig{
		{ID: "http", Type: TypeHTTP, HTTP: &HTTPPublisherConfig{URL: "https://example.com", Method: "POST", TimeoutSeconds: 1}},
	}, nil)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	if len(pubs) != 1 || pubs[0].Type() != TypeHTTP {
		t.Fatalf("expected 1 http publisher, got %#v", pubs)
	}
}

func TestBuildAllClosesBuiltPublishersOnFailure(t *testing.T) {
	built := &stubPublisher{id: "first", typ: "stub"}
	reg := NewRegistry(map[string]Builder{
		"stub": func(context.Context, PublisherConfig, Logger) (Publisher, error) { return built, nil },
		"bad":  func(context.Context, PublisherConfig, Logger) (Publisher, error) { return nil, errors.New("nope") },
	})

	_, err := BuildAll(context.Background(), reg, []PublisherConfig{
		{ID: "first", Type: "stub"},
		{ID: "second", Type: "bad"},
	}, nil)
	if err == nil {
		t.Fatalf("expected build error")
	}
	if !built.closed {
		t.Fatalf("expected already built publisher to be closed")
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg := DefaultRegistry()
	if got := reg.Types(); !reflect.DeepEqual(got, []string{TypeHTTP, TypePubSub, TypeSNS, TypeSQS}) {
		t.Fatalf("Types() = %v", got)
	}
	_, err := reg.PublisherFor(context.Background(), PublisherConfig{ID: "x", Type: "kafka"}, nil)
	if err == nil || !strings.Contains(err.Error(), "known: http, pubsub, sns, sqs") {
		t.Fatalf("expected unknown type error listing known types, got %v", err)
	}
}
