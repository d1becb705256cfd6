package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDefaultRequiresReadiness(t *testing.T) {
	for kind := range knownOperations {
		want := kind != OperationGetBridgeState
		if got := DefaultRequiresReadiness(kind); got != want {
			t.Fatalf("%s: expected requires readiness %v, got %v", kind, want, got)
		}
	}
	if DefaultRequiresReadiness("unknown_op") {
		t.Fatalf("unknown operations are not gated")
	}
	if NormalizeOperationKind("  Create_Link ") != OperationCreateLink {
		t.Fatalf("expected normalized operation kind")
	}
}

func TestLinkParameters_ValidateAndNormalize(t *testing.T) {
	if err := (LinkParameters{}).Validate(); err == nil {
		t.Fatalf("expected missing domain to fail")
	}
	if err := (LinkParameters{Domain: "x.ly", Type: "static"}).Validate(); err == nil {
		t.Fatalf("expected invalid link type to fail")
	}

	source := LinkParameters{
		Domain:          " x.ly ",
		Type:            "Dynamic",
		Parameters:      map[string]string{"a": "1"},
		SocialMediaTags: &SocialMediaTags{OGTitle: "Title"},
	}
	normalized := source.Normalized()
	if normalized.Type != LinkTypeDynamic || normalized.Domain != "x.ly" {
		t.Fatalf("unexpected normalization %+v", normalized)
	}
	normalized.Parameters["a"] = "2"
	normalized.SocialMediaTags.OGTitle = "Changed"
	if source.Parameters["a"] != "1" || source.SocialMediaTags.OGTitle != "Title" {
		t.Fatalf("expected normalization to detach caller data")
	}
}

func TestResolvedLink_HasContent(t *testing.T) {
	if (ResolvedLink{}).HasContent() {
		t.Fatalf("empty link has no content")
	}
	if (ResolvedLink{IsDeferred: true, MatchType: "fingerprint"}).HasContent() {
		t.Fatalf("flags alone are not routable content")
	}
	for _, link := range []ResolvedLink{
		{Slug: "promo"},
		{FallbackURL: "https://x.ly"},
		{Parameters: map[string]any{"k": "v"}},
		{Metadata: map[string]any{"k": "v"}},
	} {
		if !link.HasContent() {
			t.Fatalf("expected content for %+v", link)
		}
	}
}

func TestPayloads_Validate(t *testing.T) {
	empty := ""
	valid := "myapp://open/item"
	cases := []struct {
		name    string
		payload Payload
		wantErr bool
	}{
		{"create link", CreateLinkPayload{Parameters: LinkParameters{Domain: "x.ly"}}, false},
		{"create link missing domain", CreateLinkPayload{}, true},
		{"resolve link", ResolveLinkPayload{URL: "https://x.ly/a"}, false},
		{"resolve link relative", ResolveLinkPayload{URL: "/a"}, true},
		{"handle deep link scheme", HandleDeepLinkPayload{URL: valid}, false},
		{"set initial uri clear", SetInitialURIPayload{}, false},
		{"set initial uri empty", SetInitialURIPayload{URL: &empty}, true},
		{"set initial uri", SetInitialURIPayload{URL: &valid}, false},
		{"accessor", Accessor(OperationGetInstallationInfo), false},
		{"accessor empty", Accessor(""), true},
		{"accessor needs payload", Accessor(OperationResolveLink), true},
	}
	for _, tc := range cases {
		err := tc.payload.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("%s: wantErr=%v got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCompletion_ResolvesOnce(t *testing.T) {
	completion := NewCompletion()
	if !completion.Resolve("first", nil) {
		t.Fatalf("expected first resolve to win")
	}
	if completion.Resolve("second", errors.New("late")) {
		t.Fatalf("expected second resolve to be ignored")
	}
	value, err := Await[string](context.Background(), completion)
	if err != nil || value != "first" {
		t.Fatalf("expected first outcome, got %q (%v)", value, err)
	}
	if _, err := Await[int](context.Background(), completion); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestCompletion_WaitHonorsContext(t *testing.T) {
	completion := NewCompletion()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := completion.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if completion.Resolved() {
		t.Fatalf("expected unresolved completion")
	}
}

func TestPendingQueue_DrainStartsFresh(t *testing.T) {
	var queue pendingQueue[int]
	queue.push(1)
	queue.push(2)
	first := queue.drain()
	queue.push(3)
	if len(first) != 2 || first[0] != 1 || first[1] != 2 {
		t.Fatalf("unexpected first drain %v", first)
	}
	if second := queue.drain(); len(second) != 1 || second[0] != 3 {
		t.Fatalf("expected fresh queue after drain, got %v", second)
	}
	if queue.drain() != nil {
		t.Fatalf("expected nil drain for empty queue")
	}
}
