package tenancy

import (
	"context"
	"testing"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), "org-42")
	orgID, ok := OrgIDFromContext(ctx)
	if !ok {
		t.Fatal("expected org id to be present")
	}
	if orgID != "org-42" {
		t.Fatalf("expected org-42, got %s", orgID)
	}
}

func TestOrgIDMissing(t *testing.T) {
	if _, ok := OrgIDFromContext(context.Background()); ok {
		t.Fatal("expected no org id on empty context")
	}
}

func TestOrgIDEmptyStringTreatedAsMissing(t *testing.T) {
	ctx := WithOrgID(context.Background(), "")
	if _, ok := OrgIDFromContext(ctx); ok {
		t.Fatal("expected empty org id to be treated as missing")
	}
}
