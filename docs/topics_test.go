package docs

import (
	"slices"
	"strings"
	"testing"
)

func TestTopic(t *testing.T) {
	got, err := Topic("readme")
	if err != nil {
		t.Fatalf("Topic(readme) failed: %v", err)
	}
	if got == "" {
		t.Error("Topic(readme) is empty")
	}

	if _, err := Topic("no-such-topic"); err == nil {
		t.Error("Topic() accepted an unknown name")
	}
}

func TestList(t *testing.T) {
	names, err := List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(names) == 0 {
		t.Fatal("List() is empty")
	}
	if !slices.IsSorted(names) {
		t.Errorf("List() = %v, want alphabetical order", names)
	}
	if slices.Contains(names, "readme") {
		t.Error("List() includes the readme landing page")
	}
	for _, want := range []string{"accounts", "savings", "loans", "fraud"} {
		if !slices.Contains(names, want) {
			t.Errorf("List() misses %q", want)
		}
	}
}

func TestTopicsExpandsStar(t *testing.T) {
	all, err := Topics("*")
	if err != nil {
		t.Fatalf("Topics(*) failed: %v", err)
	}
	single, err := Topic("accounts")
	if err != nil {
		t.Fatalf("Topic(accounts) failed: %v", err)
	}
	if !strings.Contains(all, single) {
		t.Error("Topics(*) does not include the accounts topic")
	}
}
