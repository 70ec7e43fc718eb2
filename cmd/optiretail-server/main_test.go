package main

import (
	"testing"

	"github.com/optiretail/optiretail/internal/domain/notes"
	"github.com/optiretail/optiretail/internal/platform/lifecycle"
)

func TestPublishedEntities_Unique(t *testing.T) {
	seen := make(map[lifecycle.Entity]bool)
	for _, e := range publishedEntities {
		if seen[e] {
			t.Errorf("entity %q listed twice", e)
		}
		seen[e] = true
	}
	if !seen[notes.EntityNote] {
		t.Error("expected notes to be published")
	}
}

func TestMigrateCmd_Subcommands(t *testing.T) {
	cmd := migrateCmd()
	for _, name := range []string{"up", "status"} {
		sub, _, err := cmd.Find([]string{name})
		if err != nil || sub.Name() != name {
			t.Errorf("missing migrate %s: %v", name, err)
		}
		if sub.Flags().Lookup("dir") == nil {
			t.Errorf("migrate %s has no --dir flag", name)
		}
	}
}
