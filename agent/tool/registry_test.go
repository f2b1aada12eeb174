package tool

import (
	"context"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func noopHandler(context.Context, map[string]any) (any, error) {
	return map[string]any{"success": true}, nil
}

func TestNewRegistryValidatesHandlerSet(t *testing.T) {
	t.Parallel()

	infos := []*schema.ToolInfo{
		{Name: "alpha"},
		{Name: "beta"},
	}

	if _, err := NewRegistry(infos, map[string]Handler{"alpha": noopHandler}); err == nil {
		t.Fatal("expected error for schema without handler")
	} else if !strings.Contains(err.Error(), "beta") {
		t.Fatalf("error should name the missing tool, got %v", err)
	}

	handlers := map[string]Handler{
		"alpha": noopHandler,
		"beta":  noopHandler,
		"gamma": noopHandler,
	}
	if _, err := NewRegistry(infos, handlers); err == nil {
		t.Fatal("expected error for handler without schema")
	}

	if _, err := NewRegistry(nil, nil); err == nil {
		t.Fatal("expected error for empty schema set")
	}

	dup := []*schema.ToolInfo{{Name: "alpha"}, {Name: "alpha"}}
	if _, err := NewRegistry(dup, map[string]Handler{"alpha": noopHandler}); err == nil {
		t.Fatal("expected error for duplicate schema name")
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	reg, err := NewRegistry(
		[]*schema.ToolInfo{{Name: "alpha"}},
		map[string]Handler{"alpha": noopHandler},
	)
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}

	if _, ok := reg.Handler("alpha"); !ok {
		t.Fatal("expected handler for declared tool")
	}
	if _, ok := reg.Handler("missing"); ok {
		t.Fatal("unexpected handler for undeclared tool")
	}
	if got := len(reg.Infos()); got != 1 {
		t.Fatalf("Infos() = %d schemas, want 1", got)
	}
}
