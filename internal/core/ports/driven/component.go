package driven

import (
	"context"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Component renders one block with resolved props.
// Implementations must not retain the block or props.
type Component interface {
	// Name returns the registry identifier.
	Name() string

	// Render produces the presentation node for a block.
	Render(ctx context.Context, block domain.Block, props map[string]any) (domain.Node, error)
}

// ComponentResolver maps component names to components.
type ComponentResolver interface {
	// Resolve returns the component registered as name.
	// Returns a *domain.ComponentNotFoundError when absent.
	Resolve(name string) (Component, error)

	// Entry returns the registry entry of a component.
	Entry(name string) (domain.ComponentEntry, bool)
}
