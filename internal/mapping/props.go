package mapping

import (
	"fmt"
	"maps"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// ResolveProps computes the props of a block rendered by rule.
//
// Layers, later winning: the component's default props, the chapter's
// global props, the rule's static props and the rule's dynamic props.
// A failing or panicking props function yields a *domain.DynamicPropsError.
func ResolveProps(entry domain.ComponentEntry, rule *domain.Rule, block domain.Block, mctx domain.MatchContext) (map[string]any, error) {
	props := make(map[string]any, len(entry.DefaultProps)+len(mctx.Global)+len(rule.Props))
	maps.Copy(props, entry.DefaultProps)
	maps.Copy(props, mctx.Global)
	maps.Copy(props, rule.Props)

	if rule.PropsFunc == nil {
		return props, nil
	}

	dynamic, err := callProps(rule.PropsFunc, block, mctx)
	if err != nil {
		return nil, &domain.DynamicPropsError{Rule: rule.Name, BlockID: block.ID, Cause: err}
	}
	maps.Copy(props, dynamic)
	return props, nil
}

func callProps(fn domain.PropsFunc, block domain.Block, mctx domain.MatchContext) (props map[string]any, err error) {
	defer func() {
		if r := recover(); r != nil {
			props, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(block, mctx)
}
