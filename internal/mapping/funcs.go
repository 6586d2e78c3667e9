package mapping

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// FuncRegistry holds named props and condition functions that
// configuration files refer to by name.
type FuncRegistry struct {
	mu         sync.RWMutex
	props      map[string]domain.PropsFunc
	conditions map[string]domain.ConditionFunc
}

// NewFuncRegistry creates an empty registry.
func NewFuncRegistry() *FuncRegistry {
	return &FuncRegistry{
		props:      make(map[string]domain.PropsFunc),
		conditions: make(map[string]domain.ConditionFunc),
	}
}

// RegisterProps adds a props function. Functions must be pure.
func (r *FuncRegistry) RegisterProps(name string, fn domain.PropsFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.props[name] = fn
}

// RegisterCondition adds a condition function. Functions must be pure.
func (r *FuncRegistry) RegisterCondition(name string, fn domain.ConditionFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conditions[name] = fn
}

// Props returns the props function registered as name.
func (r *FuncRegistry) Props(name string) (domain.PropsFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.props[name]
	return fn, ok
}

// Condition returns the condition function registered as name.
func (r *FuncRegistry) Condition(name string) (domain.ConditionFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.conditions[name]
	return fn, ok
}

// Names lists registered props and condition names, sorted.
func (r *FuncRegistry) Names() (props, conditions []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.props {
		props = append(props, name)
	}
	for name := range r.conditions {
		conditions = append(conditions, name)
	}
	sort.Strings(props)
	sort.Strings(conditions)
	return props, conditions
}

var (
	yearPattern  = regexp.MustCompile(`(1[89]|20)\d{2}`)
	digitPattern = regexp.MustCompile(`\d`)
)

// DefaultFuncs returns a registry with the built-in functions.
func DefaultFuncs() *FuncRegistry {
	r := NewFuncRegistry()

	r.RegisterProps("concept-explanation", func(block domain.Block, mctx domain.MatchContext) (map[string]any, error) {
		return map[string]any{
			"showDefinition": true,
			"showFormula":    strings.Contains(block.Text, "=") || strings.Contains(block.Text, "公式"),
			"showExample":    strings.Contains(block.Text, "例如") || strings.Contains(block.Text, "示例"),
			"blockId":        block.ID,
			"chapterSlug":    mctx.ChapterSlug,
		}, nil
	})

	r.RegisterProps("timeline-years", func(block domain.Block, _ domain.MatchContext) (map[string]any, error) {
		var years []int
		seen := make(map[int]bool)
		for _, m := range yearPattern.FindAllString(block.Text, -1) {
			y, err := strconv.Atoi(m)
			if err != nil || seen[y] {
				continue
			}
			seen[y] = true
			years = append(years, y)
		}
		sort.Ints(years)
		return map[string]any{"years": years, "showTimeline": len(years) > 0}, nil
	})

	r.RegisterProps("heading-anchor", func(block domain.Block, _ domain.MatchContext) (map[string]any, error) {
		return map[string]any{"level": block.Level, "title": strings.TrimSpace(block.Text)}, nil
	})

	r.RegisterCondition("data-trend", func(block domain.Block, _ domain.MatchContext) bool {
		return strings.Contains(block.Text, "数据") &&
			(strings.Contains(block.Text, "增长") ||
				strings.Contains(block.Text, "比例") ||
				strings.Contains(block.Text, "趋势"))
	})

	r.RegisterCondition("has-numbers", func(block domain.Block, _ domain.MatchContext) bool {
		return digitPattern.MatchString(block.Text)
	})

	r.RegisterCondition("first-block", func(block domain.Block, _ domain.MatchContext) bool {
		return block.Position == 0
	})

	return r
}
