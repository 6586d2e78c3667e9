// Package mapping maps content blocks to presentation components.
//
// A RuleSet is an immutable, validated list of rules. Every rule set holds
// a priority 0 default rule, so matching a block always yields a rule. The
// Matcher picks the highest priority rule whose predicate and condition
// hold, preferring the earliest declared rule on ties.
//
// Chapter configurations are plain TOML or YAML documents. The defaults
// and the built-in chapter configurations are embedded in the binary.
package mapping
