package classifier

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/semiconbook/chaptermap/internal/core/domain"
)

// Feature is a semantic trait of a block's content.
type Feature string

const (
	FeatureTimeline   Feature = "timeline"
	FeatureChallenge  Feature = "challenge"
	FeatureConcept    Feature = "concept"
	FeatureData       Feature = "data"
	FeatureComparison Feature = "comparison"
	FeatureList       Feature = "list"
	FeatureNarrative  Feature = "narrative"
	FeatureBlockquote Feature = "blockquote"
	FeatureCode       Feature = "code"
	FeatureFormula    Feature = "formula"
	FeatureDefault    Feature = "default"
)

// FeatureRule scores one feature.
type FeatureRule struct {
	Feature    Feature
	Keywords   []string
	HasList    bool
	HasDates   bool
	HasNumbers bool
	MinLength  int
	MaxLength  int
	Component  string
	Priority   int
}

// FeatureScore is a scored feature suggestion.
type FeatureScore struct {
	Feature   Feature `json:"feature"`
	Component string  `json:"component"`
	Score     int     `json:"score"`
}

// FeatureRules is the built-in feature table, highest priority first.
var FeatureRules = []FeatureRule{
	{Feature: FeatureTimeline, Keywords: []string{`一场从 "单个零件" 到 "亿万器件" 的革命`}, MinLength: 100, Component: "SemiconductorHistoryModule", Priority: 12},
	{Feature: FeatureTimeline, Keywords: []string{"里程碑", "演进脉络", "发展历程", "时间线", "历史"}, HasDates: true, HasList: true, Component: "SemiconductorHistoryModule", Priority: 10},
	{Feature: FeatureChallenge, Keywords: []string{"挑战", "问题", "困境", "瓶颈", "解决方案", "突破"}, MinLength: 100, Component: "ScaleDownChallengeModule", Priority: 9},
	{Feature: FeatureConcept, Keywords: []string{"概念", "定义", "本质", "原理", "核心", "理论", "定律"}, HasList: true, MinLength: 50, Component: "ConceptExplanationModule", Priority: 8},
	{Feature: FeatureData, HasNumbers: true, Component: "DataVisualizationModule", Priority: 7},
	{Feature: FeatureComparison, Keywords: []string{"对比", "比较", "区别", "优势", "劣势", "vs", "VS"}, MinLength: 80, Component: "ComparisonModule", Priority: 6},
	{Feature: FeatureList, HasList: true, MaxLength: 200, Component: "ListDisplayModule", Priority: 5},
	{Feature: FeatureBlockquote, MinLength: 10, Component: "StyledBlockquoteModule", Priority: 4},
	{Feature: FeatureCode, MinLength: 20, Component: "CodeDisplayModule", Priority: 3},
	{Feature: FeatureFormula, MinLength: 10, Component: "FormulaDisplayModule", Priority: 2},
	{Feature: FeatureNarrative, MinLength: 150, Component: "NarrativeContentModule", Priority: 1},
	{Feature: FeatureDefault, Component: "DefaultContentModule", Priority: 0},
}

var (
	datePattern   = regexp.MustCompile(`\b\d{4}([年-]\d{2}){0,2}\b`)
	numberPattern = regexp.MustCompile(`\b\d+\b`)
)

// structural features earn a bonus when the block has the same type.
var structural = map[Feature]domain.BlockType{
	FeatureBlockquote: domain.BlockBlockquote,
	FeatureCode:       domain.BlockCode,
	FeatureFormula:    domain.BlockFormula,
}

// Features scores block against FeatureRules. Only features scoring above
// zero are returned, best first; ties keep table order.
//
// Scoring: 10 per keyword present, 20 for list markers, 25 per date,
// 5 per number, 5 for each satisfied length bound, 30 when a structural
// feature matches the block type, plus the rule priority.
func Features(block domain.Block) []FeatureScore {
	content := block.Text
	length := utf8.RuneCountInString(content)

	var scores []FeatureScore
	for _, rule := range FeatureRules {
		score := 0
		for _, kw := range rule.Keywords {
			if strings.Contains(content, kw) {
				score += 10
			}
		}
		if rule.HasList && (strings.Contains(content, "- ") || strings.Contains(content, "1. ") || strings.Contains(content, "* ")) {
			score += 20
		}
		if rule.HasDates {
			score += 25 * len(datePattern.FindAllString(content, -1))
		}
		if rule.HasNumbers {
			score += 5 * len(numberPattern.FindAllString(content, -1))
		}
		if rule.MinLength > 0 && length >= rule.MinLength {
			score += 5
		}
		if rule.MaxLength > 0 && length <= rule.MaxLength {
			score += 5
		}
		if t, ok := structural[rule.Feature]; ok && block.Type == t {
			score += 30
		}
		if score > 0 {
			scores = append(scores, FeatureScore{
				Feature:   rule.Feature,
				Component: rule.Component,
				Score:     score + rule.Priority,
			})
		}
	}

	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

// TopFeature returns the best scoring feature of block, or the default
// feature with score 0 when nothing scores.
func TopFeature(block domain.Block) FeatureScore {
	if scores := Features(block); len(scores) > 0 {
		return scores[0]
	}
	return FeatureScore{Feature: FeatureDefault, Component: "DefaultContentModule"}
}

// SuggestComponent returns the component of the top feature of block.
func SuggestComponent(block domain.Block) string {
	return TopFeature(block).Component
}

// KnownFeature reports whether name is a feature of FeatureRules.
func KnownFeature(name string) bool {
	for _, rule := range FeatureRules {
		if string(rule.Feature) == name {
			return true
		}
	}
	return false
}
