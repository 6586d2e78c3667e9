// Package mdx parses textbook chapter sources.
//
// It covers the lexical side of the pipeline: frontmatter extraction,
// splitting a body into titled sections, the table of contents and the
// line-oriented block tokenizer. Nothing here interprets Markdown beyond
// locating structural markers at the start of a line.
package mdx
