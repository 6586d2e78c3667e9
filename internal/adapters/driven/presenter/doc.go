// Package presenter holds the driven.Presenter implementations.
//
//   - terminal: styled Markdown for a terminal (glamour + lipgloss)
//   - jsonout: the presentation tree as JSON
package presenter
