package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/keymap"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/messages"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/styles"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/views/chapters"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/views/reader"
	"github.com/semiconbook/chaptermap/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	chaptersView *chapters.View
	readerView   *reader.View
	searchView   *search.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// previousView is restored when leaving help.
	previousView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		chaptersView: chapters.NewView(s, km, ports.Chapters),
		readerView:   reader.NewView(s, km, ports.Chapters, ports.Presenter),
		searchView:   search.NewView(s, km, ports.Search),
		currentView:  messages.ViewChapters,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.chaptersView.WithContext(ctx)
	a.readerView.WithContext(ctx)
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("chaptermap"),
		a.chaptersView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.ChaptersLoaded:
		a.err = msg.Err
		a.chaptersView, cmd = a.chaptersView.Update(msg)
		return a, cmd

	case messages.ChapterSelected:
		a.currentView = messages.ViewReader
		a.chaptersView.Highlight(msg.Slug)
		return a, a.readerView.Open(msg.Slug)

	case messages.ChapterRendered:
		if msg.Err != nil && msg.Slug == a.readerView.Slug() {
			a.err = msg.Err
		}
		a.readerView, cmd = a.readerView.Update(msg)
		return a, cmd

	case messages.SearchCompleted:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewSearch {
			a.searchView, cmd = a.searchView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages (cursor blink, mouse) to the active view.
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewChapters, messages.ViewHelp:
	}
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	// The search input receives every printable key, so global bindings
	// apply only outside it.
	typing := a.currentView == messages.ViewSearch && a.searchView.InputFocused()
	if !typing {
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Help):
			if a.currentView == messages.ViewHelp {
				a.currentView = a.previousView
			} else {
				a.previousView = a.currentView
				a.currentView = messages.ViewHelp
			}
			return a, nil
		}
	}

	switch a.currentView {
	case messages.ViewChapters:
		a.chaptersView, cmd = a.chaptersView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc {
			a.currentView = a.previousView
		}
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	a.err = nil
	if view == messages.ViewSearch {
		a.searchView.Reset()
		return a.searchView.Init()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewReader:
		return a.readerView.View()
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.chaptersView.View()
	}
}

// viewHelp renders the keybinding reference.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help") + "\n\n")
	for _, group := range a.keymap.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-10s %s\n", h.Key, h.Desc)
		}
		b.WriteString("\n")
	}
	b.WriteString(a.styles.Help.Render("[esc] back"))
	return b.String()
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been sized.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.chaptersView.SetDimensions(width, height)
	a.readerView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
}
