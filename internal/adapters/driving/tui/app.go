package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/components/input"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/components/status"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/keymap"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/messages"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/styles"
	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/views/viewer"
	"github.com/offerta-labs/citemark/internal/core/domain"
	"github.com/offerta-labs/citemark/internal/core/ports/driving"
)

// eventBuffer sizes the callback-to-model channel. Callbacks drop
// events rather than block the highlight pass.
const eventBuffer = 64

// App is the viewer application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// rec is the document being viewed.
	rec domain.FileRecord

	styles *styles.Styles
	keys   *keymap.KeyMap

	viewerView *viewer.View
	statusBar  *status.Bar
	searchBox  *input.SearchInput

	// highlighter is bound once the layer is acquired.
	highlighter driving.Highlighter

	// events carries progress and scroll callbacks from the highlight
	// pass goroutine into the update loop.
	events chan tea.Msg

	searching bool
	width     int
	height    int
	ready     bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new viewer application for one file record.
func NewApp(ports *Ports, rec domain.FileRecord) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:      ports,
		ctx:        context.Background(),
		rec:        rec,
		styles:     s,
		keys:       km,
		viewerView: viewer.NewView(s),
		statusBar:  status.NewBar(s, km),
		searchBox:  input.NewSearchInput(s),
		events:     make(chan tea.Msg, eventBuffer),
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	if ctx != nil {
		a.ctx = ctx
	}
	return a
}

// Init implements tea.Model. It starts layer acquisition immediately.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("citemark - "+a.rec.Name),
		a.acquireCmd(),
		a.listenCmd(),
	)
}

// acquireCmd fetches the document and builds its text layer.
func (a *App) acquireCmd() tea.Cmd {
	return func() tea.Msg {
		res, err := a.ports.Acquisition.Acquire(a.ctx, a.rec)
		return messages.LayerAcquired{Result: res, Err: err}
	}
}

// listenCmd forwards one callback event into the update loop.
func (a *App) listenCmd() tea.Cmd {
	return func() tea.Msg {
		return <-a.events
	}
}

// send pushes a callback event without blocking the pass goroutine.
func (a *App) send(msg tea.Msg) {
	select {
	case a.events <- msg:
	default:
	}
}

// citationsCmd runs the citation pass on the bound highlighter.
func (a *App) citationsCmd(citations []domain.Citation) tea.Cmd {
	h := a.highlighter
	return func() tea.Msg {
		report, err := h.HighlightCitations(a.ctx, citations)
		return messages.PassCompleted{Report: report, Err: err}
	}
}

// searchCmd runs a search pass on the bound highlighter.
func (a *App) searchCmd(query string) tea.Cmd {
	h := a.highlighter
	return func() tea.Msg {
		err := h.Search(a.ctx, query)
		return messages.SearchCompleted{Query: query, Err: err}
	}
}

// saveReportCmd persists the run report when a store is configured.
func (a *App) saveReportCmd(report domain.RunReport) tea.Cmd {
	store := a.ports.Reports
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return messages.ReportSaved{Err: store.SaveRun(a.ctx, report)}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.viewerView.SetDimensions(msg.Width, msg.Height-statusReserved)
		a.statusBar.SetWidth(msg.Width)
		a.searchBox.SetWidth(msg.Width)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case messages.LayerAcquired:
		return a.handleLayerAcquired(msg)

	case messages.PassProgress:
		a.statusBar.SetState(status.StateLocating)
		a.statusBar.SetProgress(msg.Processed, msg.Total)
		return a, a.listenCmd()

	case messages.ScrollTo:
		a.viewerView.ScrollToOffset(msg.Group.Representative().Start)
		return a, a.listenCmd()

	case messages.PassCompleted:
		return a.handlePassCompleted(msg)

	case messages.SearchCompleted:
		return a.handleSearchCompleted(msg)

	case messages.ReportSaved:
		if msg.Err != nil {
			a.statusBar.SetMessage("report not saved")
		}
		return a, nil

	case messages.ErrorOccurred:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	return a, nil
}

// statusReserved is the height kept for the status bar and search box.
const statusReserved = 2

func (a *App) handleLayerAcquired(msg messages.LayerAcquired) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		a.viewerView.SetError(msg.Err)
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	a.viewerView.SetContent(a.rec.Name, msg.Result.Layer.Text())
	a.viewerView.SetDegraded(msg.Result.Degraded)
	a.statusBar.SetDegraded(msg.Result.Degraded)

	a.highlighter = a.ports.Highlighter(a.rec, msg.Result)
	a.highlighter.SetProgressFunc(func(processed, total int) {
		a.send(messages.PassProgress{Processed: processed, Total: total})
	})
	a.highlighter.SetScrollFunc(func(group domain.HighlightGroup) {
		a.send(messages.ScrollTo{Group: group})
	})

	citations := a.rec.CitationList()
	if len(citations) == 0 {
		a.statusBar.SetState(status.StateReady)
		return a, nil
	}

	a.statusBar.SetState(status.StateLocating)
	a.statusBar.SetProgress(0, len(citations))
	return a, a.citationsCmd(citations)
}

func (a *App) handlePassCompleted(msg messages.PassCompleted) (tea.Model, tea.Cmd) {
	// A superseded pass means a newer input took over; its successor
	// will report its own completion.
	if errors.Is(msg.Err, domain.ErrPassSuperseded) {
		return a, nil
	}
	if msg.Err != nil {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}

	a.syncNavigation()
	return a, a.saveReportCmd(msg.Report)
}

func (a *App) handleSearchCompleted(msg messages.SearchCompleted) (tea.Model, tea.Cmd) {
	if errors.Is(msg.Err, domain.ErrPassSuperseded) {
		return a, nil
	}
	if msg.Err != nil {
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(msg.Err.Error())
		return a, nil
	}
	a.viewerView.SetNotFound(nil)
	a.syncNavigation()
	return a, nil
}

// syncNavigation pulls the highlighter's state into the views.
func (a *App) syncNavigation() {
	st := a.highlighter.State()
	a.viewerView.SetState(st)
	a.viewerView.SetNotFound(a.highlighter.NotFound())
	a.statusBar.SetState(status.StateReady)
	a.statusBar.SetMatches(st.Len(), st.ActiveIndex)
}

//nolint:gocyclo // central key dispatch
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// While the search box is focused it owns every key except
	// submit and cancel.
	if a.searching {
		switch {
		case keymap.Matches(key, a.keys.Submit):
			query := a.searchBox.Value()
			a.searching = false
			a.searchBox.Blur()
			if a.highlighter == nil {
				return a, nil
			}
			return a, a.searchCmd(query)
		case keymap.Matches(key, a.keys.Cancel):
			a.searching = false
			a.searchBox.Blur()
			a.searchBox.Reset()
			return a, nil
		default:
			var cmd tea.Cmd
			a.searchBox, cmd = a.searchBox.Update(msg)
			return a, cmd
		}
	}

	switch {
	case keymap.Matches(key, a.keys.Quit):
		return a, tea.Quit

	case keymap.Matches(key, a.keys.Search):
		a.searching = true
		return a, a.searchBox.Focus()

	case keymap.Matches(key, a.keys.Next):
		if a.highlighter != nil {
			a.highlighter.Next()
			a.syncNavigation()
		}
		return a, nil

	case keymap.Matches(key, a.keys.Previous):
		if a.highlighter != nil {
			a.highlighter.Previous()
			a.syncNavigation()
		}
		return a, nil

	case keymap.Matches(key, a.keys.Cancel):
		if a.highlighter != nil {
			a.highlighter.Clear()
			a.searchBox.Reset()
			a.syncNavigation()
		}
		return a, nil

	default:
		var cmd tea.Cmd
		a.viewerView, cmd = a.viewerView.Update(msg)
		return a, cmd
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	body := a.viewerView.View()
	if a.searching {
		return body + "\n" + a.searchBox.View()
	}
	return body + "\n" + a.statusBar.View()
}

// Highlighter exposes the bound highlighter for tests.
func (a *App) Highlighter() driving.Highlighter {
	return a.highlighter
}

// Searching reports whether the search box is focused.
func (a *App) Searching() bool {
	return a.searching
}
