// Package viewer provides the document view with citation highlights.
package viewer

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/offerta-labs/citemark/internal/adapters/driving/tui/styles"
	"github.com/offerta-labs/citemark/internal/core/domain"
)

// lineSpan is one display line anchored to its byte range in the layer
// text, so highlight regions can be painted by offset.
type lineSpan struct {
	start int
	end   int
	text  string
}

// View renders the linearised layer text with highlight regions painted
// over it. Scrolling is line-based; regions are addressed by byte
// offset into the layer text.
type View struct {
	styles   *styles.Styles
	fileName string

	lines        []lineSpan
	scrollOffset int

	state    domain.NavigationState
	notFound []domain.CitationResult
	degraded bool

	width   int
	height  int
	loading bool
	err     error
}

// NewView creates a new document viewer.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		loading: true,
		state:   domain.NavigationState{ActiveIndex: -1},
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetContent installs the layer text. Line boundaries keep their byte
// offsets so regions can be located later.
func (v *View) SetContent(fileName, text string) {
	v.fileName = fileName
	v.loading = false
	v.err = nil
	v.scrollOffset = 0
	v.lines = splitLines(text)
}

// SetState installs the navigation state whose regions are painted.
func (v *View) SetState(state domain.NavigationState) {
	v.state = state
}

// SetNotFound installs the citations that could not be located.
func (v *View) SetNotFound(results []domain.CitationResult) {
	v.notFound = results
}

// SetDegraded marks the layer as partially rendered.
func (v *View) SetDegraded(degraded bool) {
	v.degraded = degraded
}

// SetError puts the view into the error state.
func (v *View) SetError(err error) {
	v.err = err
	v.loading = false
}

// Update handles scroll keys. Navigation and search keys are handled by
// the app model.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case tea.KeyMsg:
		v.handleKey(msg.String())
		return v, nil
	}
	return v, nil
}

func (v *View) handleKey(key string) {
	switch key {
	case "up", "k":
		v.scrollBy(-1)
	case "down", "j":
		v.scrollBy(1)
	case "pgup", "ctrl+u":
		v.scrollBy(-v.visibleLines())
	case "pgdown", "ctrl+d":
		v.scrollBy(v.visibleLines())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	}
}

func (v *View) scrollBy(delta int) {
	v.scrollOffset += delta
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
}

// ScrollToOffset centres the line containing the byte offset.
func (v *View) ScrollToOffset(offset int) {
	idx := sort.Search(len(v.lines), func(i int) bool {
		return v.lines[i].end > offset
	})
	if idx >= len(v.lines) {
		idx = len(v.lines) - 1
	}
	v.scrollOffset = idx - v.visibleLines()/2
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
	if max := v.maxScrollOffset(); v.scrollOffset > max {
		v.scrollOffset = max
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// ScrollOffset returns the current top line index.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// LineCount returns the number of display lines.
func (v *View) LineCount() int {
	return len(v.lines)
}

// View renders the document with highlights.
func (v *View) View() string {
	var b strings.Builder

	title := v.fileName
	if title == "" {
		title = "Document"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(maxInt(v.width-4, 10), 60)))
	b.WriteString("\n")

	if v.loading {
		b.WriteString(v.styles.Muted.Render("Loading document..."))
		b.WriteString("\n")
		return b.String()
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n")
		return b.String()
	}

	if banner := v.renderBanners(); banner != "" {
		b.WriteString(banner)
	}

	regions := v.sortedRegions()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(v.lines[i], regions))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d",
			v.scrollOffset+1,
			minInt(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
		b.WriteString("\n")
	}

	return b.String()
}

// renderBanners renders the degraded and not-found warnings.
func (v *View) renderBanners() string {
	var b strings.Builder
	if v.degraded {
		b.WriteString(v.styles.Warning.Render("Document did not finish rendering, matches may be incomplete"))
		b.WriteString("\n")
	}
	if n := len(v.notFound); n > 0 {
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Could not locate %d citation(s)", n)))
		b.WriteString("\n")
		for i, r := range v.notFound {
			if i == maxNotFoundShown {
				b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  ... and %d more", n-maxNotFoundShown)))
				b.WriteString("\n")
				break
			}
			line := "  ✗ " + truncateDisplay(r.Citation.Text, 60)
			if r.Suggestion != "" {
				line += " (nearest: " + truncateDisplay(r.Suggestion, 40) + ")"
			}
			b.WriteString(v.styles.Muted.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// maxNotFoundShown bounds the not-found banner height.
const maxNotFoundShown = 3

// paintedRegion is a region flattened for rendering, tagged with
// whether it belongs to the active group.
type paintedRegion struct {
	start  int
	end    int
	active bool
}

// sortedRegions flattens the navigation state's groups into paint
// ranges sorted by start offset.
func (v *View) sortedRegions() []paintedRegion {
	var out []paintedRegion
	for gi, g := range v.state.Ordered {
		active := gi == v.state.ActiveIndex
		for _, r := range g.Regions {
			out = append(out, paintedRegion{start: r.Start, end: r.End, active: active})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// renderLine paints the regions overlapping one line and truncates the
// result to the content width.
func (v *View) renderLine(ls lineSpan, regions []paintedRegion) string {
	contentWidth := v.width - 2
	if contentWidth < 20 {
		contentWidth = 20
	}

	var b strings.Builder
	remaining := contentWidth
	cur := ls.start

	emit := func(text string, style func(...string) string) {
		if text == "" || remaining <= 0 {
			return
		}
		if runewidth.StringWidth(text) > remaining {
			text = runewidth.Truncate(text, remaining, "")
		}
		remaining -= runewidth.StringWidth(text)
		b.WriteString(style(text))
	}

	for _, r := range regions {
		if r.end <= ls.start || r.start >= ls.end {
			continue
		}
		s, e := maxInt(r.start, cur), minInt(r.end, ls.end)
		if e <= s {
			continue
		}
		emit(ls.text[cur-ls.start:s-ls.start], v.styles.Normal.Render)
		if r.active {
			emit(ls.text[s-ls.start:e-ls.start], v.styles.ActiveHighlight.Render)
		} else {
			emit(ls.text[s-ls.start:e-ls.start], v.styles.Highlight.Render)
		}
		cur = e
	}
	emit(ls.text[cur-ls.start:], v.styles.Normal.Render)

	return b.String()
}

// visibleLines returns the number of document lines that fit.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, banners and scroll indicator.
	reserved := 4 + v.bannerLines()
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

func (v *View) bannerLines() int {
	n := 0
	if v.degraded {
		n++
	}
	if len(v.notFound) > 0 {
		n += 1 + minInt(len(v.notFound), maxNotFoundShown)
		if len(v.notFound) > maxNotFoundShown {
			n++
		}
	}
	return n
}

func (v *View) maxScrollOffset() int {
	max := len(v.lines) - v.visibleLines()
	if max < 0 {
		return 0
	}
	return max
}

// splitLines splits text into lines keeping byte offsets. The trailing
// newline of each line is excluded from its span.
func splitLines(text string) []lineSpan {
	var lines []lineSpan
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines = append(lines, lineSpan{start: start, end: i, text: text[start:i]})
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, lineSpan{start: start, end: len(text), text: text[start:]})
	}
	return lines
}

func truncateDisplay(s string, w int) string {
	if runewidth.StringWidth(s) <= w {
		return s
	}
	return runewidth.Truncate(s, w, "…")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
