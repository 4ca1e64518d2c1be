package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/ganttkit/internal/cli/formatter"
	"github.com/alexanderramin/ganttkit/internal/contract"
	"github.com/alexanderramin/ganttkit/internal/controller"
	"github.com/alexanderramin/ganttkit/internal/domain"
	"github.com/alexanderramin/ganttkit/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// nudge is how far one key press drags the selected bar.
const nudge = time.Hour

// chromeLines is the height taken by everything but the row list.
const chromeLines = 8

type pageKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Expand   key.Binding
	Click    key.Binding
	Later    key.Binding
	Earlier  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Scale    key.Binding
	Detail   key.Binding
	ColorBy  key.Binding
	Relative key.Binding
	Arrows   key.Binding
	Overlay  key.Binding
	Legend   key.Binding
	Auto     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultPageKeys() pageKeyMap {
	return pageKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev bar")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next bar")),
		Expand:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand")),
		Click:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "select bar")),
		Later:    key.NewBinding(key.WithKeys(">"), key.WithHelp(">", "drag +1h")),
		Earlier:  key.NewBinding(key.WithKeys("<"), key.WithHelp("<", "drag -1h")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
		Scale:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "time scale")),
		Detail:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "detail level")),
		ColorBy:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "color by")),
		Relative: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "relative time")),
		Arrows:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "arrows")),
		Overlay:  key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "overlay")),
		Legend:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "legend")),
		Auto:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "auto time scale")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "save & quit")),
	}
}

func (k pageKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Expand, k.Later, k.Earlier, k.Help, k.Quit}
}

func (k pageKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Expand},
		{k.Click, k.Later, k.Earlier, k.ZoomIn, k.ZoomOut},
		{k.Scale, k.Detail, k.ColorBy, k.Auto},
		{k.Relative, k.Arrows, k.Overlay, k.Legend},
		{k.Help, k.Quit},
	}
}

type propsMsg struct {
	props  *contract.ChartProps
	status string
}

type detailMsg struct {
	props *contract.ChartProps
	level domain.DetailLevel
}

type errMsg struct{ err error }

type closedMsg struct{ err error }

// pageModel is one page session shown in the terminal. All controller calls
// go through the page service, one message at a time.
type pageModel struct {
	ctx   context.Context
	pages service.PageService
	id    string

	props   contract.ChartProps
	visible []formatter.VisibleRow
	cursor  int
	bar     int
	top     int

	// detail is the last detail level picked here; the props do not carry it.
	detail int

	width, height int
	keys          pageKeyMap
	help          help.Model
	status        string
	err           error
	closed        bool
	closeErr      error
}

func newPageModel(ctx context.Context, pages service.PageService, id string, props contract.ChartProps) pageModel {
	m := pageModel{
		ctx:   ctx,
		pages: pages,
		id:    id,
		keys:  defaultPageKeys(),
		help:  help.New(),
	}
	m.setProps(props)
	return m
}

func (m *pageModel) setProps(p contract.ChartProps) {
	var selected int
	if m.cursor < len(m.visible) {
		selected = m.visible[m.cursor].Row.ID
	}
	m.props = p
	m.visible = formatter.VisibleRows(p.Data.Rows, p.RowStatus, false)

	m.cursor = min(m.cursor, max(len(m.visible)-1, 0))
	for i, v := range m.visible {
		if v.Row.ID == selected {
			m.cursor = i
			break
		}
	}
	m.clampBar()
	m.scroll()
}

func (m *pageModel) current() *domain.Row {
	if m.cursor >= len(m.visible) {
		return nil
	}
	return m.visible[m.cursor].Row
}

func (m *pageModel) clampBar() {
	r := m.current()
	if r == nil || len(r.Bars) == 0 {
		m.bar = 0
		return
	}
	m.bar = min(max(m.bar, 0), len(r.Bars)-1)
}

func (m *pageModel) bodyHeight() int {
	if m.height <= chromeLines {
		return len(m.visible)
	}
	return m.height - chromeLines
}

func (m *pageModel) scroll() {
	h := max(m.bodyHeight(), 1)
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if m.cursor >= m.top+h {
		m.top = m.cursor - h + 1
	}
	m.top = max(0, min(m.top, max(len(m.visible)-h, 0)))
}

func (m pageModel) Init() tea.Cmd { return nil }

// call runs fn against the service and reports the new props.
func (m pageModel) call(status string, fn func() (*contract.ChartProps, error)) tea.Cmd {
	return func() tea.Msg {
		p, err := fn()
		if err != nil {
			return errMsg{err}
		}
		return propsMsg{props: p, status: status}
	}
}

func (m pageModel) toggle(t controller.Toggle, label string) tea.Cmd {
	return m.call(label+" toggled", func() (*contract.ChartProps, error) {
		return m.pages.Toggle(m.ctx, m.id, t)
	})
}

func (m pageModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scroll()
		return m, nil

	case propsMsg:
		m.setProps(*msg.props)
		m.status, m.err = msg.status, nil
		return m, nil

	case detailMsg:
		m.setProps(*msg.props)
		m.detail = msg.level.ID
		m.status, m.err = fmt.Sprintf("detail level %s", msg.level.Name), nil
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case closedMsg:
		m.closed, m.closeErr = true, msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.closed {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m pageModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, func() tea.Msg { return closedMsg{err: m.pages.Close(m.ctx, m.id)} }

	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
			m.bar = 0
			m.scroll()
		}

	case key.Matches(msg, k.Down):
		if m.cursor < len(m.visible)-1 {
			m.cursor++
			m.bar = 0
			m.scroll()
		}

	case key.Matches(msg, k.Left):
		m.bar--
		m.clampBar()

	case key.Matches(msg, k.Right):
		m.bar++
		m.clampBar()

	case key.Matches(msg, k.Expand):
		return m, m.expand()

	case key.Matches(msg, k.Click):
		return m, m.click()

	case key.Matches(msg, k.Later):
		return m, m.drag(nudge)

	case key.Matches(msg, k.Earlier):
		return m, m.drag(-nudge)

	case key.Matches(msg, k.ZoomIn), key.Matches(msg, k.ZoomOut):
		step := 1
		if key.Matches(msg, k.ZoomOut) {
			step = -1
		}
		pos := m.props.ScalePosition + step
		return m, m.call("zoom set", func() (*contract.ChartProps, error) {
			return m.pages.SetScale(m.ctx, m.id, contract.ScaleRequest{Position: pos})
		})

	case key.Matches(msg, k.Scale):
		return m, m.nextTimeScale()

	case key.Matches(msg, k.Detail):
		return m, m.nextDetailLevel()

	case key.Matches(msg, k.ColorBy):
		return m, m.nextColorBy()

	case key.Matches(msg, k.Relative):
		return m, m.toggle(controller.ToggleRelativeTime, "relative time")

	case key.Matches(msg, k.Arrows):
		return m, m.toggle(controller.ToggleArrows, "arrows")

	case key.Matches(msg, k.Overlay):
		return m, m.toggle(controller.ToggleOverlay, "overlay")

	case key.Matches(msg, k.Legend):
		return m, m.toggle(controller.ToggleLegend, "legend")

	case key.Matches(msg, k.Auto):
		return m, m.toggle(controller.ToggleAutoTimeScale, "auto time scale")
	}
	return m, nil
}

func (m pageModel) expand() tea.Cmd {
	if m.cursor >= len(m.visible) || !m.visible[m.cursor].HasChildren() {
		return nil
	}
	row := m.visible[m.cursor]
	status := m.props.RowStatus.Clone()
	if status == nil {
		status = domain.RowStatus{}
	}
	status[row.Row.ID] = domain.RowState{IsExpanded: !row.Expanded}
	return m.call("", func() (*contract.ChartProps, error) {
		if err := m.pages.UpdateRowStatus(m.ctx, m.id, status); err != nil {
			return nil, err
		}
		resp, err := m.pages.Get(m.ctx, m.id)
		if err != nil {
			return nil, err
		}
		return &resp.Props, nil
	})
}

func (m pageModel) selectedBar() (domain.Bar, bool) {
	r := m.current()
	if r == nil || m.bar >= len(r.Bars) {
		return domain.Bar{}, false
	}
	return r.Bars[m.bar], true
}

func (m pageModel) click() tea.Cmd {
	r := m.current()
	bar, ok := m.selectedBar()
	if !ok {
		return nil
	}
	return m.call("", func() (*contract.ChartProps, error) {
		return m.pages.Click(m.ctx, m.id, contract.ClickRequest{Kind: contract.SelectBar, RowID: r.ID, BarID: bar.ID})
	})
}

func (m pageModel) drag(d time.Duration) tea.Cmd {
	bar, ok := m.selectedBar()
	if !ok {
		return nil
	}
	req, err := dropRequest(m.props.Data.Rows, bar.ID, 0, d)
	if err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return func() tea.Msg {
		resp, err := m.pages.Drop(m.ctx, m.id, req)
		if err != nil {
			return errMsg{err}
		}
		return propsMsg{props: resp.Props, status: formatter.FormatDropResult(resp)}
	}
}

func (m pageModel) nextTimeScale() tea.Cmd {
	scales := m.props.Options.TimeScales
	if len(scales) == 0 {
		return nil
	}
	if m.props.AutoTimeScale {
		return func() tea.Msg { return errMsg{fmt.Errorf("time scale is automatic; press t first")} }
	}
	next := scales[0]
	for i, ts := range scales {
		if ts.Name == m.props.TimeScale.Name {
			next = scales[(i+1)%len(scales)]
		}
	}
	return m.call("time scale "+next.DisplayName, func() (*contract.ChartProps, error) {
		return m.pages.SelectTimeScale(m.ctx, m.id, contract.TimeScaleRequest{Name: next.Name})
	})
}

func (m pageModel) nextDetailLevel() tea.Cmd {
	levels := m.props.Options.DetailLevels
	if len(levels) == 0 {
		return nil
	}
	next := levels[0]
	for i, l := range levels {
		if l.ID == m.detail {
			next = levels[(i+1)%len(levels)]
		}
	}
	return func() tea.Msg {
		p, err := m.pages.SelectDetailLevel(m.ctx, m.id, contract.DetailLevelRequest{ID: next.ID})
		if err != nil {
			return errMsg{err}
		}
		return detailMsg{props: p, level: next}
	}
}

func (m pageModel) nextColorBy() tea.Cmd {
	options := m.props.Options.ColorBy
	if len(options) == 0 {
		return nil
	}
	next := options[0]
	for i, c := range options {
		if c.Value == m.props.ColorBy {
			next = options[(i+1)%len(options)]
		}
	}
	return m.call("color by "+next.Name, func() (*contract.ChartProps, error) {
		return m.pages.SelectColorBy(m.ctx, m.id, contract.ColorByRequest{Value: next.Value})
	})
}

func (m pageModel) View() string {
	if m.closed {
		return ""
	}
	var b strings.Builder
	b.WriteString(formatter.ChartSummary(m.props) + "\n\n")

	if len(m.visible) == 0 {
		b.WriteString(formatter.Dim("No rows.") + "\n")
	} else {
		end := min(m.top+max(m.bodyHeight(), 1), len(m.visible))
		lines := strings.Split(strings.TrimSuffix(formatter.RenderTree(formatter.TreeItems(m.visible[m.top:end])), "\n"), "\n")
		for i, line := range lines {
			if m.top+i == m.cursor {
				b.WriteString(formatter.StyleHeader.Render("› ") + line + "\n")
			} else {
				b.WriteString("  " + line + "\n")
			}
		}
	}

	b.WriteString("\n" + m.barLine() + "\n")
	switch {
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render(m.err.Error()) + "\n")
	case m.props.Selection != nil && m.props.Selection.Text != "":
		b.WriteString(formatter.Dim("selected: ") + m.props.Selection.Text + "\n")
	case m.status != "":
		b.WriteString(formatter.Dim(m.status) + "\n")
	default:
		b.WriteString("\n")
	}
	if m.props.ShowChartLegend && len(m.props.Legend) > 0 {
		b.WriteString(formatter.FormatLegend(m.props.Legend))
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m pageModel) barLine() string {
	r := m.current()
	bar, ok := m.selectedBar()
	if !ok {
		return formatter.Dim("no bars on this row")
	}
	text := bar.Text
	if text == "" {
		text = string(bar.BarEntityType)
	}
	line := fmt.Sprintf("bar %d/%d %s %s  %s → %s",
		m.bar+1, len(r.Bars),
		formatter.Swatch(bar.BarStyle.BackgroundColor), text,
		bar.StartDate.UTC().Format("2006-01-02 15:04"),
		bar.EndDate.UTC().Format("2006-01-02 15:04"),
	)
	if bar.IsDraggable {
		line += formatter.StyleGreen.Render("  draggable")
	}
	return line
}
