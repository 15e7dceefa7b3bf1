// Package tui implements the interactive transaction list for one store.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/Veraticus/vendor-dash/internal/common"
	"github.com/Veraticus/vendor-dash/internal/model"
	"github.com/Veraticus/vendor-dash/internal/query"
	"github.com/Veraticus/vendor-dash/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// State is the fetch state of the list screen.
type State int

// States. Loading moves to Loaded or Error; both go back to Loading on refresh.
const (
	StateLoading State = iota
	StateLoaded
	StateError
)

// inputField is the criterion currently being edited, if any.
type inputField int

const (
	inputNone inputField = iota
	inputStore
	inputManager
	inputDate
)

const noticeTTL = 4 * time.Second

// Model holds the list screen state.
type Model struct {
	ctx          context.Context
	lastErr      error
	cancel       context.CancelFunc
	list         *query.ListState
	theme        themes.Theme
	notice       string
	config       Config
	transactions []model.Transaction
	result       query.Result
	keymap       KeyMap
	help         help.Model
	input        textinput.Model
	spinner      spinner.Model
	table        table.Model
	gen          int
	noticeID     int
	editing      inputField
	state        State
	width        int
	height       int
	noticeIsErr  bool
	hasData      bool
	showHelp     bool
	quitting     bool
}

// newModel creates the model. Fetches run under ctx; cancel is called on quit.
func newModel(ctx context.Context, cancel context.CancelFunc, cfg Config) Model {
	criteria := cfg.Criteria
	criteria.Location = cfg.Location

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cfg.Theme.Title

	in := textinput.New()
	in.CharLimit = 64
	in.PromptStyle = cfg.Theme.Prompt

	tbl := table.New(
		table.WithColumns(columns(cfg.Width)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(cfg.Height)),
	)
	styles := table.DefaultStyles()
	styles.Header = cfg.Theme.Header
	styles.Selected = cfg.Theme.Selected
	tbl.SetStyles(styles)

	m := Model{
		ctx:     ctx,
		cancel:  cancel,
		config:  cfg,
		theme:   cfg.Theme,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		list:    query.NewListState(criteria),
		spinner: sp,
		input:   in,
		table:   tbl,
		width:   cfg.Width,
		height:  cfg.Height,
		state:   StateLoading,
		gen:     1,
	}
	m.refresh()
	return m
}

// Init starts the first fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing != inputNone {
			return m.handleInput(msg)
		}
		return m.handleKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(tableHeight(msg.Height))
		m.help.Width = msg.Width
		return m, nil

	case transactionsLoadedMsg:
		return m.handleLoaded(msg)

	case exportDoneMsg:
		if msg.err != nil {
			cmd := m.setNotice(common.UserMessage(msg.err), true)
			return m, cmd
		}
		cmd := m.setNotice("Exported "+pluralRows(msg.rows)+" to "+msg.path, false)
		return m, cmd

	case clearNoticeMsg:
		if msg.id == m.noticeID {
			m.notice = ""
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleLoaded applies a fetch result unless a newer fetch superseded it.
func (m Model) handleLoaded(msg transactionsLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.gen || m.quitting {
		return m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.state = StateError
		m.lastErr = msg.err
		cmd := m.setNotice(common.UserMessage(msg.err), true)
		return m, cmd
	}

	m.state = StateLoaded
	m.lastErr = nil
	m.hasData = true
	m.transactions = msg.transactions
	m.list.SetPage(1)
	m.refresh()
	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Refresh):
		m.gen++
		m.state = StateLoading
		return m, tea.Batch(m.spinner.Tick, m.fetch())

	case key.Matches(msg, m.keymap.SearchStore):
		return m.startInput(inputStore, "Store: ", m.list.Criteria.SearchStore)

	case key.Matches(msg, m.keymap.SearchManager):
		return m.startInput(inputManager, "Manager: ", m.list.Criteria.SearchManager)

	case key.Matches(msg, m.keymap.Date):
		return m.startInput(inputDate, "Date (YYYY-MM-DD or from..to): ", m.list.Criteria.Date.String())

	case key.Matches(msg, m.keymap.Sort):
		m.list.Update(func(c *query.Criteria) { c.Sort = c.Sort.Next() })
		m.refresh()

	case key.Matches(msg, m.keymap.PageSize):
		m.list.Update(func(c *query.Criteria) { c.PageSize = query.NextPageSize(c.PageSize) })
		m.refresh()

	case key.Matches(msg, m.keymap.PrevPage):
		if m.list.Prev() {
			m.refresh()
		}

	case key.Matches(msg, m.keymap.NextPage):
		if m.list.Next(m.result.Page.TotalPages) {
			m.refresh()
		}

	case key.Matches(msg, m.keymap.Export):
		if len(m.result.Filtered) == 0 {
			cmd := m.setNotice("Nothing to export", true)
			return m, cmd
		}
		return m, m.exportCSV(m.result.Filtered)

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down):
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) startInput(field inputField, prompt, value string) (tea.Model, tea.Cmd) {
	m.editing = field
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) handleInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Confirm):
		value := m.input.Value()
		field := m.editing
		m.editing = inputNone
		m.input.Blur()

		m.list.Update(func(c *query.Criteria) {
			switch field {
			case inputStore:
				c.SearchStore = value
			case inputManager:
				c.SearchManager = value
			case inputDate:
				c.Date = query.ParseDateFilter(value)
			}
		})
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keymap.Cancel):
		m.editing = inputNone
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-runs the query pipeline over the held transactions.
func (m *Model) refresh() {
	m.result = m.list.Run(m.transactions)
	m.table.SetRows(tableRows(m.result.Page.Items, m.config.Location))
	m.table.GotoTop()
}

func (m *Model) setNotice(text string, isErr bool) tea.Cmd {
	m.noticeID++
	m.notice = text
	m.noticeIsErr = isErr
	id := m.noticeID
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{id: id}
	})
}

// State returns the current fetch state.
func (m Model) State() State {
	return m.state
}
