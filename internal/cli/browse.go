package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/ledgerpulse/internal/cli/formatter"
	"github.com/alexanderramin/ledgerpulse/internal/domain"
)

type insightsLoadedMsg struct {
	insights []*domain.Insight
	names    map[string]string
	err      error
}

type evalLoadedMsg struct {
	content string
	err     error
}

type browseKeys struct {
	Up, Down, Open, Eval, Audio, Reload, Back, Quit key.Binding
}

func defaultBrowseKeys() browseKeys {
	return browseKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Eval:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "eval")),
		Audio:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "audio")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Back:   key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// browseModel lists stored insights and opens one in a scrollable detail
// pane.
type browseModel struct {
	ctx    context.Context
	app    *App
	teamID string

	insights []*domain.Insight
	names    map[string]string
	cursor   int
	loading  bool
	err      error

	detail    bool
	showAudio bool
	viewport  viewport.Model
	keys      browseKeys
	help      help.Model
	width     int
	height    int
}

func newBrowseModel(ctx context.Context, app *App, teamID string) *browseModel {
	return &browseModel{
		ctx:      ctx,
		app:      app,
		teamID:   teamID,
		loading:  true,
		viewport: viewport.New(80, 20),
		keys:     defaultBrowseKeys(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return m.load()
}

func (m *browseModel) load() tea.Cmd {
	ctx, app, teamID := m.ctx, m.app, m.teamID
	return func() tea.Msg {
		insights, err := app.Insights.ListInsights(ctx, teamID, 0)
		return insightsLoadedMsg{insights: insights, names: teamNames(ctx, app), err: err}
	}
}

func (m *browseModel) loadEval(id string) tea.Cmd {
	ctx, app := m.ctx, m.app
	return func() tea.Msg {
		report, err := app.Insights.Evaluate(ctx, id)
		if err != nil {
			return evalLoadedMsg{err: err}
		}
		return evalLoadedMsg{content: formatter.FormatEvalReport(report.Insight, report.Scores, report.Mean)}
	}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 1)
		m.help.Width = msg.Width
		return m, nil

	case insightsLoadedMsg:
		m.loading = false
		m.err = msg.err
		m.insights = msg.insights
		m.names = msg.names
		if m.cursor >= len(m.insights) {
			m.cursor = max(len(m.insights)-1, 0)
		}
		return m, nil

	case evalLoadedMsg:
		if msg.err != nil {
			m.viewport.SetContent(formatter.StyleRed.Render("Error: " + msg.err.Error()))
		} else {
			m.viewport.SetContent(msg.content)
		}
		m.viewport.GotoTop()
		m.detail = true
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.detail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m *browseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.insights)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Open):
		if ins := m.selected(); ins != nil {
			m.openDetail(ins)
		}
	case key.Matches(msg, m.keys.Eval):
		if ins := m.selected(); ins != nil {
			return m, m.loadEval(ins.ID)
		}
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.load()
	}
	return m, nil
}

func (m *browseModel) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.detail = false
		return m, nil
	case key.Matches(msg, m.keys.Audio):
		m.showAudio = !m.showAudio
		if ins := m.selected(); ins != nil {
			m.openDetail(ins)
		}
		return m, nil
	case key.Matches(msg, m.keys.Eval):
		if ins := m.selected(); ins != nil {
			return m, m.loadEval(ins.ID)
		}
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *browseModel) selected() *domain.Insight {
	if m.cursor < 0 || m.cursor >= len(m.insights) {
		return nil
	}
	return m.insights[m.cursor]
}

func (m *browseModel) openDetail(ins *domain.Insight) {
	m.viewport.SetContent(formatter.FormatInsight(formatter.InsightView{
		Insight:   ins,
		TeamName:  m.names[ins.TeamID],
		ShowAudio: m.showAudio,
		Now:       m.app.now(),
	}))
	m.viewport.GotoTop()
	m.detail = true
}

func (m *browseModel) View() string {
	if m.detail {
		return m.viewport.View() + "\n" + m.help.ShortHelpView([]key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Eval, m.keys.Audio, m.keys.Back, m.keys.Quit,
		})
	}

	var b strings.Builder
	b.WriteString(formatter.Header("Insights"))
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(formatter.Dim("Loading insights...") + "\n")
	case m.err != nil:
		b.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case len(m.insights) == 0:
		b.WriteString(formatter.Dim("No insights yet. Run \"ledgerpulse generate\".") + "\n")
	default:
		for i, ins := range m.insights {
			b.WriteString(m.renderRow(i, ins))
		}
	}

	b.WriteString("\n")
	b.WriteString(m.help.ShortHelpView([]key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Open, m.keys.Eval, m.keys.Reload, m.keys.Quit,
	}))
	return b.String()
}

func (m *browseModel) renderRow(i int, ins *domain.Insight) string {
	cursor := "  "
	titleStyle := formatter.StyleFg
	if i == m.cursor {
		cursor = formatter.StyleGreen.Render("▸ ")
		titleStyle = formatter.StyleBold
	}
	team := m.names[ins.TeamID]
	if team == "" {
		team = ins.TeamID
	}
	return fmt.Sprintf("%s%s  %s  %s  %s\n",
		cursor,
		formatter.PadRight(formatter.Truncate(team, 16), 16),
		formatter.PadRight(ins.PeriodLabel, 18),
		titleStyle.Render(formatter.Truncate(ins.Content.Title, max(m.width-46, 20))),
		formatter.SourceBadge(ins.UsedFallback),
	)
}

func newBrowseCmd(app *App) *cobra.Command {
	var teamID string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse stored insights interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("browse needs an interactive terminal; use \"ledgerpulse list\" instead")
			}
			ctx := cmd.Context()
			p := tea.NewProgram(newBrowseModel(ctx, app, teamID), tea.WithAltScreen(), tea.WithContext(ctx))
			_, err := p.Run()
			return err
		},
	}

	cmd.Flags().StringVarP(&teamID, "team", "t", "", "Only this team")
	return cmd
}
