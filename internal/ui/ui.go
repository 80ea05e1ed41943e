package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jaylex32/syncra/internal/models"
	"github.com/jaylex32/syncra/internal/sources"
	"github.com/jaylex32/syncra/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ConfirmView ViewState = iota
	ConvertView
	ResultView
)

// Converter runs one playlist conversion, reporting progress on the channel.
type Converter interface {
	Convert(ctx context.Context, src sources.Source, updates chan<- tasks.ProgressUpdate) (models.ConversionResult, error)
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	src          sources.Source
	converter    Converter
	width        int
	progressBar  progress.Model
	progressChan chan tasks.ProgressUpdate
	done         chan conversionCompleteMsg
	progress     tasks.ProgressUpdate
	result       *models.ConversionResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type conversionCompleteMsg struct {
	result models.ConversionResult
	err    error
}

// NewModel creates a new TUI model for converting one source playlist.
func NewModel(ctx context.Context, src sources.Source, converter Converter) *Model {
	return &Model{
		ctx:         ctx,
		view:        ConfirmView,
		src:         src,
		converter:   converter,
		progressBar: progress.New(progress.WithDefaultGradient()),
		help:        help.New(),
		keys:        newKeyMap(),
	}
}

// Init implements tea.Model; the conversion waits for confirmation.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ConvertView, ResultView:
			if key.Matches(msg, m.keys.quit) {
				return m, tea.Quit
			}
		}
		return m, nil

	case progressUpdateMsg:
		update := tasks.ProgressUpdate(msg)
		if update.Phase == tasks.PhaseFailed {
			// Failure updates carry no percent; hold the bar where it was.
			update.Percent = m.progress.Percent
		}
		m.progress = update
		return m, m.waitForProgress()

	case conversionCompleteMsg:
		m.result = &msg.result
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case ConfirmView:
		return m.renderConfirm()
	case ConvertView:
		return m.renderConvert()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.no), key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		m.view = ConvertView
		return m, m.startConversion()
	}
	return m, nil
}

func (m *Model) startConversion() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan conversionCompleteMsg, 1)

	go func(updates chan tasks.ProgressUpdate) {
		result, err := m.converter.Convert(m.ctx, m.src, updates)
		done <- conversionCompleteMsg{result: result, err: err}
		close(updates)
	}(m.progressChan)

	m.done = done
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	updates := m.progressChan
	done := m.done
	return func() tea.Msg {
		if updates == nil {
			return nil
		}
		update, ok := <-updates
		if !ok {
			return <-done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Import '%s' into Plex?", m.src.Raw))
	info := fmt.Sprintf("\nSource: %s\n", m.src.Kind)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderConvert() string {
	title := styles.title.Render("Importing Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.PhaseFetching:
		phase = "Fetching source playlist..."
	case tasks.PhaseNormalizing:
		phase = "Normalizing tracks..."
	case tasks.PhaseResolving:
		phase = fmt.Sprintf("Matching tracks (%d/%d)", m.progress.Completed, m.progress.Total)
	case tasks.PhaseMaterializing:
		phase = "Creating playlist..."
	default:
		phase = "Working..."
	}

	bar := m.progressBar.ViewAs(float64(m.progress.Percent) / 100)
	return fmt.Sprintf("%s\n\n%s\n%s\n%s", title, phase, bar, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s",
			styles.err.Render(fmt.Sprintf("Import failed: %v", m.err)), helpView)
	}
	if m.result == nil || m.result.Outcome == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	out := m.result.Outcome
	title := styles.ok.Render("✓ Import Complete!")
	info := fmt.Sprintf("\nPlaylist: %s\nMatched: %d/%d tracks\n", out.PlaylistName, out.MatchedCount, out.TotalCount)

	var missed string
	if len(out.Unmatched) > 0 {
		missed = styles.warn.Render(fmt.Sprintf("\nUnmatched %d tracks:", len(out.Unmatched)))
		for _, track := range out.Unmatched {
			missed += fmt.Sprintf("\n  • %s", track.String())
		}
		missed += "\n"
	}

	return fmt.Sprintf("%s%s%s\n%s", title, info, missed, helpView)
}
