package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rotisserie/eris"

	"whichcountry/internal/geoip"
)

const lookupLabel = "Looking up your location..."

// ErrInterrupted is returned when the user aborts a lookup with ctrl+c.
var ErrInterrupted = eris.New("lookup interrupted")

// LookupFunc performs the geolocation request.
type LookupFunc func(ctx context.Context) (geoip.Result, error)

type lookupDoneMsg struct {
	res geoip.Result
	err error
}

type lookupModel struct {
	ctx     context.Context
	cancel  context.CancelFunc
	fn      LookupFunc
	spinner spinner.Model
	dim     func(...string) string

	done bool
	res  geoip.Result
	err  error
}

func newLookupModel(ctx context.Context, cancel context.CancelFunc, fn LookupFunc, st Styles) lookupModel {
	return lookupModel{
		ctx:     ctx,
		cancel:  cancel,
		fn:      fn,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(st.Title)),
		dim:     st.Dim.Render,
	}
}

func (m lookupModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.run)
}

func (m lookupModel) run() tea.Msg {
	res, err := m.fn(m.ctx)
	return lookupDoneMsg{res: res, err: err}
}

func (m lookupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDoneMsg:
		if !m.done {
			m.done, m.res, m.err = true, msg.res, msg.err
		}
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.cancel()
			m.done, m.err = true, ErrInterrupted
			return m, tea.Quit
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m lookupModel) View() string {
	if !m.done {
		return m.spinner.View() + " " + m.dim(lookupLabel) + "\n"
	}
	if m.err != nil {
		return lookupLabel + " error\n"
	}
	return lookupLabel + " done.\n"
}

// RunLookup runs fn while showing progress on out: an animated spinner when
// out is a terminal, a single plain line otherwise.
func RunLookup(ctx context.Context, out io.Writer, st Styles, fn LookupFunc) (geoip.Result, error) {
	if !IsTerminal(out) {
		fmt.Fprint(out, lookupLabel+" ")
		res, err := fn(ctx)
		if err != nil {
			fmt.Fprintln(out, "error")
			return geoip.Result{}, err
		}
		fmt.Fprintln(out, "done.")
		return res, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	p := tea.NewProgram(newLookupModel(ctx, cancel, fn, st), tea.WithOutput(out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !eris.Is(err, tea.ErrProgramKilled) {
		return geoip.Result{}, eris.Wrap(err, "tui: lookup spinner")
	}
	m, ok := final.(lookupModel)
	if !ok || !m.done {
		return geoip.Result{}, ErrInterrupted
	}
	return m.res, m.err
}
