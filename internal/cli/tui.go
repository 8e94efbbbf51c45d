package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/myseum/pkg/errors"
	"github.com/matzehuels/myseum/pkg/gallery"
	"github.com/matzehuels/myseum/pkg/interaction"
	"github.com/matzehuels/myseum/pkg/placement"
	"github.com/matzehuels/myseum/pkg/session"
	"github.com/matzehuels/myseum/pkg/wall"
)

// editCommand creates the interactive wall editor command.
func (c *CLI) editCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <wall-id>",
		Short: "Arrange a wall interactively",
		Long: `Arrange a wall interactively.

Select an item with tab, press m to move it or r to resize it from its
bottom-right corner (R: top-left), nudge it with the arrow keys and press
enter to commit. Invalid positions are drawn in red together with the
items blocking them; they cannot be committed. Every commit is saved in
the background; if a save fails the wall reverts to its last saved state.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeIDs(false),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := c.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			m, err := newEditor(cmd.Context(), svc, local(), args[0])
			if err != nil {
				return err
			}
			final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if ed, ok := final.(editor); ok && ed.err != nil {
				return ed.err
			}
			return nil
		},
	}
}

// =============================================================================
// Editor model
// =============================================================================

// editOp is a committed change waiting to be saved.
type editOp struct {
	kind   placement.Mode // Move, Resize, or 0 for removal
	itemID string
	edge   placement.Edge
	delta  placement.Delta
}

// savedMsg reports the outcome of an editOp.
type savedMsg struct {
	wall *wall.Wall
	err  error
}

// editor is the bubbletea model of `myseum edit`. Interactions run on a
// local engine for immediate feedback; committed changes are replayed
// through the gallery service one at a time.
type editor struct {
	ctx  context.Context
	svc  *gallery.Service
	sess *session.Session

	saved  *wall.Wall // last persisted state
	ctrl   *interaction.Controller[wall.Artwork]
	result interaction.Result[wall.Artwork]
	cursor int

	queue   []editOp
	saving  bool
	message string
	failed  bool
	err     error
}

func newEditor(ctx context.Context, svc *gallery.Service, sess *session.Session, wallID string) (editor, error) {
	w, err := svc.GetWall(ctx, sess, wallID)
	if err != nil {
		return editor{}, err
	}
	if err := session.RequireEdit(sess, w); err != nil {
		return editor{}, err
	}
	m := editor{ctx: ctx, svc: svc, sess: sess}
	if err := m.reset(w); err != nil {
		return editor{}, err
	}
	return m, nil
}

// reset rebuilds the local engine from w.
func (m *editor) reset(w *wall.Wall) error {
	eng, err := w.Engine(placement.WithLogger(m.svc.Logger))
	if err != nil {
		return err
	}
	m.saved = w
	m.ctrl = interaction.NewController(eng)
	m.result, _ = m.ctrl.Dispatch(interaction.Cancel{})
	if n := len(m.items()); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	return nil
}

func (m editor) items() []wall.Item { return m.result.Arrangement.Items() }

func (m editor) selected() (wall.Item, bool) {
	items := m.items()
	if len(items) == 0 {
		return wall.Item{}, false
	}
	return items[m.cursor], true
}

func (m editor) active() bool { return m.result.State != placement.Idle }

func (m editor) Init() tea.Cmd { return nil }

func (m editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case savedMsg:
		return m.handleSaved(msg)
	case tea.KeyMsg:
		key := msg.String()
		if key == "ctrl+c" {
			return m, tea.Quit
		}
		if m.active() {
			return m.handleInteractionKey(key)
		}
		return m.handleBrowseKey(key)
	}
	return m, nil
}

func (m editor) handleBrowseKey(key string) (tea.Model, tea.Cmd) {
	n := len(m.items())
	item, ok := m.selected()
	switch key {
	case "q", "esc":
		if m.saving || len(m.queue) > 0 {
			m.message = "saving, try again in a moment"
			return m, nil
		}
		return m, tea.Quit
	case "tab", "n":
		if n > 0 {
			m.cursor = (m.cursor + 1) % n
		}
	case "shift+tab", "p":
		if n > 0 {
			m.cursor = (m.cursor + n - 1) % n
		}
	case "m":
		if ok {
			return m.dispatch(interaction.Begin{ItemID: item.ID, Mode: placement.Move})
		}
	case "r", "R":
		if ok {
			edge := placement.BottomRight
			if key == "R" {
				edge = placement.TopLeft
			}
			return m.dispatch(interaction.Begin{ItemID: item.ID, Mode: placement.Resize, Edge: edge})
		}
	case "x", "delete":
		if ok {
			if _, err := m.ctrl.Engine().RemoveItem(item.ID); err != nil {
				m.fail(err)
				return m, nil
			}
			m.result, _ = m.ctrl.Dispatch(interaction.Cancel{})
			if m.cursor >= len(m.items()) {
				m.cursor = max(len(m.items())-1, 0)
			}
			m.message = fmt.Sprintf("removed %s", titleOf(item))
			return m.enqueue(editOp{itemID: item.ID})
		}
	}
	return m, nil
}

func (m editor) handleInteractionKey(key string) (tea.Model, tea.Cmd) {
	intent, ok := interaction.KeyIntent(key)
	if !ok {
		return m, nil
	}
	if _, isCommit := intent.(interaction.Commit); !isCommit {
		return m.dispatch(intent)
	}

	id, mode, edge, _ := m.ctrl.Engine().Active()
	op := editOp{kind: mode, itemID: id, edge: edge, delta: m.ctrl.Offset()}
	next, _ := m.dispatch(intent)
	m = next.(editor)
	if m.failed {
		return m, nil
	}
	if op.delta == (placement.Delta{}) {
		return m, nil
	}
	m.message = fmt.Sprintf("committed %s of %s", mode, id)
	return m.enqueue(op)
}

// dispatch applies intent to the local engine and records the outcome.
func (m editor) dispatch(intent interaction.Intent) (tea.Model, tea.Cmd) {
	res, err := m.ctrl.Dispatch(intent)
	m.result = res
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.failed = false
	m.message = ""
	return m, nil
}

func (m *editor) fail(err error) {
	m.failed = true
	m.message = apperrors.UserMessage(err)
}

// enqueue queues op for saving and starts the next save if none is
// running. Saves run in order so the store sees the same sequence of
// changes as the local engine.
func (m editor) enqueue(op editOp) (tea.Model, tea.Cmd) {
	m.queue = append(m.queue, op)
	return m.next()
}

func (m editor) next() (tea.Model, tea.Cmd) {
	if m.saving || len(m.queue) == 0 {
		return m, nil
	}
	op := m.queue[0]
	m.queue = m.queue[1:]
	m.saving = true
	return m, m.save(op)
}

func (m editor) save(op editOp) tea.Cmd {
	ctx, svc, sess, wallID := m.ctx, m.svc, m.sess, m.saved.ID
	return func() tea.Msg {
		var (
			w   *wall.Wall
			err error
		)
		switch op.kind {
		case placement.Move:
			w, err = svc.MoveItem(ctx, sess, wallID, op.itemID, op.delta)
		case placement.Resize:
			w, err = svc.ResizeItem(ctx, sess, wallID, op.itemID, op.edge, op.delta)
		default:
			w, err = svc.RemoveItem(ctx, sess, wallID, op.itemID)
		}
		return savedMsg{wall: w, err: err}
	}
}

func (m editor) handleSaved(msg savedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err == nil {
		m.saved = msg.wall
		return m.next()
	}

	// Roll back to the last saved state; queued changes were built on the
	// failed one and are dropped with it.
	m.queue = nil
	saved := m.saved
	if w, err := m.svc.GetWall(m.ctx, m.sess, saved.ID); err == nil {
		saved = w
	}
	if err := m.reset(saved); err != nil {
		m.err = err
		return m, tea.Quit
	}
	m.fail(msg.err)
	m.message = "save failed, reverted: " + m.message
	return m, nil
}

// =============================================================================
// View
// =============================================================================

var (
	editorHelpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	editorStateStyle = map[placement.State]lipgloss.Style{
		placement.Idle:      lipgloss.NewStyle().Foreground(colorGray),
		placement.Proposing: lipgloss.NewStyle().Foreground(colorYellow),
		placement.Valid:     lipgloss.NewStyle().Foreground(colorGreen).Bold(true),
		placement.Invalid:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	}
)

func (m editor) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.saved.Name))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s  ", m.result.GridSize)))
	b.WriteString(editorStateStyle[m.result.State].Render(m.result.State.String()))
	if m.saving || len(m.queue) > 0 {
		b.WriteString(StyleDim.Render("  saving…"))
	}
	b.WriteString("\n\n")

	sel, _ := m.selected()
	view := gridView{Selected: sel.ID, Conflicts: m.result.ConflictIDs()}
	if m.active() {
		cand := m.result.Candidate
		view.Candidate = &cand
		view.Valid = m.result.State == placement.Valid
	}
	b.WriteString(renderGrid(m.items(), m.result.GridSize, view))
	b.WriteString("\n\n")
	if len(m.items()) > 0 {
		b.WriteString(renderLegend(m.items(), sel.ID))
		b.WriteString("\n\n")
	}

	if m.active() {
		c := m.result.Candidate
		line := fmt.Sprintf("candidate %s %s", c.Position, c.Size)
		if m.result.OutOfBounds {
			line += StyleError.Render("  out of bounds")
		}
		if ids := m.result.ConflictIDs(); len(ids) > 0 {
			line += StyleError.Render("  overlaps " + strings.Join(ids, ", "))
		}
		if m.result.GrowsTo > 0 {
			line += StyleWarning.Render(fmt.Sprintf("  grows wall to %d", m.result.GrowsTo))
		}
		b.WriteString(line + "\n")
	}
	if m.message != "" {
		style := StyleSuccess
		if m.failed {
			style = StyleError
		}
		b.WriteString(style.Render(m.message) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(editorHelpStyle.Render(m.help()))
	return b.String()
}

func (m editor) help() string {
	if !m.active() {
		return "tab/n next  p prev  m move  r resize  R resize top-left  x remove  q quit"
	}
	var parts []string
	for _, kb := range interaction.KeyBindings() {
		parts = append(parts, strings.Join(kb.Keys, "/")+" "+kb.Help)
	}
	return strings.Join(parts, "  ")
}
