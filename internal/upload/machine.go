// Package upload imports a new archive into the backend. A file arrives
// from the path picker or a terminal drop, is validated by its declared
// type, and is sent as one multipart request. The package also owns the
// status line text of the import, its auto-clear timer, the drop overlay
// and the reload that follows a successful import.
package upload

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/chatlog/internal/archive"
	pErrors "github.com/zhubert/chatlog/internal/errors"
	"github.com/zhubert/chatlog/internal/logger"
)

const (
	// StatusClearDelay is how long a non-loading status stays visible.
	StatusClearDelay = 5 * time.Second
	// ReloadDelay is the pause between a successful import and the reload.
	ReloadDelay = time.Second
)

// State is the lifecycle of one import.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateUploading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateUploading:
		return "uploading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// Kind is the severity of a status message.
type Kind int

const (
	KindInfo Kind = iota
	KindLoading
	KindSuccess
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindSuccess:
		return "success"
	case KindError:
		return "error"
	default:
		return "info"
	}
}

// Status is the single active status line value. An empty Message means
// no status. Seq increases with every status set.
type Status struct {
	Message string
	Kind    Kind
	Seq     uint64
}

// Uploader sends an archive to the backend.
type Uploader interface {
	UploadArchive(ctx context.Context, filename string, content io.Reader) (*archive.UploadResult, error)
}

// DoneMsg reports the outcome of an upload request.
type DoneMsg struct {
	Path   string
	Result *archive.UploadResult
	Err    error
}

// ClearStatusMsg asks for the status with sequence Seq to be cleared.
type ClearStatusMsg struct {
	Seq uint64
}

// ReloadMsg asks the application to reload all client state.
type ReloadMsg struct{}

type tickFunc func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

// Machine is the upload state machine. All methods must be called from
// the UI loop.
type Machine struct {
	up   Uploader
	tr   *Translator
	open func(string) (io.ReadCloser, error)
	tick tickFunc

	state   State
	status  Status
	input   string
	overlay bool
	result  *archive.UploadResult

	log *slog.Logger
}

// New creates a Machine with status texts in locale.
func New(up Uploader, locale string) *Machine {
	return &Machine{
		up:   up,
		tr:   NewTranslator(locale),
		open: func(p string) (io.ReadCloser, error) { return os.Open(p) },
		tick: tea.Tick,
		log:  logger.WithComponent("upload"),
	}
}

// SetUploader points later imports at a different backend.
func (m *Machine) SetUploader(up Uploader) {
	m.up = up
}

// SetLocale switches the language of later status texts.
func (m *Machine) SetLocale(locale string) {
	m.tr = NewTranslator(locale)
}

// State returns the current lifecycle state.
func (m *Machine) State() State {
	return m.state
}

// Status returns the active status.
func (m *Machine) Status() Status {
	return m.status
}

// Input returns the current file-input value.
func (m *Machine) Input() string {
	return m.input
}

// Result returns the backend's answer to the last successful import.
func (m *Machine) Result() *archive.UploadResult {
	return m.result
}

// OverlayVisible reports whether the drop overlay is shown.
func (m *Machine) OverlayVisible() bool {
	return m.overlay
}

// OverlayText is the localized hint drawn on the drop overlay.
func (m *Machine) OverlayText() string {
	return m.tr.Text(msgDropHint, nil)
}

// ImportedText is the localized notification text for n imported
// conversations.
func (m *Machine) ImportedText(n int) string {
	return m.tr.Count(msgImported, n)
}

// DragEnter shows the drop overlay.
func (m *Machine) DragEnter() {
	m.overlay = true
}

// DragLeave hides the overlay when the drag left the terminal. Leaves
// between regions inside it are ignored.
func (m *Machine) DragLeave(outside bool) {
	if outside {
		m.overlay = false
	}
}

// SelectFile starts an import of a file chosen with the path picker.
func (m *Machine) SelectFile(path string) tea.Cmd {
	m.input = path
	return m.begin(path)
}

// Drop starts an import of the first dropped file. The overlay is always
// hidden. A drop without files fails without validation.
func (m *Machine) Drop(paths []string) tea.Cmd {
	m.overlay = false
	if len(paths) == 0 || paths[0] == "" {
		m.state = StateFailed
		m.log.Warn("drop without a file")
		return m.setStatus(m.tr.Text(msgNoFile, nil), KindError)
	}
	if len(paths) > 1 {
		m.log.Info("several files dropped, importing the first", "count", len(paths))
	}
	m.input = paths[0]
	return m.begin(paths[0])
}

func (m *Machine) begin(path string) tea.Cmd {
	m.state = StateValidating
	name := filepath.Base(path)

	if !IsZip(path) {
		err := pErrors.ArchiveRejected(name, "declared type "+quoteType(DeclaredType(path))+" is not zip")
		m.log.Warn("archive rejected", "error", err)
		m.state = StateFailed
		m.input = ""
		return m.setStatus(m.tr.Text(msgSelectZip, nil), KindError)
	}

	m.state = StateUploading
	m.result = nil
	m.log.Info("uploading archive", "path", path)
	statusCmd := m.setStatus(m.tr.Text(msgInProgress, map[string]any{"Name": name}), KindLoading)

	up, open := m.up, m.open
	uploadCmd := func() tea.Msg {
		f, err := open(path)
		if err != nil {
			return DoneMsg{Path: path, Err: pErrors.E(pErrors.Op("upload.Open"), pErrors.KindIO, "cannot read "+name, err)}
		}
		defer f.Close()
		res, err := up.UploadArchive(context.Background(), name, f)
		return DoneMsg{Path: path, Result: res, Err: err}
	}
	return tea.Batch(statusCmd, uploadCmd)
}

func quoteType(t string) string {
	if t == "" {
		return "(none)"
	}
	return t
}

// HandleDone finishes an import. The file-input value is cleared on every
// outcome. Success schedules exactly one reload after ReloadDelay.
func (m *Machine) HandleDone(msg DoneMsg) tea.Cmd {
	m.input = ""

	if msg.Err != nil {
		m.state = StateFailed
		m.log.Error("upload failed", "path", msg.Path, "error", msg.Err)
		return m.setStatus(m.tr.Text(msgFailed, map[string]any{"Detail": pErrors.Detail(msg.Err)}), KindError)
	}

	m.state = StateSucceeded
	m.result = msg.Result
	if msg.Result != nil {
		m.log.Info("upload succeeded", "path", msg.Path, "detail", msg.Result.Detail, "count", msg.Result.Count)
	}
	statusCmd := m.setStatus(m.tr.Text(msgSucceeded, nil), KindSuccess)
	reloadCmd := m.tick(ReloadDelay, func(time.Time) tea.Msg { return ReloadMsg{} })
	return tea.Batch(statusCmd, reloadCmd)
}

// HandleClear clears the status if it is still the one the timer was set
// for. A finished import returns to idle with it.
func (m *Machine) HandleClear(msg ClearStatusMsg) {
	if msg.Seq != m.status.Seq || m.status.Kind == KindLoading {
		return
	}
	m.status = Status{Seq: m.status.Seq}
	if m.state == StateSucceeded || m.state == StateFailed {
		m.state = StateIdle
	}
}

// Reset returns to idle, keeping the status sequence so pending clear
// timers stay stale.
func (m *Machine) Reset() {
	m.state = StateIdle
	m.input = ""
	m.overlay = false
	m.status = Status{Seq: m.status.Seq}
}

// SetStatus shows an arbitrary status, used for messages that share the
// status line with imports.
func (m *Machine) SetStatus(message string, kind Kind) tea.Cmd {
	return m.setStatus(message, kind)
}

// setStatus replaces the status. Non-loading statuses are cleared after
// StatusClearDelay unless replaced first.
func (m *Machine) setStatus(message string, kind Kind) tea.Cmd {
	seq := m.status.Seq + 1
	m.status = Status{Message: message, Kind: kind, Seq: seq}
	if kind == KindLoading {
		return nil
	}
	return m.tick(StatusClearDelay, func(time.Time) tea.Msg { return ClearStatusMsg{Seq: seq} })
}
