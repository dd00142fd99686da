package tui

import (
	"fmt"
	"io"

	tea "charm.land/bubbletea/v2"
)

// Displayer abstracts all user-facing output of a console command. It also
// receives the authenticated client's refresh and invalidation events.
type Displayer interface {
	Banner(title string)
	Working(what string)
	AccessTokenRejected()
	Refreshing()
	RefreshOK()
	RefreshFailed(err error)
	TokenRefreshedRetrying()
	SessionInvalidated(reason string)
	Navigated(path string)
	LoggedIn(usuario, role, landing string)
	Info(text string)
	Table(t Table)
	APICallOK(what string)
	APICallFailed(err error)
	Done()
	Fatal(err error)
}

// PlainDisplayer writes plain text output to w.
// Used when stdout is not a TTY (pipes, CI, SSH without pty).
type PlainDisplayer struct {
	w io.Writer
}

// NewPlainDisplayer creates a PlainDisplayer that writes to w.
func NewPlainDisplayer(w io.Writer) *PlainDisplayer {
	return &PlainDisplayer{w: w}
}

func (p *PlainDisplayer) Banner(title string) {
	fmt.Fprintf(p.w, "=== %s ===\n\n", title)
}

func (p *PlainDisplayer) Working(what string) {
	fmt.Fprintf(p.w, "%s...\n", what)
}

func (p *PlainDisplayer) AccessTokenRejected() {
	fmt.Fprintln(p.w, "Access token rejected (401), refreshing...")
}

func (p *PlainDisplayer) Refreshing() {
	fmt.Fprintln(p.w, "Refreshing access token...")
}

func (p *PlainDisplayer) RefreshOK() {
	fmt.Fprintln(p.w, "Token refreshed successfully!")
}

func (p *PlainDisplayer) RefreshFailed(err error) {
	fmt.Fprintf(p.w, "Refresh failed: %v\n", err)
}

func (p *PlainDisplayer) TokenRefreshedRetrying() {
	fmt.Fprintln(p.w, "Token refreshed, retrying request...")
}

func (p *PlainDisplayer) SessionInvalidated(reason string) {
	fmt.Fprintf(p.w, "Session ended (%s). Please log in again.\n", reason)
}

func (p *PlainDisplayer) Navigated(path string) {
	fmt.Fprintf(p.w, "-> %s\n", path)
}

func (p *PlainDisplayer) LoggedIn(usuario, role, landing string) {
	fmt.Fprintf(p.w, "Logged in as %s (%s), landing on %s\n", usuario, role, landing)
}

func (p *PlainDisplayer) Info(text string) {
	fmt.Fprintln(p.w, text)
}

func (p *PlainDisplayer) Table(t Table) {
	fmt.Fprintln(p.w, t.Render())
	fmt.Fprintln(p.w)
}

func (p *PlainDisplayer) APICallOK(what string) {
	fmt.Fprintf(p.w, "%s: ok\n", what)
}

func (p *PlainDisplayer) APICallFailed(err error) {
	fmt.Fprintf(p.w, "API call failed: %v\n", err)
}

func (p *PlainDisplayer) Done() {}

func (p *PlainDisplayer) Fatal(err error) {
	fmt.Fprintf(p.w, "Error: %v\n", err)
}

// NoopDisplayer is a no-op implementation used in tests.
type NoopDisplayer struct{}

func (NoopDisplayer) Banner(_ string)             {}
func (NoopDisplayer) Working(_ string)            {}
func (NoopDisplayer) AccessTokenRejected()        {}
func (NoopDisplayer) Refreshing()                 {}
func (NoopDisplayer) RefreshOK()                  {}
func (NoopDisplayer) RefreshFailed(_ error)       {}
func (NoopDisplayer) TokenRefreshedRetrying()     {}
func (NoopDisplayer) SessionInvalidated(_ string) {}
func (NoopDisplayer) Navigated(_ string)          {}
func (NoopDisplayer) LoggedIn(_, _, _ string)     {}
func (NoopDisplayer) Info(_ string)               {}
func (NoopDisplayer) Table(_ Table)               {}
func (NoopDisplayer) APICallOK(_ string)          {}
func (NoopDisplayer) APICallFailed(_ error)       {}
func (NoopDisplayer) Done()                       {}
func (NoopDisplayer) Fatal(_ error)               {}

// ProgramDisplayer sends BubbleTea messages to a running tea.Program.
type ProgramDisplayer struct {
	p *tea.Program
}

// NewProgramDisplayer creates a ProgramDisplayer that sends messages to p.
func NewProgramDisplayer(p *tea.Program) *ProgramDisplayer {
	return &ProgramDisplayer{p: p}
}

func (t *ProgramDisplayer) Banner(title string)     { t.p.Send(MsgBanner{Title: title}) }
func (t *ProgramDisplayer) Working(what string)     { t.p.Send(MsgWorking{What: what}) }
func (t *ProgramDisplayer) AccessTokenRejected()    { t.p.Send(MsgAccessTokenRejected{}) }
func (t *ProgramDisplayer) Refreshing()             { t.p.Send(MsgRefreshing{}) }
func (t *ProgramDisplayer) RefreshOK()              { t.p.Send(MsgRefreshOK{}) }
func (t *ProgramDisplayer) RefreshFailed(err error) { t.p.Send(MsgRefreshFailed{Err: err}) }
func (t *ProgramDisplayer) TokenRefreshedRetrying() { t.p.Send(MsgTokenRefreshedRetrying{}) }
func (t *ProgramDisplayer) Navigated(path string)   { t.p.Send(MsgNavigated{Path: path}) }
func (t *ProgramDisplayer) Info(text string)        { t.p.Send(MsgInfo{Text: text}) }
func (t *ProgramDisplayer) Table(tb Table)          { t.p.Send(MsgTable{Table: tb}) }
func (t *ProgramDisplayer) APICallOK(what string)   { t.p.Send(MsgAPICallOK{What: what}) }
func (t *ProgramDisplayer) APICallFailed(err error) { t.p.Send(MsgAPICallFailed{Err: err}) }
func (t *ProgramDisplayer) Done()                   { t.p.Send(MsgDone{}) }
func (t *ProgramDisplayer) Fatal(err error)         { t.p.Send(MsgFatal{Err: err}) }

func (t *ProgramDisplayer) SessionInvalidated(reason string) {
	t.p.Send(MsgSessionInvalidated{Reason: reason})
}

func (t *ProgramDisplayer) LoggedIn(usuario, role, landing string) {
	t.p.Send(MsgLoggedIn{Usuario: usuario, Role: role, Landing: landing})
}
