package tui

import (
  "sync"

  tea "github.com/charmbracelet/bubbletea"
)

// Notifier forwards landing.Page change callbacks to a running program.
// Page callbacks also fire from inside Update, where a blocking Send would
// stall the event loop, so each send runs on its own goroutine.
type Notifier struct {
  mu      sync.Mutex
  program *tea.Program
}

// Attach sets the program to notify. Changes before Attach are dropped;
// the first render reads the page directly.
func (n *Notifier) Attach(p *tea.Program) {
  n.mu.Lock()
  defer n.mu.Unlock()
  n.program = p
}

// Notify is passed to landing.WithOnChange.
func (n *Notifier) Notify() {
  n.mu.Lock()
  p := n.program
  n.mu.Unlock()

  if p != nil {
    go p.Send(ChangedMsg{})
  }
}
