package landing

import "sync"

// Video is the background video element the mute toggle acts on.
type Video interface {
  Muted() bool
  SetMuted(bool)
}

// Player is an in-memory Video, used where no real element exists.
type Player struct {
  mu    sync.Mutex
  muted bool
}

func (p *Player) Muted() bool {
  p.mu.Lock()
  defer p.mu.Unlock()
  return p.muted
}

func (p *Player) SetMuted(m bool) {
  p.mu.Lock()
  defer p.mu.Unlock()
  p.muted = m
}

// MuteControl is what the toggle button displays.
type MuteControl struct {
  Label string
  Icon  string
  Alt   string
}

func MuteControlFor(muted bool) MuteControl {
  if muted {
    return MuteControl{Label: "ხმის ჩართვა", Icon: "audio.png", Alt: "Unmute Video"}
  }
  return MuteControl{Label: "ხმის გამორთვა", Icon: "volume.png", Alt: "Mute Video"}
}
