package config

import (
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"go-mixer/debug"
)

const (
	minTimeBetweenReloads    = 500 * time.Millisecond
	delayBetweenEventAndRead = 50 * time.Millisecond
)

// Link queues command lines for the console, which drains it like the
// serial port.
type Link struct {
	ch chan []byte
}

func NewLink() *Link {
	return &Link{ch: make(chan []byte, 16)}
}

// In is the receive side for console.AddLink.
func (l *Link) In() <-chan []byte {
	return l.ch
}

// Send queues lines as one chunk. It reports false when the console is not
// draining and the chunk was dropped.
func (l *Link) Send(lines ...string) bool {
	if len(lines) == 0 {
		return true
	}
	p := []byte(strings.Join(lines, "\n") + "\n")
	select {
	case l.ch <- p:
		return true
	default:
		return false
	}
}

// Watcher re-applies colours and background whenever the config file is
// written.
type Watcher struct {
	cfg  *Config
	link *Link

	mu         sync.Mutex
	lastReload time.Time
	onReload   []func(*Config)
}

// Watch starts viper's file watch on c. It is a no-op when c was not read
// from a file.
func (c *Config) Watch(link *Link) *Watcher {
	w := &Watcher{cfg: c, link: link}
	if c.v == nil || c.File() == "" {
		return w
	}
	c.v.OnConfigChange(w.handle)
	c.v.WatchConfig()
	debug.Info("config", "watching %s", c.File())
	return w
}

// OnReload registers fn to receive every successfully reloaded config.
func (w *Watcher) OnReload(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Stop detaches the change handler. viper offers no way to stop the
// underlying fsnotify watcher.
func (w *Watcher) Stop() {
	if w.cfg.v != nil {
		w.cfg.v.OnConfigChange(func(fsnotify.Event) {})
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	now := time.Now()
	// Editors often write twice.
	if now.Sub(w.lastReload) < minTimeBetweenReloads {
		w.mu.Unlock()
		return
	}
	w.lastReload = now
	w.mu.Unlock()

	time.Sleep(delayBetweenEventAndRead)
	w.reload()
}

func (w *Watcher) reload() {
	v := w.cfg.v
	if err := v.ReadInConfig(); err != nil {
		debug.Warn("config", "reload: %v", err)
		return
	}
	next, err := decode(v)
	if err != nil {
		debug.Warn("config", "reload: %v", err)
		return
	}
	for _, msg := range next.Warnings {
		debug.Warn("config", "%s", msg)
	}

	if !w.link.Send(next.CommandLines()...) {
		debug.Warn("config", "console not draining, reload dropped")
	}
	debug.Info("config", "reloaded %s", next.File())

	w.mu.Lock()
	fns := append([]func(*Config){}, w.onReload...)
	w.mu.Unlock()
	for _, fn := range fns {
		fn(next)
	}
}
