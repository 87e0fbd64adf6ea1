// Package station is the terminal core: it owns the screen state
// machine, the composition session, the traffic logs and the battery
// sample, and routes messages between the keypad, the radio and the
// short-range link. All shared state lives behind one mutex; hardware
// waits always happen outside it.
package station

import (
	"context"
	"log"
	"sync"
	"time"

	"loraterm/internal/battery"
	"loraterm/internal/keypad"
	"loraterm/internal/security"
	"loraterm/internal/t9"
)

// Screen identifies the active view. Exactly one is active at a time.
type Screen int

const (
	ScreenMenu Screen = iota
	ScreenCompose
	ScreenMonitor
	ScreenLinkStatus
	ScreenBattery
)

func (s Screen) String() string {
	switch s {
	case ScreenMenu:
		return "menu"
	case ScreenCompose:
		return "compose"
	case ScreenMonitor:
		return "monitor"
	case ScreenLinkStatus:
		return "link"
	case ScreenBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Egress writes one framed line to the radio.
type Egress interface {
	WriteLine(s string) error
}

// LinkPort is the station's view of the short-range link service.
type LinkPort interface {
	Notify(text string) error
	Status() (initialized, connected bool)
}

// egressQueueSize bounds pending outbound writes. Producers drop when
// the queue is full; scanning and ingress must never stall on a slow
// transport.
const egressQueueSize = 32

type Options struct {
	Codec      *security.Codec
	Radio      Egress
	Link       LinkPort
	Logger     *log.Logger
	DeviceName string

	BufferLimit int
	LogLimit    int
	T9Timeout   time.Duration

	EncryptionEnabled bool
}

// Station is the shared device state plus the guard protecting it.
type Station struct {
	codec      *security.Codec
	radio      Egress
	link       LinkPort
	logger     *log.Logger
	deviceName string

	radioOut chan string
	linkOut  chan string

	mu           sync.Mutex
	screen       Screen
	encrypt      bool
	session      *t9.Session
	composeLog   *Log
	monitorLog   *Log
	linkLog      *Log
	monitorCount int
	battery      battery.Sample
	linkInit     bool
	linkConn     bool
	radioErrs    int
}

func New(opts Options) *Station {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	name := opts.DeviceName
	if name == "" {
		name = "loraterm"
	}
	return &Station{
		codec:      opts.Codec,
		radio:      opts.Radio,
		link:       opts.Link,
		logger:     logger,
		deviceName: name,
		radioOut:   make(chan string, egressQueueSize),
		linkOut:    make(chan string, egressQueueSize),
		screen:     ScreenMenu,
		encrypt:    opts.EncryptionEnabled,
		session:    t9.NewSession(opts.BufferLimit, opts.T9Timeout),
		composeLog: NewLog(opts.LogLimit),
		monitorLog: NewLog(opts.LogLimit),
		linkLog:    NewLog(opts.LogLimit),
	}
}

// Snapshot is a consistent copy of everything a render pass needs.
type Snapshot struct {
	DeviceName string
	Screen     Screen
	Encryption bool

	Compose    string
	ComposeLog []string
	MonitorLog []string
	LinkLog    []string

	MonitorCount int
	RadioErrors  int
	Battery      battery.Sample

	LinkInitialized bool
	LinkConnected   bool
}

func (s *Station) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		DeviceName:      s.deviceName,
		Screen:          s.screen,
		Encryption:      s.encrypt,
		Compose:         s.session.Text(),
		ComposeLog:      s.composeLog.Lines(),
		MonitorLog:      s.monitorLog.Lines(),
		LinkLog:         s.linkLog.Lines(),
		MonitorCount:    s.monitorCount,
		RadioErrors:     s.radioErrs,
		Battery:         s.battery,
		LinkInitialized: s.linkInit,
		LinkConnected:   s.linkConn,
	}
}

// SetLink attaches the short-range link service. Must be called before
// the run loops start; the station handles a nil link throughout.
func (s *Station) SetLink(port LinkPort) {
	s.mu.Lock()
	s.link = port
	s.mu.Unlock()
}

// SetBattery applies a fresh battery sample. The read itself happened
// on the battery loop, outside the lock.
func (s *Station) SetBattery(sample battery.Sample) {
	s.mu.Lock()
	s.battery = sample
	s.mu.Unlock()
}

// Tick expires a stale T9 cycle. Driven by the timing loop.
func (s *Station) Tick(now time.Time) {
	s.mu.Lock()
	s.session.Expire(now)
	s.mu.Unlock()
}

// Screen returns the active screen.
func (s *Station) Screen() Screen {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen
}

// EncryptionEnabled returns the process-wide encryption flag.
func (s *Station) EncryptionEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.encrypt
}

// RunEgress drains the outbound queues onto the radio and the link.
// Transport errors are logged and dropped; there is no retry layer.
func (s *Station) RunEgress(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case line := <-s.radioOut:
			if err := s.radio.WriteLine(line); err != nil {
				s.logger.Printf("radio write: %v", err)
				s.mu.Lock()
				s.radioErrs++
				s.mu.Unlock()
			}
		case text := <-s.linkOut:
			if s.link == nil {
				continue
			}
			if err := s.link.Notify(text); err != nil {
				s.logger.Printf("link notify: %v", err)
			}
		}
	}
}

// RunKeys consumes scanner events until the context is cancelled.
func (s *Station) RunKeys(ctx context.Context, events <-chan keypad.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			s.HandleKey(ev)
		}
	}
}

// RunTicker drives Tick on the given interval.
func (s *Station) RunTicker(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Tick(now)
		}
	}
}

// LineReader is the blocking inbound side of the radio.
type LineReader interface {
	ReadLine() (string, error)
}

// RunRadio reads inbound lines until the context is cancelled or the
// transport fails. The blocking read happens outside the lock; only
// the resulting append is guarded.
func (s *Station) RunRadio(ctx context.Context, in LineReader) error {
	for {
		line, err := in.ReadLine()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			s.logger.Printf("radio read: %v", err)
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		s.HandleRadioLine(line)
	}
}

func (s *Station) queueRadio(line string) {
	select {
	case s.radioOut <- line:
	default:
		s.logger.Printf("radio egress queue full, dropping message")
	}
}

func (s *Station) queueLinkNotify(text string) {
	select {
	case s.linkOut <- text:
	default:
	}
}
