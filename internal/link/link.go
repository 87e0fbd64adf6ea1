// Package link is the short-range side channel: an external client
// connects, each line it writes is one inbound message, and
// acknowledgements go back over the same session as notifications.
// On target hardware this sits on the wireless UART service; the host
// build speaks the same framing over TCP.
package link

import (
	"bufio"
	"errors"
	"net"
	"strings"
	"sync"
)

// Handler consumes one inbound message. It must not block for long;
// the read loop is paused while it runs.
type Handler func(text string)

// Service accepts one session at a time and relays messages both ways.
type Service struct {
	ln      net.Listener
	handler Handler

	mu        sync.Mutex
	conn      net.Conn
	connected bool
	closed    bool
}

// Listen starts the service on addr. It is "initialized" from the
// moment Listen returns and "connected" while a session is attached.
func Listen(addr string, handler Handler) (*Service, error) {
	if addr == "" {
		return nil, errors.New("listen address is empty")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	s := &Service{ln: ln, handler: handler}
	go s.acceptLoop()
	return s, nil
}

func (s *Service) acceptLoop() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		s.mu.Lock()
		if s.closed || s.connected {
			// One session at a time; extra clients are turned away.
			s.mu.Unlock()
			_ = conn.Close()
			continue
		}
		s.conn = conn
		s.connected = true
		s.mu.Unlock()
		s.readLoop(conn)
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
			s.connected = false
		}
		s.mu.Unlock()
		_ = conn.Close()
	}
}

func (s *Service) readLoop(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 4096)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if s.handler != nil {
			s.handler(text)
		}
	}
}

// Notify sends a human-readable acknowledgement to the attached
// session. Without a session it is a silent no-op; notifications are
// best effort.
func (s *Service) Notify(text string) error {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn == nil {
		return nil
	}
	_, err := conn.Write([]byte(text + "\n"))
	return err
}

// Status reports (initialized, connected).
func (s *Service) Status() (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed, s.connected
}

// Addr returns the bound listen address.
func (s *Service) Addr() string {
	return s.ln.Addr().String()
}

func (s *Service) Close() error {
	s.mu.Lock()
	s.closed = true
	conn := s.conn
	s.conn = nil
	s.connected = false
	s.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	return s.ln.Close()
}
