package station

import (
	"fmt"

	"loraterm/internal/keypad"
)

// Menu entries are selected by text-key index: the top row of the
// keypad maps 1..5 onto the destination screens and the crypto toggle.
const (
	menuCompose    = 0 // key 1
	menuMonitor    = 1 // key 2
	menuLinkStatus = 2 // key 3
	menuBattery    = 4 // key 4
	menuCrypto     = 5 // key 5
)

// HandleKey routes one key event to the handler for the active screen.
// The whole dispatch is a single critical section; the new screen is
// current before the next event is looked at.
func (s *Station) HandleKey(ev keypad.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.screen {
	case ScreenMenu:
		s.menuKey(ev)
	case ScreenCompose:
		s.composeKey(ev)
	case ScreenMonitor:
		s.monitorKey(ev)
	case ScreenLinkStatus:
		s.linkKey(ev)
	case ScreenBattery:
		s.batteryKey(ev)
	}
}

func (s *Station) menuKey(ev keypad.Event) {
	switch ev.Index {
	case menuCompose:
		s.setScreen(ScreenCompose)
	case menuMonitor:
		s.setScreen(ScreenMonitor)
	case menuLinkStatus:
		s.setScreen(ScreenLinkStatus)
	case menuBattery:
		s.setScreen(ScreenBattery)
	case menuCrypto:
		s.encrypt = !s.encrypt
	}
}

func (s *Station) composeKey(ev keypad.Event) {
	switch ev.Index {
	case keypad.KeyBack:
		// Leaving composition abandons the draft.
		s.session.Clear()
		s.setScreen(ScreenMenu)
	case keypad.KeySend:
		if text := s.session.Take(); text != "" {
			s.sendComposed(text)
		}
	case keypad.KeyDelete:
		s.session.DeleteLast()
	default:
		if !keypad.IsCommand(ev.Index) {
			s.session.Tap(ev.Index, ev.At)
		}
	}
}

func (s *Station) monitorKey(ev keypad.Event) {
	switch ev.Index {
	case keypad.KeyBack:
		s.setScreen(ScreenMenu)
	case keypad.KeyDelete:
		s.monitorLog.Clear()
		s.monitorCount = 0
	}
}

func (s *Station) linkKey(ev keypad.Event) {
	switch ev.Index {
	case keypad.KeyBack:
		s.setScreen(ScreenMenu)
	case keypad.KeySend:
		s.linkLog.Clear()
	case keypad.KeyDelete:
		s.linkLog.Append("name: " + s.deviceName)
		s.linkLog.Append(fmt.Sprintf("state: init=%v connected=%v", s.linkInit, s.linkConn))
	}
}

func (s *Station) batteryKey(ev keypad.Event) {
	if ev.Index == keypad.KeyBack {
		s.setScreen(ScreenMenu)
	}
}

// setScreen makes scr current. Entering the link screen refreshes the
// cached link liveness; no other entry has side effects.
func (s *Station) setScreen(scr Screen) {
	s.screen = scr
	if scr == ScreenLinkStatus && s.link != nil {
		s.linkInit, s.linkConn = s.link.Status()
	}
}
