package station

import (
	"strings"

	"loraterm/internal/security"
)

// decryptErrMarker is shown in place of a line that classified as
// ciphertext but failed to decrypt.
const decryptErrMarker = "[decrypt error]"

// sendComposed routes a finished composition to the radio: encrypt if
// the flag is on, queue the wire payload, log the plaintext. Caller
// holds the lock.
func (s *Station) sendComposed(text string) {
	payload := text
	if s.encrypt && s.codec != nil {
		payload = s.codec.Encrypt(text)
	}
	s.queueRadio(payload)
	s.composeLog.Append("> " + text)
}

// Send transmits text as if it had been composed on the keypad. Used by
// the outbox, key scripts and the one-shot CLI path.
func (s *Station) Send(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendComposed(text)
}

// HandleRadioLine routes one inbound radio line: decrypt when the line
// has ciphertext shape and encryption is on, then append to the compose
// log and the always-on monitor log.
func (s *Station) HandleRadioLine(line string) {
	if line == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	display := line
	if s.encrypt && s.codec != nil && security.LooksCiphertext(line) {
		plain, err := s.codec.Decrypt(line)
		if err != nil {
			display = decryptErrMarker
		} else {
			display = plain
		}
	}
	entry := "< " + display
	s.composeLog.Append(entry)
	s.monitorLog.Append(entry)
	s.monitorCount++
}

// HandleLinkMessage routes one message from the short-range link:
// forward it over the radio (encrypted if enabled), log it on both the
// link and compose screens, and acknowledge to the attached session.
func (s *Station) HandleLinkMessage(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := text
	if s.encrypt && s.codec != nil {
		payload = s.codec.Encrypt(text)
	}
	s.queueRadio(payload)
	s.linkLog.Append("< " + text)
	s.linkLog.Append("> radio: ok")
	s.composeLog.Append("[link]> " + text)
	if s.link != nil {
		if _, connected := s.link.Status(); connected {
			s.queueLinkNotify("sent via radio: " + text)
		}
	}
}
