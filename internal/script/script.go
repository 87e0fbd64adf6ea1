// Package script replays keypad input from a text file, one command
// per line. It exists for demos and for exercising the terminal without
// the physical matrix:
//
//	# select compose, type HI, transmit
//	key menu
//	tap 1
//	text "HI"
//	key send
//	wait 500
package script

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/shlex"

	"loraterm/internal/keypad"
	"loraterm/internal/t9"
)

type StepKind int

const (
	StepTap StepKind = iota
	StepKey
	StepWait
	StepText
)

type Step struct {
	Kind  StepKind
	Index int
	Count int
	Wait  time.Duration
	Text  string
}

// legend maps keycap labels to matrix indices.
var legend = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 4, "5": 5, "6": 6,
	"7": 8, "8": 9, "9": 10, "*": 12, "0": 13, "#": 14,
	"menu": keypad.KeyMenu, "back": keypad.KeyBack,
	"send": keypad.KeySend, "del": keypad.KeyDelete, "delete": keypad.KeyDelete,
}

// ParseFile reads a script from disk.
func ParseFile(path string) ([]Step, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var steps []Step
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		step, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		steps = append(steps, step)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return steps, nil
}

func parseLine(line string) (Step, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return Step{}, err
	}
	if len(args) == 0 {
		return Step{}, errors.New("empty command")
	}
	switch strings.ToLower(args[0]) {
	case "tap":
		if len(args) < 2 {
			return Step{}, errors.New("tap needs a key")
		}
		idx, ok := legend[strings.ToLower(args[1])]
		if !ok {
			return Step{}, fmt.Errorf("unknown key %q", args[1])
		}
		count := 1
		if len(args) > 2 {
			count, err = strconv.Atoi(args[2])
			if err != nil || count < 1 {
				return Step{}, fmt.Errorf("bad tap count %q", args[2])
			}
		}
		return Step{Kind: StepTap, Index: idx, Count: count}, nil
	case "key":
		if len(args) < 2 {
			return Step{}, errors.New("key needs a name")
		}
		name := strings.ToLower(args[1])
		idx, ok := legend[name]
		if !ok || !keypad.IsCommand(idx) {
			return Step{}, fmt.Errorf("unknown command key %q", args[1])
		}
		return Step{Kind: StepKey, Index: idx}, nil
	case "wait":
		if len(args) < 2 {
			return Step{}, errors.New("wait needs milliseconds")
		}
		ms, err := strconv.Atoi(args[1])
		if err != nil || ms < 0 {
			return Step{}, fmt.Errorf("bad wait %q", args[1])
		}
		return Step{Kind: StepWait, Wait: time.Duration(ms) * time.Millisecond}, nil
	case "text":
		if len(args) < 2 {
			return Step{}, errors.New("text needs a string")
		}
		text := strings.Join(args[1:], " ")
		for _, r := range text {
			if _, _, ok := t9.Taps(r); !ok {
				return Step{}, fmt.Errorf("character %q has no key sequence", r)
			}
		}
		return Step{Kind: StepText, Text: text}, nil
	default:
		return Step{}, fmt.Errorf("unknown command %q", args[0])
	}
}

// Run replays the steps into handle. T9 timing is synthesized on the
// event timestamps (taps of one character land inside the cycling
// window, consecutive characters outside it), so only explicit waits
// consume wall-clock time.
func Run(steps []Step, handle func(keypad.Event)) {
	now := time.Now()
	for _, st := range steps {
		switch st.Kind {
		case StepTap:
			for i := 0; i < st.Count; i++ {
				handle(keypad.Event{Index: st.Index, At: now})
				now = now.Add(10 * time.Millisecond)
			}
			now = now.Add(t9.DefaultTimeout)
		case StepKey:
			handle(keypad.Event{Index: st.Index, At: now})
			now = now.Add(10 * time.Millisecond)
		case StepWait:
			time.Sleep(st.Wait)
			now = now.Add(st.Wait)
		case StepText:
			for _, r := range st.Text {
				idx, count, ok := t9.Taps(r)
				if !ok {
					continue
				}
				for i := 0; i < count; i++ {
					handle(keypad.Event{Index: idx, At: now})
					now = now.Add(10 * time.Millisecond)
				}
				now = now.Add(t9.DefaultTimeout)
			}
		}
	}
}
