package radio

import (
	"io"
	"net"
	"strings"
	"testing"
)

func TestWriteLineAppendsNewline(t *testing.T) {
	a, b := net.Pipe()
	conn := NewConn(a)
	go func() {
		if err := conn.WriteLine("48656C6C6F"); err != nil {
			t.Errorf("write error: %v", err)
		}
		conn.Close()
	}()
	data, err := io.ReadAll(b)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if string(data) != "48656C6C6F\n" {
		t.Fatalf("unexpected wire bytes: %q", data)
	}
}

func TestReadLineTrimsCRLF(t *testing.T) {
	a, b := net.Pipe()
	conn := NewConn(a)
	go func() {
		b.Write([]byte("HELLO WORLD\r\n"))
		b.Close()
	}()
	line, err := conn.ReadLine()
	if err != nil {
		t.Fatalf("read line error: %v", err)
	}
	if line != "HELLO WORLD" {
		t.Fatalf("got %q", line)
	}
	if _, err := conn.ReadLine(); err != io.EOF {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestReadLineSequence(t *testing.T) {
	a, b := net.Pipe()
	conn := NewConn(a)
	go func() {
		b.Write([]byte("one\ntwo\nthree\n"))
		b.Close()
	}()
	for _, want := range []string{"one", "two", "three"} {
		got, err := conn.ReadLine()
		if err != nil {
			t.Fatalf("read error: %v", err)
		}
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestReadLineTruncatesOversized(t *testing.T) {
	a, b := net.Pipe()
	conn := NewConn(a)
	go func() {
		b.Write([]byte(strings.Repeat("A", MaxLineBytes+100) + "\nnext\n"))
		b.Close()
	}()
	line, err := conn.ReadLine()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if len(line) == 0 || len(line) > MaxLineBytes {
		t.Fatalf("truncated line length %d out of bounds", len(line))
	}
	next, err := conn.ReadLine()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if next != "next" {
		t.Fatalf("reader desynced after oversized line: %q", next)
	}
}

func TestDialRejectsUnknownTransport(t *testing.T) {
	if _, err := Dial(Options{Transport: "smoke-signal"}); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}
