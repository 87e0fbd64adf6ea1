package link

import (
	"bufio"
	"net"
	"testing"
	"time"
)

func TestInboundMessageReachesHandler(t *testing.T) {
	got := make(chan string, 1)
	svc, err := Listen("127.0.0.1:0", func(text string) { got <- text })
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	defer svc.Close()

	conn, err := net.Dial("tcp", svc.Addr())
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("  HELLO FROM PHONE \n")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	select {
	case text := <-got:
		if text != "HELLO FROM PHONE" {
			t.Fatalf("handler got %q", text)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestNotifyReachesSession(t *testing.T) {
	svc, err := Listen("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	defer svc.Close()

	conn, err := net.Dial("tcp", svc.Addr())
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	// Wait for the accept loop to attach the session.
	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, connected := svc.Status(); connected {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("session never attached")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := svc.Notify("sent via radio: HI"); err != nil {
		t.Fatalf("notify error: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if line != "sent via radio: HI\n" {
		t.Fatalf("got %q", line)
	}
}

func TestNotifyWithoutSessionIsNoop(t *testing.T) {
	svc, err := Listen("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	defer svc.Close()
	if err := svc.Notify("nobody listening"); err != nil {
		t.Fatalf("notify without session must not fail: %v", err)
	}
}

func TestStatusLifecycle(t *testing.T) {
	svc, err := Listen("127.0.0.1:0", nil)
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	if init, connected := svc.Status(); !init || connected {
		t.Fatalf("fresh service: init=%v connected=%v", init, connected)
	}
	svc.Close()
	if init, _ := svc.Status(); init {
		t.Fatal("closed service must not report initialized")
	}
}
