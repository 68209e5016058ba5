package terminal

import (
	"testing"
	"time"
)

func parseAll(data string) ([]Event, int) {
	var evs []Event
	n := parseInput([]byte(data), func(ev Event) { evs = append(evs, ev) })
	return evs, n
}

func TestParseLegacy(t *testing.T) {
	tests := []struct {
		name string
		in   string
		key  Key
		r    rune
		mods Modifier
	}{
		{"letter", "a", KeyRune, 'a', ModNone},
		{"digit", "7", KeyRune, '7', ModNone},
		{"enter cr", "\r", KeyEnter, 0, ModNone},
		{"enter lf", "\n", KeyEnter, 0, ModNone},
		{"ctrl c", "\x03", KeyCtrlC, 0, ModCtrl},
		{"tab", "\t", KeyTab, 0, ModNone},
		{"del", "\x7f", KeyBackspace, 0, ModNone},
		{"alt letter", "\x1bq", KeyRune, 'q', ModAlt},
		{"arrow", "\x1b[A", KeyOther, 0, ModNone},
		{"ss3", "\x1bOP", KeyOther, 0, ModNone},
		{"utf8", "é", KeyRune, 'é', ModNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, n := parseAll(tt.in)
			if n != len(tt.in) {
				t.Fatalf("consumed %d of %d bytes", n, len(tt.in))
			}
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			ev := evs[0]
			if ev.Key != tt.key || ev.Rune != tt.r || ev.Modifiers != tt.mods {
				t.Errorf("event = %+v, want key=%v rune=%q mods=%v", ev, tt.key, tt.r, tt.mods)
			}
			if ev.Action != ActionPress {
				t.Errorf("legacy action = %v, want press", ev.Action)
			}
		})
	}
}

func TestParseKeyboardProtocol(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		key    Key
		r      rune
		action Action
		mods   Modifier
	}{
		{"press implicit", "\x1b[97u", KeyRune, 'a', ActionPress, ModNone},
		{"press explicit", "\x1b[97;1:1u", KeyRune, 'a', ActionPress, ModNone},
		{"repeat", "\x1b[97;1:2u", KeyRune, 'a', ActionRepeat, ModNone},
		{"release", "\x1b[97;1:3u", KeyRune, 'a', ActionRelease, ModNone},
		{"shifted letter", "\x1b[97;2u", KeyRune, 'A', ActionPress, ModShift},
		{"alternate codes", "\x1b[97:65;2:3u", KeyRune, 'A', ActionRelease, ModShift},
		{"digit release", "\x1b[53;1:3u", KeyRune, '5', ActionRelease, ModNone},
		{"ctrl c", "\x1b[99;5u", KeyCtrlC, 0, ActionPress, ModCtrl},
		{"escape", "\x1b[27u", KeyEscape, 0, ActionPress, ModNone},
		{"enter release", "\x1b[13;1:3u", KeyEnter, 0, ActionRelease, ModNone},
		{"lone shift", "\x1b[57441;2u", KeyOther, 0, ActionPress, ModShift},
		{"arrow release", "\x1b[1;1:3A", KeyOther, 0, ActionRelease, ModNone},
		{"text field", "\x1b[97;1;97u", KeyRune, 'a', ActionPress, ModNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evs, n := parseAll(tt.in)
			if n != len(tt.in) {
				t.Fatalf("consumed %d of %d bytes", n, len(tt.in))
			}
			if len(evs) != 1 {
				t.Fatalf("got %d events, want 1", len(evs))
			}
			ev := evs[0]
			if ev.Key != tt.key || ev.Rune != tt.r || ev.Action != tt.action || ev.Modifiers != tt.mods {
				t.Errorf("event = %+v, want key=%v rune=%q action=%v mods=%v",
					ev, tt.key, tt.r, tt.action, tt.mods)
			}
		})
	}
}

func TestParseFlagsReply(t *testing.T) {
	evs, n := parseAll("\x1b[?11u")
	if n != 6 || len(evs) != 1 {
		t.Fatalf("consumed=%d events=%d", n, len(evs))
	}
	if evs[0].Type != EventKeyboardFlags || evs[0].Flags != 11 {
		t.Errorf("event = %+v, want flags 11", evs[0])
	}
}

func TestParseIncomplete(t *testing.T) {
	for _, in := range []string{"\x1b", "\x1b[", "\x1b[97;1:", "\xc3"} {
		evs, n := parseAll(in)
		if n != 0 || len(evs) != 0 {
			t.Errorf("%q: consumed=%d events=%d, want wait for more", in, n, len(evs))
		}
	}

	// Complete prefix is consumed, trailing partial kept
	evs, n := parseAll("ab\x1b[97")
	if n != 2 || len(evs) != 2 {
		t.Errorf("consumed=%d events=%d, want 2/2", n, len(evs))
	}
}

func TestParseSequenceStream(t *testing.T) {
	evs, n := parseAll("\x1b[97u\x1b[98u\x1b[97;1:3u\x1b[98;1:3u")
	if n != 28 {
		t.Fatalf("consumed %d", n)
	}
	want := []struct {
		r rune
		a Action
	}{{'a', ActionPress}, {'b', ActionPress}, {'a', ActionRelease}, {'b', ActionRelease}}
	if len(evs) != len(want) {
		t.Fatalf("got %d events", len(evs))
	}
	for i, w := range want {
		if evs[i].Rune != w.r || evs[i].Action != w.a {
			t.Errorf("event %d = %q %v, want %q %v", i, evs[i].Rune, evs[i].Action, w.r, w.a)
		}
	}
}

func TestParseSwallowsUnknownReplies(t *testing.T) {
	// Primary device attributes reply carries nothing for the game
	evs, n := parseAll("\x1b[?62;22cx")
	if n != 10 {
		t.Fatalf("consumed %d", n)
	}
	if len(evs) != 1 || evs[0].Rune != 'x' {
		t.Errorf("events = %+v, want only x", evs)
	}
}

func TestSendEventWaitsForRoom(t *testing.T) {
	r := newInputReader(nil, nil)
	r.eventCh = make(chan Event, 1)

	r.sendEvent(Event{Type: EventKey, Rune: 'a', Action: ActionPress})

	sent := make(chan struct{})
	go func() {
		r.sendEvent(Event{Type: EventKey, Rune: 'a', Action: ActionRelease})
		close(sent)
	}()

	select {
	case <-sent:
		t.Fatal("event queued past a full channel")
	case <-time.After(20 * time.Millisecond):
	}

	if ev := <-r.eventCh; ev.Action != ActionPress {
		t.Fatalf("first event = %+v, want press", ev)
	}
	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("sender still blocked after room was made")
	}
	if ev := <-r.eventCh; ev.Action != ActionRelease {
		t.Errorf("second event = %+v, want release kept", ev)
	}
}

func TestSendEventUnblocksOnStop(t *testing.T) {
	r := newInputReader(nil, nil)
	r.eventCh = make(chan Event, 1)
	r.sendEvent(Event{Type: EventKey})

	sent := make(chan struct{})
	go func() {
		r.sendEvent(Event{Type: EventKey})
		close(sent)
	}()
	close(r.stopCh)

	select {
	case <-sent:
	case <-time.After(time.Second):
		t.Fatal("sender blocked after stop")
	}
}
