package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"time"
	"unicode/utf8"
)

// EventType distinguishes input event categories
type EventType uint8

const (
	EventKey EventType = iota
	EventResize
	EventKeyboardFlags // Reply to the keyboard enhancement query
	EventError         // Read error
	EventClosed        // Input closed
)

// Event represents a terminal input event
type Event struct {
	Type      EventType
	Key       Key
	Rune      rune
	Action    Action
	Modifiers Modifier
	Flags     int   // For EventKeyboardFlags
	Width     int   // For EventResize
	Height    int   // For EventResize
	Err       error // For EventError
}

// maxCSILen bounds a CSI sequence; longer runs are discarded as garbage
const maxCSILen = 48

// parseInput parses raw bytes into events and returns bytes consumed
// Stops on an incomplete sequence so the caller can wait for more data
func parseInput(data []byte, emit func(Event)) int {
	i := 0
	n := len(data)

	for i < n {
		b := data[i]

		// Fast path: printable ASCII
		if b >= 0x20 && b < 0x7f {
			emit(Event{Type: EventKey, Key: KeyRune, Rune: rune(b)})
			i++
			continue
		}

		if b == 0x1b {
			if i+1 >= n {
				return i // Lone ESC, resolved by timeout
			}
			consumed, ev, ok := parseEscape(data[i:])
			if consumed == 0 {
				return i
			}
			if ok {
				emit(ev)
			}
			i += consumed
			continue
		}

		if b < 0x20 || b == 0x7f {
			emit(parseControl(b))
			i++
			continue
		}

		// UTF-8 multibyte
		if !utf8.FullRune(data[i:]) {
			return i
		}
		r, size := utf8.DecodeRune(data[i:])
		if r != utf8.RuneError {
			emit(Event{Type: EventKey, Key: KeyRune, Rune: r})
		}
		i += size
	}
	return i
}

// parseEscape parses a sequence starting at ESC
// Returns 0 consumed on incomplete input, ok false for swallowed sequences
func parseEscape(data []byte) (int, Event, bool) {
	switch {
	case data[1] == '[':
		return parseCSI(data)
	case data[1] == 'O':
		// SS3: ESC O x (legacy keypad and function keys)
		if len(data) < 3 {
			return 0, Event{}, false
		}
		return 3, Event{Type: EventKey, Key: KeyOther}, true
	case data[1] == 0x1b:
		return 2, Event{Type: EventKey, Key: KeyEscape, Modifiers: ModAlt}, true
	case data[1] < 0x20:
		ev := parseControl(data[1])
		ev.Modifiers |= ModAlt
		return 2, ev, true
	case data[1] < 0x7f:
		return 2, Event{Type: EventKey, Key: KeyRune, Rune: rune(data[1]), Modifiers: ModAlt}, true
	}
	// ESC followed by non-ASCII: report ESC, reparse the rest
	return 1, Event{Type: EventKey, Key: KeyEscape}, true
}

// parseCSI parses ESC [ params final
func parseCSI(data []byte) (int, Event, bool) {
	end := 2
	for ; end < len(data); end++ {
		b := data[end]
		if b >= 0x40 && b <= 0x7e {
			break
		}
		if b < 0x20 || b > 0x7e {
			// Broken sequence, drop the introducer only
			return 2, Event{}, false
		}
		if end-2 >= maxCSILen {
			return end, Event{}, false
		}
	}
	if end >= len(data) {
		return 0, Event{}, false
	}

	params := data[2:end]
	final := data[end]
	consumed := end + 1

	// Keyboard flags reply: CSI ? flags u
	if len(params) > 0 && params[0] == '?' {
		if final != 'u' {
			return consumed, Event{}, false
		}
		f := parseFields(params[1:])
		return consumed, Event{Type: EventKeyboardFlags, Flags: f.get(0, 0, 0)}, true
	}
	if len(params) > 0 && (params[0] < '0' || params[0] > ';') {
		// Private replies (<, =, >) carry nothing for the game
		return consumed, Event{}, false
	}

	f := parseFields(params)
	mods := Modifier(max(f.get(1, 0, 1)-1, 0))
	action := actionFromCode(f.get(1, 1, 1))

	switch final {
	case 'u':
		key, r := keyFromCode(f.get(0, 0, 0), mods)
		return consumed, Event{Type: EventKey, Key: key, Rune: r, Action: action, Modifiers: mods}, true
	case '~', 'A', 'B', 'C', 'D', 'E', 'F', 'H', 'P', 'Q', 'R', 'S', 'Z':
		return consumed, Event{Type: EventKey, Key: KeyOther, Action: action, Modifiers: mods}, true
	}
	return consumed, Event{}, false
}

func actionFromCode(code int) Action {
	switch code {
	case 2:
		return ActionRepeat
	case 3:
		return ActionRelease
	}
	return ActionPress
}

// csiFields holds up to 3 fields of up to 3 colon separated numbers
type csiFields struct {
	v   [3][3]int
	set [3][3]bool
}

func parseFields(params []byte) csiFields {
	var f csiFields
	field, sub := 0, 0
	for _, b := range params {
		switch {
		case b == ';':
			field++
			sub = 0
		case b == ':':
			sub++
		case b >= '0' && b <= '9':
			if field < 3 && sub < 3 {
				if f.v[field][sub] < 1<<20 {
					f.v[field][sub] = f.v[field][sub]*10 + int(b-'0')
				}
				f.set[field][sub] = true
			}
		}
	}
	return f
}

// get returns a sub-field value or def when absent
func (f csiFields) get(field, sub, def int) int {
	if !f.set[field][sub] {
		return def
	}
	return f.v[field][sub]
}

// parseControl maps control characters to keys
func parseControl(b byte) Event {
	switch b {
	case 0x03:
		return Event{Type: EventKey, Key: KeyCtrlC, Modifiers: ModCtrl}
	case 0x08, 0x7f:
		return Event{Type: EventKey, Key: KeyBackspace}
	case 0x09:
		return Event{Type: EventKey, Key: KeyTab}
	case 0x0a, 0x0d:
		return Event{Type: EventKey, Key: KeyEnter}
	case 0x1b:
		return Event{Type: EventKey, Key: KeyEscape}
	}
	return Event{Type: EventKey, Key: KeyOther, Modifiers: ModCtrl}
}

// inputReader turns backend bytes into events on a channel
type inputReader struct {
	backend Backend
	eventCh chan Event
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// observe sees every event before it is queued
	observe func(Event)

	// Persistent buffer for stream assembly across reads
	buf []byte
}

func newInputReader(backend Backend, observe func(Event)) *inputReader {
	return &inputReader{
		backend: backend,
		eventCh: make(chan Event, 256),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
		observe: observe,
		buf:     make([]byte, 0, 256),
	}
}

func (r *inputReader) start() {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return
	}
	r.running = true
	r.mu.Unlock()

	go r.readLoop()
}

// stop signals the reader and waits briefly for it to exit
func (r *inputReader) stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	close(r.stopCh)
	select {
	case <-r.doneCh:
	case <-time.After(200 * time.Millisecond):
		// Reader stuck on blocking read, proceed anyway
	}
}

func (r *inputReader) events() <-chan Event {
	return r.eventCh
}

func (r *inputReader) readLoop() {
	defer close(r.doneCh)

	defer func() {
		if rec := recover(); rec != nil {
			EmergencyReset(os.Stdout)
			fmt.Fprintf(os.Stderr, "\r\n\x1b[31mINPUT READER CRASHED: %v\x1b[0m\r\n", rec)
			fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
			os.Exit(1)
		}
	}()

	for {
		data, err := r.backend.Read(r.stopCh)
		if err != nil {
			r.sendEvent(Event{Type: EventError, Err: err})
			return
		}

		if len(data) == 0 {
			// Poll timeout: a pending lone ESC is the Escape key
			if len(r.buf) == 1 && r.buf[0] == 0x1b {
				r.sendEvent(Event{Type: EventKey, Key: KeyEscape})
				r.buf = r.buf[:0]
			}
			select {
			case <-r.stopCh:
				r.sendEvent(Event{Type: EventClosed})
				return
			default:
				continue
			}
		}

		r.buf = append(r.buf, data...)
		consumed := parseInput(r.buf, r.sendEvent)
		if consumed >= len(r.buf) {
			r.buf = r.buf[:0]
		} else if consumed > 0 {
			n := copy(r.buf, r.buf[consumed:])
			r.buf = r.buf[:n]
		}
	}
}

// sendEvent queues an event, blocking while the channel is full
// A dropped release would leave a key held that is no longer pressed
func (r *inputReader) sendEvent(ev Event) {
	if r.observe != nil {
		r.observe(ev)
	}
	select {
	case r.eventCh <- ev:
	case <-r.stopCh:
	}
}
