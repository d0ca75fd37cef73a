//go:build linux

package platform

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Linux reads keyboards through evdev so that no X11 connection is needed.
// The user must be able to read /dev/input/event* (usually the input group).

const (
	evKey          = 1
	keyRelease     = 0
	keyPress       = 1
	keyLeftCtrl    = 29
	keyRightCtrl   = 97
	keyLeftShift   = 42
	keyRightShift  = 54
	keyN           = 49
	keySpace       = 57
	inputEventSize = 24
)

// ErrNoKeyboard means no readable evdev keyboard was found.
var ErrNoKeyboard = errors.New("no readable keyboard device (is the user in the input group?)")

type evdevShortcut struct {
	key     uint16
	keydown chan struct{}
	stop    chan struct{}
	files   []*os.File
	once    sync.Once
}

// NewToggleShortcut returns Ctrl+Shift+Space.
func NewToggleShortcut() Shortcut {
	return newEvdevShortcut(keySpace)
}

// NewSkipShortcut returns Ctrl+Shift+N.
func NewSkipShortcut() Shortcut {
	return newEvdevShortcut(keyN)
}

func newEvdevShortcut(key uint16) *evdevShortcut {
	return &evdevShortcut{key: key, keydown: make(chan struct{}, 1)}
}

func (s *evdevShortcut) Register() error {
	keyboards, err := findKeyboards()
	if err != nil {
		return fmt.Errorf("scan input devices: %w", err)
	}
	s.stop = make(chan struct{})
	for _, path := range keyboards {
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		s.files = append(s.files, file)
		go s.read(file)
	}
	if len(s.files) == 0 {
		return ErrNoKeyboard
	}
	return nil
}

func (s *evdevShortcut) Unregister() {
	s.once.Do(func() {
		if s.stop != nil {
			close(s.stop)
		}
		for _, file := range s.files {
			_ = file.Close()
		}
	})
}

func (s *evdevShortcut) Keydown() <-chan struct{} { return s.keydown }

func (s *evdevShortcut) read(file *os.File) {
	buf := make([]byte, inputEventSize*16)
	chord := chordState{key: s.key}
	for {
		n, err := file.Read(buf)
		if err != nil {
			return
		}
		select {
		case <-s.stop:
			return
		default:
		}
		for i := 0; i+inputEventSize <= n; i += inputEventSize {
			if !chord.feed(decodeKeyEvent(buf[i : i+inputEventSize])) {
				continue
			}
			select {
			case s.keydown <- struct{}{}:
			default:
			}
		}
	}
}

type keyEvent struct {
	kind  uint16
	code  uint16
	value int32
}

// decodeKeyEvent reads a 64-bit struct input_event: a 16 byte timestamp,
// then type, code and value.
func decodeKeyEvent(raw []byte) keyEvent {
	return keyEvent{
		kind:  binary.LittleEndian.Uint16(raw[16:]),
		code:  binary.LittleEndian.Uint16(raw[18:]),
		value: int32(binary.LittleEndian.Uint32(raw[20:])),
	}
}

// chordState tracks Ctrl+Shift+key on one device. Auto-repeat fires once.
type chordState struct {
	key   uint16
	ctrl  bool
	shift bool
	held  bool
}

// feed reports whether event completes the chord.
func (chord *chordState) feed(event keyEvent) bool {
	if event.kind != evKey {
		return false
	}
	pressed := event.value == keyPress
	released := event.value == keyRelease

	switch event.code {
	case keyLeftCtrl, keyRightCtrl:
		chord.ctrl = pressed || (!released && chord.ctrl)
	case keyLeftShift, keyRightShift:
		chord.shift = pressed || (!released && chord.shift)
	case chord.key:
		if released {
			chord.held = false
			return false
		}
		if pressed && !chord.held && chord.ctrl && chord.shift {
			chord.held = true
			return true
		}
	}
	return false
}

func findKeyboards() ([]string, error) {
	entries, err := os.ReadDir("/dev/input")
	if err != nil {
		return nil, err
	}
	var keyboards []string
	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "event") || !isKeyboard(entry.Name()) {
			continue
		}
		keyboards = append(keyboards, filepath.Join("/dev/input", entry.Name()))
	}
	return keyboards, nil
}

// isKeyboard treats devices with a long key capability bitmap as keyboards.
func isKeyboard(eventName string) bool {
	data, err := os.ReadFile(filepath.Join("/sys/class/input", eventName, "device", "capabilities", "key"))
	if err != nil {
		return false
	}
	return len(strings.TrimSpace(string(data))) > 10
}
