//go:build linux

package platform

import (
	"encoding/binary"
	"testing"
)

func rawEvent(kind, code uint16, value int32) []byte {
	raw := make([]byte, inputEventSize)
	binary.LittleEndian.PutUint16(raw[16:], kind)
	binary.LittleEndian.PutUint16(raw[18:], code)
	binary.LittleEndian.PutUint32(raw[20:], uint32(value))
	return raw
}

func TestDecodeKeyEvent(t *testing.T) {
	event := decodeKeyEvent(rawEvent(evKey, keySpace, 2))
	if event.kind != evKey || event.code != keySpace || event.value != 2 {
		t.Errorf("decodeKeyEvent() = %+v", event)
	}
}

func TestChordFiresOncePerPress(t *testing.T) {
	chord := chordState{key: keySpace}
	steps := []struct {
		name  string
		event keyEvent
		want  bool
	}{
		{"space alone", keyEvent{evKey, keySpace, keyPress}, false},
		{"space up", keyEvent{evKey, keySpace, keyRelease}, false},
		{"ctrl down", keyEvent{evKey, keyLeftCtrl, keyPress}, false},
		{"shift down", keyEvent{evKey, keyRightShift, keyPress}, false},
		{"sync event ignored", keyEvent{0, keySpace, keyPress}, false},
		{"space down fires", keyEvent{evKey, keySpace, keyPress}, true},
		{"auto repeat", keyEvent{evKey, keySpace, 2}, false},
		{"second press without release", keyEvent{evKey, keySpace, keyPress}, false},
		{"space up again", keyEvent{evKey, keySpace, keyRelease}, false},
		{"press fires again", keyEvent{evKey, keySpace, keyPress}, true},
		{"space released", keyEvent{evKey, keySpace, keyRelease}, false},
		{"shift up", keyEvent{evKey, keyRightShift, keyRelease}, false},
		{"no shift", keyEvent{evKey, keySpace, keyPress}, false},
	}
	for _, step := range steps {
		if got := chord.feed(step.event); got != step.want {
			t.Errorf("%s: feed() = %v, want %v", step.name, got, step.want)
		}
	}
}

func TestChordIgnoresOtherKeys(t *testing.T) {
	chord := chordState{key: keyN}
	chord.feed(keyEvent{evKey, keyLeftCtrl, keyPress})
	chord.feed(keyEvent{evKey, keyLeftShift, keyPress})
	if chord.feed(keyEvent{evKey, keySpace, keyPress}) {
		t.Error("space should not trigger the N chord")
	}
	if !chord.feed(keyEvent{evKey, keyN, keyPress}) {
		t.Error("Ctrl+Shift+N should trigger")
	}
}

func TestUnregisterBeforeRegister(t *testing.T) {
	shortcut := newEvdevShortcut(keySpace)
	shortcut.Unregister()
	shortcut.Unregister()
	if shortcut.Keydown() == nil {
		t.Error("Keydown() should return a channel")
	}
}
