package types

import "fmt"

type InputKey uint16

type InputKind uint8

const (
	InputKindInvalid InputKind = iota
	InputKindKey
	InputKindPointer
	InputKindTrigger
)

func (k InputKind) String() string {
	switch k {
	case InputKindKey:
		return "Key"
	case InputKindPointer:
		return "Pointer"
	case InputKindTrigger:
		return "Trigger"
	}
	return "Invalid"
}

// InputEvent is produced by input sources and consumed once per frame.
// Key events: Key, Up, Repeat.
// Pointer events: X, Y, Up.
// Trigger events: Payload (fully framed IPC message).
type InputEvent struct {
	Source  string
	Kind    InputKind
	Key     InputKey
	Up      bool
	Repeat  bool
	X, Y    int
	Payload string
}

func (e *InputEvent) String() string {
	switch e.Kind {
	case InputKindKey:
		return fmt.Sprintf("InputEvent(%s source=%s key=%d up=%t repeat=%t)", e.Kind, e.Source, e.Key, e.Up, e.Repeat)
	case InputKindPointer:
		return fmt.Sprintf("InputEvent(%s source=%s x=%d y=%d up=%t)", e.Kind, e.Source, e.X, e.Y, e.Up)
	case InputKindTrigger:
		return fmt.Sprintf("InputEvent(%s source=%s payload=%q)", e.Kind, e.Source, e.Payload)
	}
	return fmt.Sprintf("InputEvent(%s source=%s)", e.Kind, e.Source)
}

func (e *InputEvent) IsDown() bool { return !e.Up }

// Linux input-event-codes.h subset used by the shells.
const (
	KeyEsc       InputKey = 1
	KeyZ         InputKey = 44
	KeyX         InputKey = 45
	KeyC         InputKey = 46
	KeyLeftShift InputKey = 42
	KeyEnter     InputKey = 28
	KeyLeft      InputKey = 105
	KeyRight     InputKey = 106
	KeyUp        InputKey = 103
	KeyDown      InputKey = 104
	BtnTouch     InputKey = 0x14a
)
