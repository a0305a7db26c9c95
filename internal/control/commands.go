// Package control implements the two-socket command channel: an
// input-stream connection that is write-only from the host's perspective
// (with a background drain reader keeping the peer's send window open),
// and an RPC connection used strictly for request/response commands.
package control

import (
	"encoding/json"
	"strings"
)

// Command is any value that can be encoded as a single line-delimited
// JSON object over the control channel.
type Command interface {
	Cmd() string
}

// Meta-state bitfield constants.
const (
	MetaShift = 0x1
	MetaCtrl  = 0x1000
	MetaSuper = 0x10000
)

// ScreenPowerMode values.
const (
	ScreenPowerModeOff = 0
	ScreenPowerModeOn  = 2
)

type Tap struct {
	X, Y float64
}

func (Tap) Cmd() string { return "tap" }
func (c Tap) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd string  `json:"cmd"`
		X   float64 `json:"x"`
		Y   float64 `json:"y"`
	}{"tap", c.X, c.Y})
}

type Swipe struct {
	X1, Y1, X2, Y2 float64
	DurationMs     int
}

func (Swipe) Cmd() string { return "swipe" }
func (c Swipe) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd      string  `json:"cmd"`
		X1       float64 `json:"x1"`
		Y1       float64 `json:"y1"`
		X2       float64 `json:"x2"`
		Y2       float64 `json:"y2"`
		Duration int     `json:"duration"`
	}{"swipe", c.X1, c.Y1, c.X2, c.Y2, c.DurationMs})
}

type LongPress struct {
	X, Y       float64
	DurationMs int
}

func (LongPress) Cmd() string { return "long_press" }
func (c LongPress) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd      string  `json:"cmd"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Duration int     `json:"duration"`
	}{"long_press", c.X, c.Y, c.DurationMs})
}

type Keycode struct {
	Action    string // "down" | "up"
	KeyCode   int
	MetaState int
}

func (Keycode) Cmd() string { return "keycode" }
func (c Keycode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd       string `json:"cmd"`
		Action    string `json:"action"`
		KeyCode   int    `json:"keyCode"`
		MetaState int    `json:"metaState"`
	}{"keycode", c.Action, c.KeyCode, c.MetaState})
}

// InjectText sends literal text to be typed. Escapes backslash, double
// quote, and newline the way the device-side JSON parser expects.
type InjectText struct {
	Text string
}

func (InjectText) Cmd() string { return "text" }
func (c InjectText) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd  string `json:"cmd"`
		Text string `json:"text"`
	}{"text", c.Text})
}

type GetClipboard struct {
	CopyFirst bool
}

func (GetClipboard) Cmd() string { return "get_clipboard" }
func (c GetClipboard) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd  string `json:"cmd"`
		Copy bool   `json:"copy"`
	}{"get_clipboard", c.CopyFirst})
}

type SetClipboard struct {
	Text       string
	PasteAfter bool
}

func (SetClipboard) Cmd() string { return "set_clipboard" }
func (c SetClipboard) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd   string `json:"cmd"`
		Text  string `json:"text"`
		Paste bool   `json:"paste"`
	}{"set_clipboard", c.Text, c.PasteAfter})
}

type Hierarchy struct{}

func (Hierarchy) Cmd() string { return "hierarchy" }
func (Hierarchy) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd string `json:"cmd"`
	}{"hierarchy"})
}

type Stats struct{}

func (Stats) Cmd() string { return "stats" }
func (Stats) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd string `json:"cmd"`
	}{"stats"})
}

type SetScreenPowerMode struct {
	Mode int
}

func (SetScreenPowerMode) Cmd() string { return "set_screen_power_mode" }
func (c SetScreenPowerMode) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Cmd  string `json:"cmd"`
		Mode int    `json:"mode"`
	}{"set_screen_power_mode", c.Mode})
}

// ClipboardText unescapes a device clipboard response's text field,
// tolerating backslash escapes for \", \\, and \n.
func ClipboardText(raw string) string {
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			switch raw[i+1] {
			case '"':
				b.WriteByte('"')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}
