package control

import (
	"encoding/json"
	"testing"
)

func TestCommandMarshalingRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		cmd  Command
		want map[string]interface{}
	}{
		{"tap", Tap{X: 12.5, Y: 34}, map[string]interface{}{"cmd": "tap", "x": 12.5, "y": 34.0}},
		{"swipe", Swipe{X1: 1, Y1: 2, X2: 3, Y2: 4, DurationMs: 150},
			map[string]interface{}{"cmd": "swipe", "x1": 1.0, "y1": 2.0, "x2": 3.0, "y2": 4.0, "duration": 150.0}},
		{"long_press", LongPress{X: 5, Y: 6, DurationMs: 500},
			map[string]interface{}{"cmd": "long_press", "x": 5.0, "y": 6.0, "duration": 500.0}},
		{"keycode", Keycode{Action: "down", KeyCode: 4, MetaState: MetaCtrl},
			map[string]interface{}{"cmd": "keycode", "action": "down", "keyCode": 4.0, "metaState": float64(MetaCtrl)}},
		{"text", InjectText{Text: "hello\nworld \"quoted\" back\\slash"},
			map[string]interface{}{"cmd": "text", "text": "hello\nworld \"quoted\" back\\slash"}},
		{"get_clipboard", GetClipboard{CopyFirst: true}, map[string]interface{}{"cmd": "get_clipboard", "copy": true}},
		{"set_clipboard", SetClipboard{Text: "paste me", PasteAfter: true},
			map[string]interface{}{"cmd": "set_clipboard", "text": "paste me", "paste": true}},
		{"hierarchy", Hierarchy{}, map[string]interface{}{"cmd": "hierarchy"}},
		{"stats", Stats{}, map[string]interface{}{"cmd": "stats"}},
		{"set_screen_power_mode", SetScreenPowerMode{Mode: ScreenPowerModeOff},
			map[string]interface{}{"cmd": "set_screen_power_mode", "mode": 0.0}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			body, err := json.Marshal(c.cmd)
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}

			var got map[string]interface{}
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			if len(got) != len(c.want) {
				t.Fatalf("field count = %d, want %d (got %v)", len(got), len(c.want), got)
			}
			for k, want := range c.want {
				if got[k] != want {
					t.Errorf("field %q = %v (%T), want %v (%T)", k, got[k], got[k], want, want)
				}
			}

			if c.cmd.Cmd() != c.want["cmd"] {
				t.Errorf("Cmd() = %q, want %q", c.cmd.Cmd(), c.want["cmd"])
			}
		})
	}
}

// TestInjectTextIsNotDoubleEscaped guards against re-introducing a
// pre-escape helper: encoding/json already escapes backslashes, quotes,
// and newlines, so the wire bytes must contain exactly one level of
// escaping.
func TestInjectTextIsNotDoubleEscaped(t *testing.T) {
	body, err := json.Marshal(InjectText{Text: `back\slash and "quote"`})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if want := `back\slash and "quote"`; decoded.Text != want {
		t.Fatalf("round-tripped text = %q, want %q", decoded.Text, want)
	}
}

func TestClipboardTextUnescapesToleratedSequences(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{`hello`, `hello`},
		{`line1\nline2`, "line1\nline2"},
		{`a\\b`, `a\b`},
		{`say \"hi\"`, `say "hi"`},
	}
	for _, c := range cases {
		if got := ClipboardText(c.raw); got != c.want {
			t.Errorf("ClipboardText(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}
