package control

import "testing"

func TestExtractClipboardTextTolerant(t *testing.T) {
	cases := []struct {
		name string
		line string
		want string
		ok   bool
	}{
		{"well formed", `{"text": "hello world"}` + "\n", "hello world", true},
		{"escaped quote", `{"text": "say \"hi\""}` + "\n", `say "hi"`, true},
		{"escaped newline", `{"text": "line1\nline2"}` + "\n", "line1\nline2", true},
		{"missing closing quote", `{"text": "dangling`, "dangling", true},
		{"no text field", `{"status": "ok"}` + "\n", "", false},
		{"text not a string", `{"text": 5}` + "\n", "", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := extractClipboardText(c.line)
			if ok != c.ok {
				t.Fatalf("ok = %v, want %v", ok, c.ok)
			}
			if ok && got != c.want {
				t.Fatalf("text = %q, want %q", got, c.want)
			}
		})
	}
}
