package audio

import (
	"encoding/binary"
	"math"
	"testing"
)

func le16(v int16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, uint16(v))
	return b
}

func TestPcm16ToFloat32(t *testing.T) {
	cases := []struct {
		name string
		in   int16
		want float32
	}{
		{"zero", 0, 0},
		{"max positive", 32767, 32767.0 / 32768.0},
		{"min negative", -32768, -1},
		{"half positive", 16384, 0.5},
	}

	var data []byte
	for _, c := range cases {
		data = append(data, le16(c.in)...)
	}

	out := pcm16ToFloat32(data)
	if len(out) != len(cases) {
		t.Fatalf("got %d samples, want %d", len(out), len(cases))
	}
	for i, c := range cases {
		if math.Abs(float64(out[i]-c.want)) > 1e-6 {
			t.Errorf("%s: pcm16ToFloat32 = %v, want %v", c.name, out[i], c.want)
		}
	}
}

func TestPcm16ToFloat32OddByteIgnored(t *testing.T) {
	data := append(le16(100), 0xFF) // one trailing byte with no partner
	out := pcm16ToFloat32(data)
	if len(out) != 1 {
		t.Fatalf("got %d samples, want 1 (trailing odd byte dropped)", len(out))
	}
}
