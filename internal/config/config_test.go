package config

import (
	"flag"
	"testing"
)

func TestRegisterMirrorFlagsDefaults(t *testing.T) {
	fs := flag.NewFlagSet("mirror", flag.ContinueOnError)
	getCfg := RegisterMirrorFlags(fs)
	if err := fs.Parse(nil); err != nil {
		t.Fatalf("Parse: %v", err)
	}

	cfg := getCfg()
	if cfg.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", cfg.Host, DefaultHost)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Bitrate != DefaultBitrate {
		t.Errorf("Bitrate = %d, want %d", cfg.Bitrate, DefaultBitrate)
	}
	if !cfg.Audio {
		t.Error("Audio default = false, want true")
	}
	if cfg.TurnScreenOff {
		t.Error("TurnScreenOff default = true, want false")
	}
}

func TestRegisterMirrorFlagsNoAudioOverridesAudio(t *testing.T) {
	fs := flag.NewFlagSet("mirror", flag.ContinueOnError)
	getCfg := RegisterMirrorFlags(fs)
	if err := fs.Parse([]string{"--no-audio"}); err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg := getCfg(); cfg.Audio {
		t.Error("Audio = true with --no-audio set, want false")
	}
}

func TestDerivedPorts(t *testing.T) {
	cfg := MirrorConfig{Port: 8888}
	if cfg.VideoPort() != 8888 {
		t.Errorf("VideoPort() = %d, want 8888", cfg.VideoPort())
	}
	if cfg.ControlPort() != 8889 {
		t.Errorf("ControlPort() = %d, want 8889", cfg.ControlPort())
	}
	if cfg.AudioPort() != 8890 {
		t.Errorf("AudioPort() = %d, want 8890", cfg.AudioPort())
	}
}
