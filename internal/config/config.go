// Package config parses the mirror host's CLI surface: global flags plus
// the mirror command's own flags, following the teacher's pattern of a
// function that registers flags on a *flag.FlagSet and returns a closure
// producing a typed options struct.
package config

import "flag"

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 8888
	DefaultBitrate     = 8_000_000
	DefaultMaxSize     = 1920
)

// MirrorConfig holds everything the app loop needs to start mirroring.
type MirrorConfig struct {
	Host           string
	Port           int
	Bitrate        uint32
	MaxSize        uint32
	Verbose        bool
	TurnScreenOff  bool
	Audio          bool
}

// VideoPort, ControlPort, AudioPort derive the three stream ports from
// the base port by convention (P, P+1, P+2).
func (c MirrorConfig) VideoPort() int   { return c.Port }
func (c MirrorConfig) ControlPort() int { return c.Port + 1 }
func (c MirrorConfig) AudioPort() int   { return c.Port + 2 }

// RegisterMirrorFlags registers the mirror subcommand's flags on fs and
// returns a closure that reads them back into a MirrorConfig once fs has
// been parsed.
func RegisterMirrorFlags(fs *flag.FlagSet) func() MirrorConfig {
	host := fs.String("host", DefaultHost, "on-device agent host")
	port := fs.Int("port", DefaultPort, "video stream port (control=port+1, audio=port+2)")
	bitrate := fs.Uint("bitrate", DefaultBitrate, "requested video bitrate")
	maxSize := fs.Uint("max-size", DefaultMaxSize, "requested max video dimension")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	turnScreenOff := fs.Bool("turn-screen-off", false, "turn the device screen off on start, back on on exit")
	audio := fs.Bool("audio", true, "enable audio playback")
	noAudio := fs.Bool("no-audio", false, "disable audio playback")

	return func() MirrorConfig {
		return MirrorConfig{
			Host:          *host,
			Port:          *port,
			Bitrate:       uint32(*bitrate),
			MaxSize:       uint32(*maxSize),
			Verbose:       *verbose,
			TurnScreenOff: *turnScreenOff,
			Audio:         *audio && !*noAudio,
		}
	}
}

// GlobalFlags are the --host/--port pair the one-shot subcommands accept
// after their subcommand name.
type GlobalFlags struct {
	Host string
	Port int
}

// RegisterGlobalFlags registers --host/--port for the one-shot
// subcommands (tap, stats, hierarchy).
func RegisterGlobalFlags(fs *flag.FlagSet) func() GlobalFlags {
	host := fs.String("host", DefaultHost, "on-device agent host")
	port := fs.Int("port", DefaultPort, "base port (control is port+1)")
	return func() GlobalFlags {
		return GlobalFlags{Host: *host, Port: *port}
	}
}
