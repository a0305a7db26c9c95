// Package app owns the window, the frame slot, the renderer, and the
// handles to every long-lived worker goroutine: it is the only place
// that touches GPU state, and the only place InputCommand production
// (C7) is wired to actual socket I/O (C6).
package app

import (
	"sync/atomic"
	"time"

	"github.com/go-vgo/robotgo"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/cowby123/mirror-go/internal/audio"
	"github.com/cowby123/mirror-go/internal/config"
	"github.com/cowby123/mirror-go/internal/control"
	"github.com/cowby123/mirror-go/internal/frameslot"
	"github.com/cowby123/mirror-go/internal/h264"
	"github.com/cowby123/mirror-go/internal/input"
	"github.com/cowby123/mirror-go/internal/logx"
	"github.com/cowby123/mirror-go/internal/metrics"
	"github.com/cowby123/mirror-go/internal/render"
	"github.com/cowby123/mirror-go/internal/screenshot"
	"github.com/cowby123/mirror-go/internal/videoclient"
	"github.com/cowby123/mirror-go/internal/workerutil"
)

const (
	initialWindowW = 1280
	initialWindowH = 720
	pollIdleDelay  = 10 * time.Millisecond
)

// App is the event-loop owner: constructed once, torn down once, and the
// only thing that ever mutates GPU state.
type App struct {
	cfg config.MirrorConfig

	window *sdl.Window

	renderer  *render.Renderer
	frameSlot *frameslot.Slot
	lastFrame *h264.YuvFrame // most recent rendered frame, for screenshots

	video     *videoclient.Client
	control   *control.Client
	mapper    *input.Mapper
	decHandle workerutil.Handle

	audioReceiver *audio.Receiver
	audioDecoder  *audio.Decoder
	audioPlayer   *audio.Player

	sendHandle workerutil.Handle

	surfW, surfH atomic.Int64
	frameW, frameH atomic.Int64

	quit atomic.Bool
}

// New wires every component in the order the design calls for: frame
// slot, control client, window, renderer (renderer is actually deferred
// until the first frame's dimensions are known).
func New(cfg config.MirrorConfig) (*App, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, frameSlot: frameslot.New()}
	a.surfW.Store(initialWindowW)
	a.surfH.Store(initialWindowH)
	a.frameW.Store(initialWindowW)
	a.frameH.Store(initialWindowH)

	cc, err := control.Dial(cfg.Host, cfg.ControlPort())
	if err != nil {
		sdl.Quit()
		return nil, err
	}
	a.control = cc

	window, err := sdl.CreateWindow("mirror", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		initialWindowW, initialWindowH, sdl.WINDOW_OPENGL|sdl.WINDOW_RESIZABLE|sdl.WINDOW_SHOWN)
	if err != nil {
		cc.Close()
		sdl.Quit()
		return nil, err
	}
	a.window = window

	a.mapper = input.New(a)
	a.mapper.ScreenshotRequested = a.saveScreenshot

	a.video = videoclient.New(videoclient.Options{
		Host: cfg.Host, Port: cfg.VideoPort(),
		Bitrate: cfg.Bitrate, MaxSize: cfg.MaxSize,
	})

	if cfg.Audio {
		a.audioReceiver = audio.New(audio.Options{Host: cfg.Host, Port: cfg.AudioPort()})
		a.audioDecoder = audio.NewDecoder(a.audioReceiver.Packets)
		player, err := audio.NewPlayer(a.audioDecoder.Samples)
		if err != nil {
			logx.Errorf("APP", "audio output device unavailable, continuing without audio: %v", err)
		} else {
			a.audioPlayer = player
		}
	}

	return a, nil
}

// SurfaceSize implements input.Surface.
func (a *App) SurfaceSize() (int, int) { return int(a.surfW.Load()), int(a.surfH.Load()) }

// FrameSize implements input.Surface.
func (a *App) FrameSize() (int, int) { return int(a.frameW.Load()), int(a.frameH.Load()) }

// Run starts every worker goroutine and then pumps the SDL event loop on
// the calling goroutine until the window is closed or an exit is
// requested. It must be called from the thread that created the window.
func (a *App) Run() error {
	workerutil.Go("video-client", a.video.Run)
	a.decHandle.Start()
	workerutil.Go("h264-decoder", a.decodeLoop)
	a.sendHandle.Start()
	workerutil.Go("input-sender", a.sendLoop)

	if a.audioReceiver != nil {
		workerutil.Go("audio-receiver", a.audioReceiver.Run)
		workerutil.Go("audio-decoder", a.audioDecoder.Run)
	}
	if a.audioPlayer != nil {
		if err := a.audioPlayer.Start(); err != nil {
			logx.Errorf("APP", "audio playback start failed: %v", err)
		}
	}

	if a.cfg.TurnScreenOff {
		if err := a.control.SendInput(control.SetScreenPowerMode{Mode: control.ScreenPowerModeOff}); err != nil {
			logx.Errorf("APP", "turn screen off: %v", err)
		}
	}
	defer a.restoreScreenOnExit()

	for !a.quit.Load() {
		a.pumpEvents()

		if f := a.frameSlot.Consume(); f != nil {
			a.onFrame(f)
		}

		time.Sleep(pollIdleDelay)
	}

	a.shutdown()
	return nil
}

// onFrame rebuilds the renderer if the frame's resolution changed, then
// renders it and remembers it for screenshots.
func (a *App) onFrame(f *h264.YuvFrame) {
	a.lastFrame = f

	needRebuild := a.renderer == nil
	if a.renderer != nil {
		w, h := a.renderer.Dimensions()
		needRebuild = w != f.Width || h != f.Height
	}
	if needRebuild {
		if a.renderer != nil {
			a.renderer.Close()
		}
		a.window.SetSize(int32(f.Width), int32(f.Height))
		sw, sh := a.window.GetSize()
		r, err := render.New(a.window, f.Width, f.Height, int(sw), int(sh))
		if err != nil {
			logx.Fatalf("APP", "renderer init failed: %v", err)
		}
		a.renderer = r
		a.frameW.Store(int64(f.Width))
		a.frameH.Store(int64(f.Height))
		a.surfW.Store(int64(sw))
		a.surfH.Store(int64(sh))
	}

	if err := a.renderer.Render(f); err != nil {
		logx.Errorf("APP", "render frame: %v", err)
	}
}

func (a *App) pumpEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			a.quit.Store(true)
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				sw, sh := a.window.GetSize()
				a.surfW.Store(int64(sw))
				a.surfH.Store(int64(sh))
				if a.renderer != nil {
					a.renderer.Resize(int(sw), int(sh))
				}
			}
		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN {
				a.mapper.HandleMouseButtonDown(e.Button, float64(e.X), float64(e.Y))
			} else if e.Type == sdl.MOUSEBUTTONUP {
				a.mapper.HandleMouseButtonUp(e.Button, float64(e.X), float64(e.Y))
			}
		case *sdl.KeyboardEvent:
			a.mapper.SetModifier(sdl.GetModState())
			if e.Type == sdl.KEYDOWN && e.Repeat == 0 {
				a.mapper.HandleKeyDown(e.Keysym.Sym)
			} else if e.Type == sdl.KEYUP {
				a.mapper.HandleKeyUp(e.Keysym.Sym)
			}
		}
	}
}

// decodeLoop is the C3 worker: it owns the Assembler exclusively, feeding
// it bytes from the video client's packet queue and pushing any decoded
// frames into the frame slot.
func (a *App) decodeLoop() {
	defer a.decHandle.Done()

	assembler, err := h264.NewAssembler()
	if err != nil {
		logx.Fatalf("APP", "failed to create h264 decoder: %v", err)
	}
	defer assembler.Close()

	for a.decHandle.Running() {
		select {
		case pkt, ok := <-a.video.Packets:
			if !ok {
				return
			}
			for _, frame := range assembler.Feed(pkt.Data) {
				metrics.FrameSlotPushes.Add(1)
				if a.frameSlot.Push(frame) {
					metrics.FramesSkipped.Add(1)
				}
			}
		case <-time.After(100 * time.Millisecond):
		}
	}
}

// sendLoop is the input-command-sender worker: it drains the mapper's
// command queue and dispatches each command over the appropriate control
// socket — RPC commands wait for a reply, everything else is fire-and-
// forget on the input connection.
func (a *App) sendLoop() {
	defer a.sendHandle.Done()

	for a.sendHandle.Running() {
		select {
		case cmd, ok := <-a.mapper.Commands:
			if !ok {
				return
			}
			a.dispatch(cmd)
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func (a *App) dispatch(cmd control.Command) {
	switch c := cmd.(type) {
	case control.GetClipboard:
		resp, err := a.control.RPC(c)
		if err != nil {
			logx.Errorf("APP", "get_clipboard rpc: %v", err)
			return
		}
		text, _ := resp["text"].(string)
		if err := robotgo.WriteAll(text); err != nil {
			logx.Errorf("APP", "write device clipboard to host: %v", err)
		}
	default:
		if err := a.control.SendInput(cmd); err != nil {
			logx.Errorf("APP", "send input command %s: %v", cmd.Cmd(), err)
		}
	}
}

func (a *App) saveScreenshot() {
	f := a.lastFrame
	if f == nil {
		return
	}
	if _, err := screenshot.Save(f, screenshot.DefaultDir(), time.Now()); err != nil {
		logx.Errorf("APP", "screenshot: %v", err)
	}
}

// restoreScreenOnExit is deferred in Run, so it runs when Run returns and
// when a panic unwinds through Run, leaving the device screen on. A
// process exit through logx.Fatalf (os.Exit) or an unhandled OS signal
// skips it.
func (a *App) restoreScreenOnExit() {
	if !a.cfg.TurnScreenOff {
		return
	}
	oneShot, err := control.Dial(a.cfg.Host, a.cfg.ControlPort())
	if err != nil {
		logx.Errorf("APP", "restore screen power on exit: %v", err)
		return
	}
	defer oneShot.Close()
	if err := oneShot.SendInput(control.SetScreenPowerMode{Mode: control.ScreenPowerModeOn}); err != nil {
		logx.Errorf("APP", "restore screen power on exit: %v", err)
	}
}

func (a *App) shutdown() {
	a.video.Stop()
	a.decHandle.Stop()
	a.sendHandle.Stop()
	if a.audioReceiver != nil {
		a.audioReceiver.Stop()
		a.audioDecoder.Stop()
	}
	if a.audioPlayer != nil {
		a.audioPlayer.Close()
	}
	a.control.Close()
	if a.renderer != nil {
		a.renderer.Close()
	}
	a.window.Destroy()
	sdl.Quit()
}
