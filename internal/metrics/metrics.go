// Package metrics exposes process-wide expvar counters for the pipeline.
// Counts are cheap and lock-free; they are write-only diagnostics for now
// (there is no HTTP surface in this repo to serve expvar's default
// /debug/vars handler from, unlike the teacher's gin-based bridge) — the
// "stats" CLI subcommand reads the device's own counters over the RPC
// control connection instead.
package metrics

import "expvar"

var (
	VideoPacketsRead    = expvar.NewInt("video_packets_read")
	VideoBytesRead      = expvar.NewInt("video_bytes_read")
	VideoPacketsDropped = expvar.NewInt("video_packets_dropped")
	VideoReconnects     = expvar.NewInt("video_reconnects")

	NALUCount       = expvar.NewInt("nalu_count")
	NALUSPS         = expvar.NewInt("nalu_sps")
	NALUPPS         = expvar.NewInt("nalu_pps")
	NALUIDR         = expvar.NewInt("nalu_idr")
	FramesDecoded   = expvar.NewInt("frames_decoded")
	DecoderResets   = expvar.NewInt("decoder_resets")
	WatchdogResets  = expvar.NewInt("watchdog_resets")
	FramesSkipped   = expvar.NewInt("frames_skipped_in_slot")
	FrameSlotPushes = expvar.NewInt("frame_slot_pushes")

	AudioPacketsRead    = expvar.NewInt("audio_packets_read")
	AudioPacketsDropped = expvar.NewInt("audio_packets_dropped")
	AudioSamplesDropped = expvar.NewInt("audio_samples_dropped")

	ControlWritesOK  = expvar.NewInt("control_writes_ok")
	ControlWritesErr = expvar.NewInt("control_writes_err")
	ControlRPCCalls  = expvar.NewInt("control_rpc_calls")
	ControlRPCErrs   = expvar.NewInt("control_rpc_errs")

	InputCommandsDropped = expvar.NewInt("input_commands_dropped")
)
