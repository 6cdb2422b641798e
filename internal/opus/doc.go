// Package opus handles encoding, decoding, and streaming of Opus audio frames
// for Discord voice playback.
//
// Audio travels in a minimal binary format: concatenated length-prefixed frames
// ([uint16 LE length][opus bytes]). No headers, no metadata.
//
// EncodeFile transcodes an audio file to Opus via FFmpeg, applying a volume
// gain, and produces length-prefixed frames. FrameReader reads them back.
// StreamToVoice sends decoded frames to a Discord voice connection.
package opus
