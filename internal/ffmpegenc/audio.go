package ffmpegenc

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/CyberAgentGameEntertainment/unienc"
)

// audioEncoder spawns ffmpeg to read raw s16le PCM on stdin and produce an
// ADTS AAC byte stream on stdout.
type audioEncoder struct {
	proc       *process
	sampleRate uint32
	channels   uint32

	sentMeta           bool
	timestampInSamples uint64
}

func newAudioEncoder(opts unienc.AudioEncoderOptions) (*audioEncoder, error) {
	if opts.SampleRate == 0 || opts.Channels == 0 {
		return nil, unienc.ErrConfiguration("audio encoder options must set sample_rate and channels")
	}

	b := newBuilder().input(
		"-f", "s16le",
		"-ar", fmt.Sprintf("%d", opts.SampleRate),
		"-ac", fmt.Sprintf("%d", opts.Channels),
	)
	proc, err := b.build([]string{"-f", "adts"}, toStdout())
	if err != nil {
		return nil, err
	}

	return &audioEncoder{proc: proc, sampleRate: opts.SampleRate, channels: opts.Channels}, nil
}

func (e *audioEncoder) Split() (unienc.EncoderInput[unienc.AudioSample], unienc.EncoderOutput, error) {
	return &audioEncoderInput{e: e}, &audioEncoderOutput{e: e}, nil
}

type audioEncoderInput struct{ e *audioEncoder }

func (in *audioEncoderInput) Push(ctx context.Context, sample unienc.AudioSample) error {
	buf := int16SliceToBytes(sample.Data)
	if _, err := in.e.proc.inputs[0].Write(buf); err != nil {
		return unienc.ErrCommunication("write audio samples to ffmpeg: %v", err)
	}
	return nil
}

func (in *audioEncoderInput) Finish(ctx context.Context) error {
	if err := in.e.proc.inputs[0].Close(); err != nil {
		return unienc.ErrCommunication("close ffmpeg audio stdin: %v", err)
	}
	return nil
}

type audioEncoderOutput struct{ e *audioEncoder }

func (out *audioEncoderOutput) Pull(ctx context.Context) (unienc.EncodedSample, error) {
	e := out.e

	// The ADTS stream carries no separate config record (each frame is
	// self-describing), so the first pull synthesizes the Metadata sample
	// the muxer track needs before it will accept media data.
	if !e.sentMeta {
		e.sentMeta = true
		return &audioEncodedData{isMetadata: true, sampleRate: e.sampleRate, channels: e.channels}, nil
	}

	// 7-byte headers only: ffmpeg's adts muxer always writes
	// protection_absent=1, so no CRC bytes follow.
	header := make([]byte, 7)
	if _, err := io.ReadFull(e.proc.stdout, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, e.proc.wait()
		}
		return nil, unienc.ErrCommunication("read ADTS header: %v", err)
	}

	length := (uint16(header[3]&0b11) << 11) | (uint16(header[4]) << 3) | (uint16(header[5]) >> 5)
	if length < 7 {
		return nil, unienc.ErrEncoding("invalid ADTS frame length")
	}
	length -= 7

	payload := make([]byte, length)
	if _, err := io.ReadFull(e.proc.stdout, payload); err != nil {
		return nil, unienc.ErrCommunication("read ADTS payload: %v", err)
	}

	ts := e.timestampInSamples
	e.timestampInSamples += 1024 // ADTS always carries 1024 samples/channel.

	return &audioEncodedData{
		header:     header,
		payload:    payload,
		sampleRate: e.sampleRate,
		channels:   e.channels,
		timestamp:  float64(ts) / float64(e.sampleRate),
	}, nil
}

func int16SliceToBytes(data []int16) []byte {
	buf := make([]byte, len(data)*2)
	for i, v := range data {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(v))
	}
	return buf
}
