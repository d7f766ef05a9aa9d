package unienc

// SampleKind classifies an encoded sample. Metadata samples carry codec
// configuration and never have a meaningful timestamp; Key samples are
// independently decodable; Interpolated samples depend on prior samples.
type SampleKind int32

const (
	Metadata SampleKind = iota
	Key
	Interpolated
)

func (k SampleKind) String() string {
	switch k {
	case Metadata:
		return "metadata"
	case Key:
		return "key"
	case Interpolated:
		return "interpolated"
	default:
		return "unknown"
	}
}

// EncodedSample is the uniform contract every backend's encoded-data type
// satisfies: a mutable timestamp, a kind, and a restartable byte encoding
// so the sample can cross the C ABI or a process boundary and be
// reconstructed on the other side.
type EncodedSample interface {
	Timestamp() float64
	SetTimestamp(float64)
	Kind() SampleKind
	Encode() ([]byte, error)
}

// VideoFrame is the sum type a video encoder input accepts: either a CPU
// BGRA buffer or a GPU-resident texture routed through the graphics-event
// bridge. Exactly one of BGRAFrame/BlitSourceFrame implements it.
type VideoFrame interface {
	isVideoFrame()
	Width() uint32
	Height() uint32
}

// BGRAFrame is a CPU-side raw frame: a shared byte buffer of length
// 4*Width*Height, bottom-to-top or top-to-bottom per the host's convention.
type BGRAFrame struct {
	Buffer *SharedBuffer
	W, H   uint32
}

func (BGRAFrame) isVideoFrame()   {}
func (f BGRAFrame) Width() uint32 { return f.W }
func (f BGRAFrame) Height() uint32 {
	return f.H
}

// GraphicsEventIssuer schedules a closure to run on the host's render
// thread and reports completion; see internal/graphicsbridge.
type GraphicsEventIssuer interface {
	// Issue schedules fn to run on the render thread and blocks until it
	// has completed. The graphicsbridge implementation has no teardown
	// signal: it always returns nil, and does not return if fn never runs.
	Issue(fn func()) error
}

// BlitSourceFrame is a GPU-resident frame: an opaque platform-native
// texture handle that must be blitted into the encoder's own memory on the
// host's render thread before the encoder can touch it.
type BlitSourceFrame struct {
	NativeTexturePointer uintptr
	W, H                 uint32
	GraphicsFormat       uint32
	FlipVertically       bool
	IsGammaWorkflow      bool
	EventIssuer          GraphicsEventIssuer
}

func (BlitSourceFrame) isVideoFrame()    {}
func (f BlitSourceFrame) Width() uint32  { return f.W }
func (f BlitSourceFrame) Height() uint32 { return f.H }

// VideoSample pairs a VideoFrame with its presentation timestamp, in
// seconds, monotonic within a stream.
type VideoSample struct {
	Frame     VideoFrame
	Timestamp float64
}

// AudioSample is a buffer of 16-bit signed PCM, channel-interleaved, tagged
// with a sample-count-based timestamp. The sample rate and channel count
// are properties of the encoder, not of the buffer.
type AudioSample struct {
	Data               []int16
	TimestampInSamples uint64
}

// VideoEncoderOptions configures a video encoder at construction time.
type VideoEncoderOptions struct {
	Width   uint32
	Height  uint32
	FPSHint uint32
	Bitrate uint32
}

// AudioEncoderOptions configures an audio encoder at construction time.
type AudioEncoderOptions struct {
	SampleRate uint32
	Channels   uint32
	Bitrate    uint32
}
