package ffmpegenc

// naluReader splits an Annex-B byte stream (0x000001 or 0x00000001 start
// codes) into individual NAL units, buffering partial data across pushes.
// Classification only needs the NAL unit type (the low 5 bits of the first
// byte after the start code), so no bitstream parsing beyond the header
// byte happens here.
type naluReader struct {
	buf []byte
}

type nalUnit struct {
	refIdc uint8
	typ    uint8
	rbsp   []byte // NAL payload, including the header byte
}

const (
	nalTypeSPS      = 7
	nalTypePPS      = 8
	nalTypeSlice    = 1
	nalTypeSliceIDR = 5
)

// findStartCode returns the index of the first 00 00 01 sequence and the
// index immediately following it, or ok=false if none is present.
func findStartCode(data []byte) (start, after int, ok bool) {
	for i := 0; i+2 < len(data); i++ {
		if data[i] == 0 && data[i+1] == 0 && data[i+2] == 1 {
			s := i
			for s > 0 && data[s-1] == 0 {
				s--
			}
			return s, i + 3, true
		}
	}
	return 0, 0, false
}

// push appends data and emits every complete NAL unit now bufferable.
func (r *naluReader) push(data []byte, emit func(nalUnit)) {
	r.buf = append(r.buf, data...)
	r.drain(emit)
}

func (r *naluReader) drain(emit func(nalUnit)) {
	for {
		start, after, ok := findStartCode(r.buf)
		if !ok || start != 0 {
			return
		}
		rest := r.buf[after:]
		nextStart, _, ok2 := findStartCode(rest)
		if !ok2 {
			return
		}
		payload := rest[:nextStart]
		emitNalu(payload, emit)
		r.buf = rest[nextStart:]
	}
}

// end flushes any NAL unit still buffered at end of stream.
func (r *naluReader) end(emit func(nalUnit)) {
	start, after, ok := findStartCode(r.buf)
	if !ok || start != 0 || after >= len(r.buf) {
		r.buf = nil
		return
	}
	emitNalu(r.buf[after:], emit)
	r.buf = nil
}

func emitNalu(payload []byte, emit func(nalUnit)) {
	if len(payload) == 0 {
		return
	}
	header := payload[0]
	emit(nalUnit{
		refIdc: (header >> 5) & 0x3,
		typ:    header & 0x1f,
		rbsp:   payload,
	})
}
