// Package ffmpegenc is the FFmpeg backend, used on Unix targets without a
// native platform codec SDK. It drives real `ffmpeg` children over pipes:
// one per encoder (rawvideo→H.264 Annex-B, s16le→ADTS AAC) and one for the
// remux into the MP4 output, splitting the encoder byte streams into NAL
// units and ADTS frames itself.
package ffmpegenc

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/CyberAgentGameEntertainment/unienc"
	"github.com/CyberAgentGameEntertainment/unienc/internal/telemetry"
)

// binaryPath caches the resolved ffmpeg executable across every child
// spawned for the process's lifetime.
var (
	binaryOnce sync.Once
	binaryPath string
	binaryErr  error
)

func resolveBinary() (string, error) {
	binaryOnce.Do(func() {
		p, err := exec.LookPath("ffmpeg")
		if err == nil {
			binaryPath = p
			return
		}
		// errors.Wrap attaches a stack trace to the LookPath failure (missing
		// binary vs. missing permission vs. missing PATH entry all look the
		// same by message alone); Categorize still only sees the ABI kind.
		binaryErr = unienc.ErrInitialization("ffmpeg binary not found on PATH: %v", errors.Wrap(err, "resolve ffmpeg"))
	})
	return binaryPath, binaryErr
}

// destination is where the subprocess's encoded output goes.
type destination struct {
	path      string // non-empty for a file destination
	useStdout bool
}

func toStdout() destination          { return destination{useStdout: true} }
func toPath(path string) destination { return destination{path: path} }

// process wraps a running ffmpeg child: one or more piped stdin-equivalent
// inputs (stdin for the first, extra files for the rest, since ffmpeg
// accepts "pipe:N" as an input URL for any inherited fd) and, optionally,
// a piped stdout.
type process struct {
	cmd    *exec.Cmd
	inputs []io.WriteCloser
	stdout io.ReadCloser

	waitOnce sync.Once
	waitErr  error
}

// builder accumulates per-input ffmpeg args (e.g. "-f rawvideo -pixel_format
// bgra -video_size 1280x720 -framerate 30") before build spawns the child
// with the given output args and destination.
type builder struct {
	inputArgs [][]string
}

func newBuilder() *builder { return &builder{} }

func (b *builder) input(args ...string) *builder {
	b.inputArgs = append(b.inputArgs, args)
	return b
}

// build spawns ffmpeg with one piped input per call to input(), in order:
// the first becomes stdin, subsequent ones become extra inherited file
// descriptors referenced as pipe:N in the input arg list order.
func (b *builder) build(outputArgs []string, dest destination) (*process, error) {
	bin, err := resolveBinary()
	if err != nil {
		return nil, err
	}

	args := []string{"-y", "-loglevel", "error"}

	var extraFiles []*os.File
	var writers []io.WriteCloser

	for i, inArgs := range b.inputArgs {
		args = append(args, inArgs...)
		if i == 0 {
			args = append(args, "-i", "pipe:0")
			continue
		}
		r, w, perr := os.Pipe()
		if perr != nil {
			return nil, unienc.ErrResourceAllocation("create input pipe: %v", perr)
		}
		growPipeBuffer(w, 1<<20)
		fd := 3 + len(extraFiles)
		extraFiles = append(extraFiles, r)
		writers = append(writers, w)
		args = append(args, "-i", fmt.Sprintf("pipe:%d", fd))
	}

	args = append(args, outputArgs...)
	if dest.useStdout {
		args = append(args, "pipe:1")
	} else {
		args = append(args, dest.path)
	}

	cmd := exec.Command(bin, args...)
	cmd.ExtraFiles = extraFiles
	cmd.Stderr = nil

	var stdin io.WriteCloser
	if len(b.inputArgs) > 0 {
		stdin, err = cmd.StdinPipe()
		if err != nil {
			return nil, unienc.ErrResourceAllocation("open ffmpeg stdin: %v", err)
		}
		if f, ok := stdin.(*os.File); ok {
			growPipeBuffer(f, 1<<20)
		}
	}

	var stdout io.ReadCloser
	if dest.useStdout {
		stdout, err = cmd.StdoutPipe()
		if err != nil {
			return nil, unienc.ErrResourceAllocation("open ffmpeg stdout: %v", err)
		}
	}

	log := telemetry.For("ffmpegenc")
	log.Debug().Strs("args", args).Msg("spawning ffmpeg")

	if err := cmd.Start(); err != nil {
		return nil, unienc.ErrInitialization("start ffmpeg: %v", err)
	}

	// Parent no longer needs the read ends it handed to the child.
	for _, r := range extraFiles {
		_ = r.Close()
	}

	inputs := make([]io.WriteCloser, 0, len(b.inputArgs))
	if stdin != nil {
		inputs = append(inputs, stdin)
	}
	inputs = append(inputs, writers...)

	return &process{cmd: cmd, inputs: inputs, stdout: stdout}, nil
}

func (p *process) wait() error {
	p.waitOnce.Do(func() {
		err := p.cmd.Wait()
		if err != nil {
			p.waitErr = unienc.ErrEncoding("ffmpeg exited with error: %v", errors.Wrap(err, "wait for ffmpeg"))
			return
		}
		if !p.cmd.ProcessState.Success() {
			p.waitErr = unienc.ErrEncoding("ffmpeg exited with status %s", p.cmd.ProcessState.String())
		}
	})
	return p.waitErr
}

// h264EncoderPreference orders hardware encoders ahead of libx264; the
// probe parses `ffmpeg -encoders` and picks the first advertised match,
// falling back to the bare codec name so ffmpeg's own default selection
// applies.
var h264EncoderPreference = []string{
	"h264_nvenc", "h264_videotoolbox", "h264_qsv", "h264_vaapi", "h264_mf", "libx264",
}

func bestH264Encoder(ctx context.Context) (string, error) {
	bin, err := resolveBinary()
	if err != nil {
		return "", err
	}
	cmd := exec.CommandContext(ctx, bin, "-hide_banner", "-encoders")
	out, err := cmd.Output()
	if err != nil {
		return "", unienc.ErrInitialization("probe ffmpeg encoders: %v", err)
	}

	available := map[string]bool{}
	scanner := bufio.NewScanner(strings.NewReader(string(out)))
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		for _, f := range fields {
			if strings.HasPrefix(f, "h264") {
				available[f] = true
			}
		}
	}

	for _, candidate := range h264EncoderPreference {
		if available[candidate] {
			return candidate, nil
		}
	}
	return "h264", nil
}
