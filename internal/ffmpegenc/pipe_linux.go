//go:build linux

package ffmpegenc

import (
	"os"

	"golang.org/x/sys/unix"
)

// growPipeBuffer raises a pipe's kernel buffer past the default 64KiB via
// fcntl(F_SETPIPE_SZ): a single 1280x720 BGRA frame is ~3.5MiB, so the
// default buffer forces a write/read handoff every 64KiB; a larger buffer
// cuts the number of handoffs per frame. Best effort: an unprivileged process may be capped
// below the requested size by /proc/sys/fs/pipe-max-size, which is not a
// failure worth surfacing.
func growPipeBuffer(f *os.File, size int) {
	_, _ = unix.FcntlInt(f.Fd(), unix.F_SETPIPE_SZ, size)
}
