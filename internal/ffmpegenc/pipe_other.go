//go:build !linux

package ffmpegenc

import "os"

// growPipeBuffer is a no-op outside Linux: F_SETPIPE_SZ is a Linux-only
// fcntl, and other Unixes size pipe buffers differently. The stub exists
// so process.go can call growPipeBuffer unconditionally.
func growPipeBuffer(f *os.File, size int) {}
