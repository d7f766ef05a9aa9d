// Command capi is unienc's C ABI boundary: every unienc_* extern "C"
// function a host links against directly. Built with -buildmode=c-shared,
// it produces a .so/.dll/.dylib plus a generated header the host's binding
// generator consumes.
//
// Every opaque handle the host holds is a uintptr minted by
// internal/handles; passing the zero handle to any free_* function is a
// no-op, and an asynchronous operation given the zero or an unknown handle
// reports an error through its callback. Asynchronous operations (factories, encoder push/pull, muxer
// push/finish, buffer alloc) take a (callback, user_data) pair and invoke
// the callback exactly once — with success/data or with error/null-data.
// Host-supplied function pointers are invoked via purego.SyscallN rather
// than a cgo call-out shim.
package main

/*
#include <stdint.h>

// Callback shapes this library invokes on the host's behalf. capi never
// declares these as real C function-pointer typedefs here because every
// exported function accepts the pointer as a plain uintptr_t and invokes
// it via purego.SyscallN — the same "avoid a cgo call-out shim" tradeoff
// internal/graphicsbridge already makes for UniencIssueGraphicsEventCallback.
//
//   typedef void (*UniencCallback)(void *user_data, int32_t kind, const char *message);
//   typedef void (*UniencDataCallback)(const uint8_t *ptr, uint64_t size,
//                                      const double *timestamp, int32_t kind,
//                                      void *user_data, int32_t error_kind,
//                                      const char *error_message);
*/
import "C"

func main() {} // required by -buildmode=c-shared; the host never calls this.
