package engine

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentGoroutineID parses the goroutine id out of the runtime stack
// header ("goroutine N [running]:"). It is used only for the
// designated-goroutine assertion, never on a hot path.
func currentGoroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i >= 0 {
		buf = buf[:i]
	}
	id, err := strconv.ParseUint(string(buf), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
