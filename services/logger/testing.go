package logsvc

import (
	"io"
	"log"

	"github.com/trezcool/findgreatschool/core"
)

// NewTestLogger returns a RollbarLogger that reports nothing and prints nothing.
func NewTestLogger() *RollbarLogger {
	l := NewRollbarLogger(log.New(io.Discard, "", 0), core.NewTestConfig())
	l.Enable(false)
	return l
}
