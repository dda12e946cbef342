package pipeline

import "fmt"

// Stage tags for progress events.
const (
	StageExtract  = "extract"
	StageClassify = "classify"
	StageDone     = "done"
)

// ProgressEvent is one entry of the append-only progress stream a running
// pipeline emits to its caller. Display only: it carries no control
// information, and dropping events does not affect the final result.
type ProgressEvent struct {
	Stage   string `json:"stage"`
	Message string `json:"message"`
}

// emitter delivers progress events best-effort. A full or nil channel drops
// the event rather than blocking the pipeline.
type emitter struct {
	ch chan<- ProgressEvent
}

func (e emitter) emit(stage, format string, args ...any) {
	if e.ch == nil {
		return
	}
	select {
	case e.ch <- ProgressEvent{Stage: stage, Message: fmt.Sprintf(format, args...)}:
	default:
	}
}
