package export

import "fmt"

// Stage is a step of one export run.
type Stage int

const (
	StageSyncing Stage = iota
	StageSerializing
	StageRendering
	StagePrinting
	StageCleanup
	StageWriting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageSyncing:
		return "syncing"
	case StageSerializing:
		return "serializing"
	case StageRendering:
		return "rendering"
	case StagePrinting:
		return "printing"
	case StageCleanup:
		return "cleanup"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// StageError reports the stage an export failed in. Err carries an
// apperr code.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
