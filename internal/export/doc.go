// Package export drives the DOCX and PDF export pipelines and saving.
//
// Every run first pushes the caller's record into shared state, then encodes
// what the state now holds. That encoded snapshot is what the document writer
// receives:
//
//	DOCX: syncing → serializing → rendering → done
//	PDF:  syncing → serializing → rendering → printing → cleanup → done
//	Save: syncing → serializing → writing → done
//
// Any stage failure ends the run in the failed stage with a *StageError. Runs
// are not retried or resumed; callers start over from the top.
//
// For PDF the writer emits <name>_temp.html and <name>_temp.docx next to the
// target. Cleanup removes both after printing, whether printing succeeded or
// not, attempting each deletion independently. Cleanup failures are returned
// in Report.CleanupErr and leave a successful print successful.
package export
