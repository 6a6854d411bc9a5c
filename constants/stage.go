package constants

// Stage is the canonical pipeline stage written into meta.stage.
type Stage string

// Stable values (serialized verbatim, do not rename).
const (
	StageStart             Stage = "start"
	StageExtractText       Stage = "extract_text"
	StageChunk             Stage = "chunk"
	StageExtractCandidates Stage = "extract_candidates"
	StageMerge             Stage = "merge"
	StageSummarize         Stage = "summarize"
	StageDone              Stage = "done"
	StageError             Stage = "error" // terminal failure
)
