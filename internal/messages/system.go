package messages

// System messages for subprocess execution and locking.
const (
	// ProcEmptyCommand indicates a command was built without an executable.
	ProcEmptyCommand       = "command has no executable"
	ProcOpenPipeFmt        = "open output pipe for %s: %w"
	ProcStartFailedFmt     = "start %s: %w"
	ProcExitStatusFmt      = "%s exited with status %d"
	ProcKilledFmt          = "%s was terminated: %v"
	ProcReadOutputFmt      = "read output of %s: %w"
	ProcOutputTailHeader   = "last output:"
	ProcOutputTailLineFmt  = "  | %s"
	ProcCanceledFmt        = "%s canceled: %w"
	LockOpenFileFmt        = "open lock file %s: %w"
	LockAcquireFmt         = "lock %s: %w"
	LockTimeoutFmt         = "timed out after %s waiting for another deploy to release %s"
	EnvfileLineErrorFmt    = "line %d: %w"
	EnvfileReadFailedFmt   = "read env content: %w"
	EnvfileExpectedKeyVal  = "expected KEY=VALUE"
	EnvfileUnterminatedVal = "unterminated quoted value"
	EnvfileTrailingContent = "unexpected content after quoted value"
)
