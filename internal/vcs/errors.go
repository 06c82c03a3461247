package vcs

import "errors"

// Common errors returned by VCS operations.
//
// These errors can be checked using errors.Is() for proper error handling:
//
//	if errors.Is(err, vcs.ErrDiverged) {
//	    // Fast-forward impossible; needs a human
//	}
var (
	// ErrNotRepository is returned when the target path is not inside
	// a VCS repository working directory.
	ErrNotRepository = errors.New("not a git repository")

	// ErrVCSNotAvailable is returned when the git binary is not
	// installed or not in PATH.
	ErrVCSNotAvailable = errors.New("git binary not available")

	// ErrDetached is returned when an operation requires being on a
	// branch but HEAD is detached.
	ErrDetached = errors.New("not on a branch")

	// ErrNoUpstream is returned when the current branch has no upstream
	// tracking ref configured.
	ErrNoUpstream = errors.New("no upstream tracking ref configured")

	// ErrNetwork is returned when a fetch or push cannot reach the remote.
	// Recoverable: the next cycle retries.
	ErrNetwork = errors.New("remote unreachable")

	// ErrPushRejected is returned when a push is rejected by the remote,
	// typically because the remote advanced past local (non-fast-forward).
	ErrPushRejected = errors.New("push rejected by remote")

	// ErrDiverged is returned when a fast-forward integration is impossible
	// because local HEAD is not an ancestor of upstream. A true merge
	// would be required; the engine never attempts one.
	ErrDiverged = errors.New("local and upstream histories have diverged")

	// ErrStashConflict is returned when restoring a stash conflicts with
	// the working tree. The stash entry is preserved, never dropped.
	ErrStashConflict = errors.New("stash restore conflicted")
)

// CommandError represents a failed VCS command. It captures the operation,
// its arguments, and the command output so logs carry full context, and it
// wraps one of the sentinel errors above (or the raw exec error) for
// errors.Is checks.
type CommandError struct {
	Operation string
	Args      []string
	Output    string
	Err       error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	msg := "git " + e.Operation + " failed"
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// IsRecoverable returns true if the next sync cycle may succeed without
// any external intervention.
func IsRecoverable(err error) bool {
	if err == nil {
		return false
	}

	// Transient network failures clear on their own
	if errors.Is(err, ErrNetwork) {
		return true
	}

	// A rejected push is reconciled by the next cycle's download flow
	if errors.Is(err, ErrPushRejected) {
		return true
	}

	return false
}

// NeedsAttention returns true if the error will recur every cycle until a
// human resolves the underlying state (diverged history, orphaned stash).
func NeedsAttention(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrDiverged) {
		return true
	}

	if errors.Is(err, ErrStashConflict) {
		return true
	}

	return false
}

// IsFatal returns true if the error indicates a configuration problem the
// process cannot run with at all.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrNotRepository) {
		return true
	}

	if errors.Is(err, ErrVCSNotAvailable) {
		return true
	}

	return false
}
