package dag

import "errors"

// Kind classifies repository errors so callers can decide how to report them.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvalidState
	KindConflict
	KindNoOp
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindNotFound:     "not found",
	KindInvalidState: "invalid state",
	KindConflict:     "conflict",
	KindNoOp:         "no-op",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a user-facing repository error with a fixed message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// KindOf returns the Kind of the first *Error in err's chain, or KindUnknown
// for plain I/O and decoding failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

var (
	ErrNotInitialized   = &Error{KindNotFound, "Not in an initialized gitlet directory."}
	ErrAlreadyExists    = &Error{KindInvalidState, "A gitlet version-control system already exists in the current directory."}
	ErrLocked           = &Error{KindInvalidState, "Another gitlet command is running in this repository."}
	ErrObjectNotFound   = &Error{KindNotFound, "No object with that id exists."}
	ErrFileNotExist     = &Error{KindNotFound, "File does not exist."}
	ErrEmptyMessage     = &Error{KindInvalidState, "Please enter a commit message."}
	ErrNothingToCommit  = &Error{KindInvalidState, "No changes added to the commit."}
	ErrNoReasonToRemove = &Error{KindInvalidState, "No reason to remove the file."}

	ErrNoCommitWithMessage = &Error{KindNotFound, "Found no commit with that message."}
	ErrNoSuchCommit        = &Error{KindNotFound, "No commit with that id exists."}
	ErrAmbiguousCommit     = &Error{KindInvalidState, "Commit id prefix is ambiguous."}
	ErrFileNotInCommit     = &Error{KindNotFound, "File does not exist in that commit."}

	ErrBranchExists        = &Error{KindInvalidState, "A branch with that name already exists."}
	ErrNoBranchWithName    = &Error{KindNotFound, "A branch with that name does not exist."}
	ErrRemoveCurrentBranch = &Error{KindInvalidState, "Cannot remove the current branch."}
	ErrInvalidBranchName   = &Error{KindInvalidState, "Invalid branch name."}
	ErrNoSuchBranch        = &Error{KindNotFound, "No such branch exists."}
	ErrNoNeedToCheckout    = &Error{KindNoOp, "No need to checkout the current branch."}
	ErrUntrackedInTheWay   = &Error{KindConflict, "There is an untracked file in the way; delete it or add it first."}

	ErrUncommittedChanges = &Error{KindInvalidState, "You have uncommitted changes."}
	ErrMergeWithSelf      = &Error{KindInvalidState, "Cannot merge a branch with itself."}
)
