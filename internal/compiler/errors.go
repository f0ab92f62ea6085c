package compiler

import "fmt"

// ErrorKind classifies compile failures. Every kind is fatal to the whole
// compile; there is no recoverable subset.
type ErrorKind int

const (
	// MissingInitialSource: a target declares no steps at all, so there
	// is no source to anchor the chain.
	MissingInitialSource ErrorKind = iota
	// DanglingOperation: an operation step appears before any source is
	// established.
	DanglingOperation
	// AmbiguousProducer: a mid-chain source switch found zero or more
	// than one producer for the artifact being redirected, or an artifact
	// would gain a second producer.
	AmbiguousProducer
	// CyclicEdge: a new edge's target path equals its source path.
	CyclicEdge
	// EmptyChain: a target has no non-postprocess operations at all.
	EmptyChain
	// OperationValidationFailed: an operation kind is unknown, or its
	// validate() rejected the step's final config.
	OperationValidationFailed
	// NoDefaultTargets: the compiled graph yields zero terminal targets.
	NoDefaultTargets
)

// String returns the kind's stable name.
func (k ErrorKind) String() string {
	switch k {
	case MissingInitialSource:
		return "MissingInitialSource"
	case DanglingOperation:
		return "DanglingOperation"
	case AmbiguousProducer:
		return "AmbiguousProducer"
	case CyclicEdge:
		return "CyclicEdge"
	case EmptyChain:
		return "EmptyChain"
	case OperationValidationFailed:
		return "OperationValidationFailed"
	case NoDefaultTargets:
		return "NoDefaultTargets"
	}
	return "UnknownError"
}

// Error is a structured compile failure carrying the offending target,
// the step index within its chain (-1 when no single step applies), and
// the error kind.
type Error struct {
	Target string
	Step   int
	Kind   ErrorKind
	// Cause is an optional underlying error, e.g. an operation's own
	// validation failure.
	Cause error
	// Detail is a human-readable elaboration.
	Detail string
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Target != "" {
		msg = fmt.Sprintf("%s: target %q", msg, e.Target)
	}
	if e.Step >= 0 {
		msg = fmt.Sprintf("%s, step %d", msg, e.Step)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(target string, step int, kind ErrorKind, detail string) *Error {
	return &Error{Target: target, Step: step, Kind: kind, Detail: detail}
}
