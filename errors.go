package mdext

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyMarkdown  = errors.New("markdown content cannot be empty")
	ErrHTMLConversion = errors.New("HTML conversion failed")

	// Registry setup errors. All are fatal and surfaced at setup time,
	// never during conversion.
	ErrDuplicateName    = errors.New("name already registered")
	ErrUnknownAnchor    = errors.New("anchor references unknown name")
	ErrCyclicConstraint = errors.New("anchor constraints form a cycle")

	// Plugin configuration errors.
	ErrConfiguration      = errors.New("invalid plugin configuration")
	ErrUnknownOption      = errors.New("unknown option")
	ErrInvalidOptionValue = errors.New("invalid option value")

	// Content-level degradations. These never abort a conversion; they
	// are recorded in the Report and the offending span is emitted as
	// literal text.
	ErrRecursionLimit = errors.New("inline recursion limit exceeded")

	// Snippet resolution errors.
	ErrSnippetNotFound = errors.New("snippet not found")
	ErrSnippetDepth    = errors.New("snippet nesting too deep")
)
