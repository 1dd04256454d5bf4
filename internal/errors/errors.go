// Package errors provides structured error types for probemap operations.
package errors

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrorKind represents the category of an error.
type ErrorKind int

const (
	// KindIO represents I/O errors.
	KindIO ErrorKind = iota
	// KindCommand represents external command execution errors.
	KindCommand
	// KindProbeParse represents probe text that could not be parsed.
	KindProbeParse
	// KindRuleConfig represents a malformed rule definition.
	KindRuleConfig
	// KindProfile represents profile file loading or lookup errors.
	KindProfile
	// KindInvalidMedia represents use of a MediaInfo that failed parsing.
	KindInvalidMedia
	// KindNoFilesFound represents no suitable video files found.
	KindNoFilesFound
	// KindCancelled represents user-cancelled operations.
	KindCancelled
	// KindValidation represents a transcode whose output failed checks.
	KindValidation
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindCommand:
		return "Command error"
	case KindProbeParse:
		return "Probe parse error"
	case KindRuleConfig:
		return "Rule configuration error"
	case KindProfile:
		return "Profile error"
	case KindInvalidMedia:
		return "Invalid media"
	case KindNoFilesFound:
		return "No files found"
	case KindCancelled:
		return "Operation cancelled"
	case KindValidation:
		return "Validation error"
	default:
		return "Unknown error"
	}
}

// CommandErrorKind represents the type of command error.
type CommandErrorKind int

const (
	// CommandStart means the command failed to start.
	CommandStart CommandErrorKind = iota
	// CommandFailed means the command returned non-zero exit status.
	CommandFailed
)

// CommandError represents an error from executing an external command.
type CommandError struct {
	Command    string
	Kind       CommandErrorKind
	ExitCode   int
	Stderr     string
	Underlying error
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case CommandStart:
		return fmt.Sprintf("failed to execute %s: %v", e.Command, e.Underlying)
	case CommandFailed:
		if e.Stderr != "" {
			return fmt.Sprintf("command %s failed with exit code %d: %s", e.Command, e.ExitCode, e.Stderr)
		}
		return fmt.Sprintf("command %s failed with exit code %d", e.Command, e.ExitCode)
	default:
		return fmt.Sprintf("command %s error: %v", e.Command, e.Underlying)
	}
}

func (e *CommandError) Unwrap() error {
	return e.Underlying
}

// RuleError describes a rule definition that cannot be evaluated.
type RuleError struct {
	Rule      string
	Attribute string
	Value     string
	Reason    string
}

func (e *RuleError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("rule %q: %s: %s (%q)", e.Rule, e.Reason, e.Attribute, e.Value)
	}
	return fmt.Sprintf("rule %q: %s: %s", e.Rule, e.Reason, e.Attribute)
}

// CoreError is the main error type for probemap operations.
type CoreError struct {
	Kind       ErrorKind
	Message    string
	Underlying error
}

func (e *CoreError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CoreError) Unwrap() error {
	return e.Underlying
}

// Is reports whether target matches this error's kind.
func (e *CoreError) Is(target error) bool {
	t, ok := target.(*CoreError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewIOError creates a new I/O error.
func NewIOError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindIO, Message: message, Underlying: underlying}
}

// NewCommandStartError creates an error for when a command fails to start.
func NewCommandStartError(cmd string, err error) *CoreError {
	cmdErr := &CommandError{Command: cmd, Kind: CommandStart, Underlying: err}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewCommandFailedError creates an error for when a command returns non-zero exit status.
func NewCommandFailedError(cmd string, exitCode int, stderr string) *CoreError {
	cmdErr := &CommandError{
		Command:  cmd,
		Kind:     CommandFailed,
		ExitCode: exitCode,
		Stderr:   stderr,
	}
	return &CoreError{Kind: KindCommand, Message: cmdErr.Error(), Underlying: cmdErr}
}

// NewTimeoutError creates an error for a command killed by its deadline.
func NewTimeoutError(cmd, input string) *CoreError {
	return &CoreError{Kind: KindCommand, Message: fmt.Sprintf("%s timed out reading %s", cmd, input)}
}

// NewProbeParseError creates an error for probe output that did not parse.
func NewProbeParseError(path string) *CoreError {
	return &CoreError{Kind: KindProbeParse, Message: fmt.Sprintf("unrecognized probe output for %s", path)}
}

// NewUnknownAttributeError reports a rule criterion naming an attribute
// that is not part of the evaluable attribute set.
func NewUnknownAttributeError(rule, attribute string) *CoreError {
	ruleErr := &RuleError{Rule: rule, Attribute: attribute, Reason: "unknown attribute"}
	return &CoreError{Kind: KindRuleConfig, Message: "invalid rule criterion", Underlying: ruleErr}
}

// NewBadRangeError reports a range expression that does not have exactly
// two numeric bounds.
func NewBadRangeError(rule, attribute, value string) *CoreError {
	ruleErr := &RuleError{Rule: rule, Attribute: attribute, Value: value, Reason: "bad range expression"}
	return &CoreError{Kind: KindRuleConfig, Message: "invalid rule criterion", Underlying: ruleErr}
}

// NewProfileError creates a new profile loading or lookup error.
func NewProfileError(message string, underlying error) *CoreError {
	return &CoreError{Kind: KindProfile, Message: message, Underlying: underlying}
}

// NewInvalidMediaError reports use of media that failed to parse.
func NewInvalidMediaError(path string) *CoreError {
	return &CoreError{Kind: KindInvalidMedia, Message: fmt.Sprintf("media info for %q is not valid", path)}
}

// NewNoFilesFoundError creates an error for when no video files are found.
func NewNoFilesFoundError(dir string) *CoreError {
	return &CoreError{Kind: KindNoFilesFound, Message: fmt.Sprintf("no suitable video files found in %s", dir)}
}

// NewCancelledError creates an error for user-cancelled operations.
func NewCancelledError() *CoreError {
	return &CoreError{Kind: KindCancelled, Message: "operation was cancelled by the user"}
}

// NewValidationError reports failed output checks for path.
func NewValidationError(path string, failures []string) *CoreError {
	return &CoreError{
		Kind:    KindValidation,
		Message: fmt.Sprintf("output %s failed validation: %s", path, strings.Join(failures, "; ")),
	}
}

// IsKind checks if the error has the specified kind.
func IsKind(err error, kind ErrorKind) bool {
	var coreErr *CoreError
	if errors.As(err, &coreErr) {
		return coreErr.Kind == kind
	}
	return false
}

// IsRuleConfig checks if the error is a rule configuration error.
func IsRuleConfig(err error) bool {
	return IsKind(err, KindRuleConfig)
}

// IsCancelled checks if the error is a cancellation error.
func IsCancelled(err error) bool {
	return IsKind(err, KindCancelled)
}

// IsNoFilesFound checks if the error is a no-files-found error.
func IsNoFilesFound(err error) bool {
	return IsKind(err, KindNoFilesFound)
}

// WrapExecError wraps an exec.ExitError into a CoreError.
func WrapExecError(cmd string, err error, stderr string) *CoreError {
	if exitErr, ok := err.(*exec.ExitError); ok {
		return NewCommandFailedError(cmd, exitErr.ExitCode(), stderr)
	}
	return NewCommandStartError(cmd, err)
}
