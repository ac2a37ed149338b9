package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies compile and runtime failures
type ErrorKind int

const (
	E_NONE ErrorKind = iota

	// compile errors
	E_END_OF_COMMAND
	E_TOKEN_EXPECTED
	E_UNRECOGNIZED_TOKEN
	E_INVALID_ATOM_SPEC
	E_INVALID_CHAIN_SPEC
	E_INVALID_MODEL_SPEC
	E_RESIDUE_SPEC_EXPECTED
	E_NUMBER_EXPECTED
	E_NUMBER_OR_VARIABLE_EXPECTED
	E_BAD_ARGUMENT_COUNT
	E_COMMAND_EXPECTED

	// runtime errors
	E_END_OF_STATEMENT
	E_INVALID_ARGUMENT
	E_TYPE_MISMATCH
	E_UNKNOWN_FUNCTION
	E_UNRECOGNIZED_BOND_PROPERTY
	E_UNRECOGNIZED_PROPERTY
	E_INTERRUPTED
)

var errorNames = map[ErrorKind]string{
	E_NONE:                        "E_NONE",
	E_END_OF_COMMAND:              "E_END_OF_COMMAND",
	E_TOKEN_EXPECTED:              "E_TOKEN_EXPECTED",
	E_UNRECOGNIZED_TOKEN:          "E_UNRECOGNIZED_TOKEN",
	E_INVALID_ATOM_SPEC:           "E_INVALID_ATOM_SPEC",
	E_INVALID_CHAIN_SPEC:          "E_INVALID_CHAIN_SPEC",
	E_INVALID_MODEL_SPEC:          "E_INVALID_MODEL_SPEC",
	E_RESIDUE_SPEC_EXPECTED:       "E_RESIDUE_SPEC_EXPECTED",
	E_NUMBER_EXPECTED:             "E_NUMBER_EXPECTED",
	E_NUMBER_OR_VARIABLE_EXPECTED: "E_NUMBER_OR_VARIABLE_EXPECTED",
	E_BAD_ARGUMENT_COUNT:          "E_BAD_ARGUMENT_COUNT",
	E_COMMAND_EXPECTED:            "E_COMMAND_EXPECTED",
	E_END_OF_STATEMENT:            "E_END_OF_STATEMENT",
	E_INVALID_ARGUMENT:            "E_INVALID_ARGUMENT",
	E_TYPE_MISMATCH:               "E_TYPE_MISMATCH",
	E_UNKNOWN_FUNCTION:            "E_UNKNOWN_FUNCTION",
	E_UNRECOGNIZED_BOND_PROPERTY:  "E_UNRECOGNIZED_BOND_PROPERTY",
	E_UNRECOGNIZED_PROPERTY:       "E_UNRECOGNIZED_PROPERTY",
	E_INTERRUPTED:                 "E_INTERRUPTED",
}

// String returns the symbolic name of the error kind
func (e ErrorKind) String() string {
	if s, ok := errorNames[e]; ok {
		return s
	}
	return "E_UNKNOWN"
}

// Message returns a human-readable message for an error kind
func (e ErrorKind) Message() string {
	switch e {
	case E_NONE:
		return "no error"
	case E_END_OF_COMMAND:
		return "unexpected end of script command"
	case E_TOKEN_EXPECTED:
		return "expected"
	case E_UNRECOGNIZED_TOKEN:
		return "unrecognized token"
	case E_INVALID_ATOM_SPEC:
		return "invalid atom specification"
	case E_INVALID_CHAIN_SPEC:
		return "invalid chain specification"
	case E_INVALID_MODEL_SPEC:
		return "invalid model specification"
	case E_RESIDUE_SPEC_EXPECTED:
		return "residue specification (ALA, AL?, A*) expected"
	case E_NUMBER_EXPECTED:
		return "number expected"
	case E_NUMBER_OR_VARIABLE_EXPECTED:
		return "number or variable name expected"
	case E_BAD_ARGUMENT_COUNT:
		return "bad argument count"
	case E_COMMAND_EXPECTED:
		return "command expected"
	case E_END_OF_STATEMENT:
		return "unexpected end of statement"
	case E_INVALID_ARGUMENT:
		return "invalid argument"
	case E_TYPE_MISMATCH:
		return "type mismatch"
	case E_UNKNOWN_FUNCTION:
		return "unknown function"
	case E_UNRECOGNIZED_BOND_PROPERTY:
		return "unrecognized bond property"
	case E_UNRECOGNIZED_PROPERTY:
		return "unrecognized property"
	case E_INTERRUPTED:
		return "interrupted"
	default:
		return "unknown error"
	}
}

// IsCompile reports whether the kind is raised by the compiler
func (e ErrorKind) IsCompile() bool {
	return e >= E_END_OF_COMMAND && e <= E_COMMAND_EXPECTED
}

// ScriptError is the structured failure returned by the compiler and the
// evaluator. Formatting happens only in Error.
type ScriptError struct {
	Kind       ErrorKind
	Token      string // offending or expected token text
	Suggestion string // closest keyword for unrecognized tokens
	Err        error  // underlying cause, if any
}

// NewError creates a ScriptError for the given kind and token text
func NewError(kind ErrorKind, tok string) *ScriptError {
	return &ScriptError{Kind: kind, Token: tok}
}

// Errorf creates a ScriptError wrapping a formatted cause
func Errorf(kind ErrorKind, format string, args ...any) *ScriptError {
	return &ScriptError{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *ScriptError) Error() string {
	var msg string
	switch {
	case e.Kind == E_TOKEN_EXPECTED:
		msg = e.Token + " expected"
	case e.Token != "":
		msg = e.Kind.Message() + ": " + e.Token
	default:
		msg = e.Kind.Message()
	}
	if e.Suggestion != "" {
		msg += " (did you mean " + e.Suggestion + "?)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Is matches another ScriptError of the same kind
func (e *ScriptError) Is(target error) bool {
	var t *ScriptError
	if errors.As(target, &t) {
		return t.Kind == e.Kind
	}
	return false
}

// KindOf extracts the ErrorKind of err, or E_NONE
func KindOf(err error) ErrorKind {
	var se *ScriptError
	if errors.As(err, &se) {
		return se.Kind
	}
	return E_NONE
}
