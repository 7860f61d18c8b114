package safeui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"go.uber.org/multierr"
)

// ErrorCode is a closed enumeration of every diagnostic the pipeline can
// emit. Keeping it closed (rather than a bare string) lets hosts switch on
// codes without guessing at spelling.
type ErrorCode string

// Structural errors. SCHEMA_ERROR always short-circuits the pipeline.
const (
	ErrInvalidJSON     ErrorCode = "INVALID_JSON"
	ErrSchemaError     ErrorCode = "SCHEMA_ERROR"
	ErrMissingField    ErrorCode = "MISSING_FIELD"
	ErrInvalidType     ErrorCode = "INVALID_TYPE"
	ErrInvalidValue    ErrorCode = "INVALID_VALUE"
	ErrUnknownNodeType ErrorCode = "UNKNOWN_NODE_TYPE"
)

// Dynamic-value permission errors.
const (
	ErrExprNotAllowed    ErrorCode = "EXPR_NOT_ALLOWED"
	ErrRefNotAllowed     ErrorCode = "REF_NOT_ALLOWED"
	ErrDynamicNotAllowed ErrorCode = "DYNAMIC_NOT_ALLOWED"
)

// Style errors.
const (
	ErrForbiddenStyleProperty ErrorCode = "FORBIDDEN_STYLE_PROPERTY"
	ErrStyleValueOutOfRange   ErrorCode = "STYLE_VALUE_OUT_OF_RANGE"
	ErrForbiddenCSSFunction   ErrorCode = "FORBIDDEN_CSS_FUNCTION"
	ErrInvalidColor           ErrorCode = "INVALID_COLOR"
	ErrInvalidLength          ErrorCode = "INVALID_LENGTH"
	ErrForbiddenOverflowValue ErrorCode = "FORBIDDEN_OVERFLOW_VALUE"
	ErrTransformSkewForbidden ErrorCode = "TRANSFORM_SKEW_FORBIDDEN"
)

// Security errors.
const (
	ErrExternalURL                ErrorCode = "EXTERNAL_URL"
	ErrPositionFixedForbidden     ErrorCode = "POSITION_FIXED_FORBIDDEN"
	ErrPositionStickyForbidden    ErrorCode = "POSITION_STICKY_FORBIDDEN"
	ErrPositionAbsoluteNotInStack ErrorCode = "POSITION_ABSOLUTE_NOT_IN_STACK"
	ErrAssetPathTraversal         ErrorCode = "ASSET_PATH_TRAVERSAL"
	ErrInvalidAssetPath           ErrorCode = "INVALID_ASSET_PATH"
	ErrPrototypePollution         ErrorCode = "PROTOTYPE_POLLUTION"
)

// Resource-limit errors.
const (
	ErrCardSizeExceeded        ErrorCode = "CARD_SIZE_EXCEEDED"
	ErrTextContentSizeExceeded ErrorCode = "TEXT_CONTENT_SIZE_EXCEEDED"
	ErrStyleSizeExceeded       ErrorCode = "STYLE_SIZE_EXCEEDED"
	ErrNodeCountExceeded       ErrorCode = "NODE_COUNT_EXCEEDED"
	ErrLoopIterationsExceeded  ErrorCode = "LOOP_ITERATIONS_EXCEEDED"
	ErrNestedLoopsExceeded     ErrorCode = "NESTED_LOOPS_EXCEEDED"
	ErrOverflowAutoCountExceed ErrorCode = "OVERFLOW_AUTO_COUNT_EXCEEDED"
	ErrOverflowAutoNested      ErrorCode = "OVERFLOW_AUTO_NESTED"
	ErrStackNestingExceeded    ErrorCode = "STACK_NESTING_EXCEEDED"
	ErrLoopSourceNotArray      ErrorCode = "LOOP_SOURCE_NOT_ARRAY"
	ErrLoopSourceMissing       ErrorCode = "LOOP_SOURCE_MISSING"
)

// Expression-constraint errors.
const (
	ErrExprTooLong                 ErrorCode = "EXPR_TOO_LONG"
	ErrRefTooLong                  ErrorCode = "REF_TOO_LONG"
	ErrExprTooManyTokens            ErrorCode = "EXPR_TOO_MANY_TOKENS"
	ErrExprNestingTooDeep           ErrorCode = "EXPR_NESTING_TOO_DEEP"
	ErrExprConditionNestingTooDeep  ErrorCode = "EXPR_CONDITION_NESTING_TOO_DEEP"
	ErrExprRefDepthExceeded         ErrorCode = "EXPR_REF_DEPTH_EXCEEDED"
	ErrExprArrayIndexExceeded       ErrorCode = "EXPR_ARRAY_INDEX_EXCEEDED"
	ErrExprStringLiteralTooLong     ErrorCode = "EXPR_STRING_LITERAL_TOO_LONG"
	ErrExprForbiddenToken           ErrorCode = "EXPR_FORBIDDEN_TOKEN"
	ErrExprFunctionCall             ErrorCode = "EXPR_FUNCTION_CALL"
	ErrExprInvalidToken             ErrorCode = "EXPR_INVALID_TOKEN"
)

// Style-reference errors.
const (
	ErrStyleCircularRef ErrorCode = "STYLE_CIRCULAR_REF"
	ErrStyleRefNotFound ErrorCode = "STYLE_REF_NOT_FOUND"
	ErrInvalidStyleRef  ErrorCode = "INVALID_STYLE_REF"
	ErrInvalidStyleName ErrorCode = "INVALID_STYLE_NAME"
)

// Runtime (render-time) errors.
const (
	ErrRuntimeNodeLimit         ErrorCode = "RUNTIME_NODE_LIMIT"
	ErrRuntimeStyleLimit        ErrorCode = "RUNTIME_STYLE_LIMIT"
	ErrRuntimeOverflowLimit     ErrorCode = "RUNTIME_OVERFLOW_LIMIT"
	ErrRuntimeTextLimit         ErrorCode = "RUNTIME_TEXT_LIMIT"
	ErrRuntimeLoopSourceInvalid ErrorCode = "RUNTIME_LOOP_SOURCE_INVALID"
)

// Error is one diagnostic produced by the Validator or the Renderer.
// Path is a dotted/bracketed JSON location, empty for document-level errors.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Path    string    `json:"path"`
}

func (e Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Path)
}

// Result is the outcome of Validate/ValidateRaw.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors"`

	// Fingerprint is a SHA-256 hash of the card bytes as given (ValidateRaw)
	// or of a JSON re-marshal of the Card (Validate); no normalization is
	// applied. Two cards that validate identically are not guaranteed to
	// share a fingerprint, and Valid/Errors also depend on the Limits in
	// force, which the fingerprint does not cover. Hosts may use it to
	// skip re-validating an unchanged card; it has no bearing on the
	// classification itself (see SPEC_FULL.md's supplemental features).
	Fingerprint string `json:"fingerprint,omitempty"`
}

// errorList accumulates errors across a single pass, or across passes that
// are merged at a pipeline boundary. Passes never short-circuit on the
// first error; they keep walking and collect everything they find.
type errorList struct {
	errs []Error
}

func (l *errorList) add(code ErrorCode, path, format string, args ...interface{}) {
	l.errs = append(l.errs, Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Path:    path,
	})
}

func (l *errorList) ok() bool { return len(l.errs) == 0 }

// merge concatenates another pass's findings into this list.
func (l *errorList) merge(other *errorList) {
	if other == nil || len(other.errs) == 0 {
		return
	}
	l.errs = append(l.errs, other.errs...)
}

// asMultiError exposes the accumulated errors as a single Go error value
// (errors.Is/As friendly) without giving up the structured []Error used
// for the wire Result.
func (l *errorList) asMultiError() error {
	if l.ok() {
		return nil
	}
	errs := make([]error, len(l.errs))
	for i, e := range l.errs {
		errs[i] = e
	}
	return multierr.Combine(errs...)
}

func humanBytes(n int) string {
	return humanize.Bytes(uint64(n))
}

// overBy renders ", 4.7 kB over" when actual exceeds limit, else "".
func overBy(actual, limit int) string {
	if actual <= limit {
		return ""
	}
	return fmt.Sprintf(", %s over", humanBytes(actual-limit))
}
