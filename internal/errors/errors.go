package errors

import (
	"errors"
	"fmt"
)

// indicates an unrecoverable error
var ErrPermanentFailure = errors.New("permanent failure, do not retry")

// TemplateRejectionMessage is the response body for PDFs not authored by the supported template,
// and for accepted PDFs whose text could not be parsed. The Kind tells the two apart.
const TemplateRejectionMessage = "Can only accept TYFYC resumes"

type RejectionKind int

const (
	KindUnknown RejectionKind = iota
	WrongTemplate
	DecodeError
	MalformedInput
)

func (k RejectionKind) String() string {
	switch k {
	case WrongTemplate:
		return "wrong_template"
	case DecodeError:
		return "decode_error"
	case MalformedInput:
		return "malformed_input"
	default:
		return "unknown"
	}
}

// Rejection is the failure side of a resume parse. It always wraps ErrPermanentFailure.
type Rejection struct {
	Kind    RejectionKind
	Message string
	Cause   error
}

func (r *Rejection) Error() string {
	if r.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", r.Kind, r.Message, r.Cause)
	}
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

func (r *Rejection) Unwrap() []error {
	if r.Cause != nil {
		return []error{ErrPermanentFailure, r.Cause}
	}
	return []error{ErrPermanentFailure}
}

func NewWrongTemplate(author string) *Rejection {
	return &Rejection{
		Kind:    WrongTemplate,
		Message: TemplateRejectionMessage,
		Cause:   fmt.Errorf("unexpected pdf author %q", author),
	}
}

// NewDecodeError keeps the decoder's message verbatim, it is surfaced to the caller.
func NewDecodeError(cause error) *Rejection {
	return &Rejection{
		Kind:    DecodeError,
		Message: cause.Error(),
	}
}

func NewMalformedInput(cause error) *Rejection {
	return &Rejection{
		Kind:    MalformedInput,
		Message: TemplateRejectionMessage,
		Cause:   cause,
	}
}

// AsRejection reports whether err carries a *Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}
