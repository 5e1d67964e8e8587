package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrEmptyReply    = errors.New("model returned an empty reply")
	ErrPromptMissing = errors.New("required prompt is missing")
	ErrValidation    = errors.New("validation failed")
	ErrEmptyInquiry  = errors.New("inquiry has no text to answer")
)
