package contract

import "context"

// Processor turns a support inquiry into an answer. The returned value is
// opaque to callers and is resolved to text by the normalize package.
type Processor interface {
	ProcessInquiry(ctx context.Context, customer, person, inquiry string) (any, error)
}

// ProcessorFunc adapts a plain function to Processor.
type ProcessorFunc func(ctx context.Context, customer, person, inquiry string) (any, error)

func (f ProcessorFunc) ProcessInquiry(ctx context.Context, customer, person, inquiry string) (any, error) {
	return f(ctx, customer, person, inquiry)
}

// RawOutput is implemented by results carrying their final text as raw output.
type RawOutput interface {
	Raw() string
}

// ContentOutput is implemented by message-like results.
type ContentOutput interface {
	Content() string
}
