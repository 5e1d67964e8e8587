package crew

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

// Echo acknowledges the inquiry without calling a model. Used for local runs
// where no model credentials are configured.
var Echo = contractx.ProcessorFunc(func(_ context.Context, customer, person, inquiry string) (any, error) {
	return fmt.Sprintf("Hi %s, thanks for contacting %s support. We received your inquiry: %q. A support representative will follow up shortly.",
		person, customer, inquiry), nil
})
