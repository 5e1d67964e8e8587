// Package normalize resolves the opaque value returned by an inquiry
// processor into the text sent back to the customer.
package normalize

import (
	"fmt"
	"reflect"

	contractx "github.com/tanpawarit/customer-support-api/agent/contract"
)

// Text checks, in order: RawOutput, ContentOutput, then the value's own
// string form. A value implementing both interfaces resolves to Raw.
// Nil pointers render through fmt.
func Text(result any) string {
	if isNilPointer(result) {
		return fmt.Sprint(result)
	}
	if r, ok := result.(contractx.RawOutput); ok {
		return r.Raw()
	}
	if c, ok := result.(contractx.ContentOutput); ok {
		return c.Content()
	}
	return fmt.Sprint(result)
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
