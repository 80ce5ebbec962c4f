package resource

import (
	"fmt"
	"reflect"
	"strings"
)

// compositeKeySeparator joins the parts of a composite key into one id
const compositeKeySeparator = "-"

// FormatKey renders an entity key as a JSON:API id. Composite keys are
// joined with "-", so []any{1, "a"} becomes "1-a".
func FormatKey(key any) string {
	switch k := key.(type) {
	case nil:
		return ""
	case string:
		return k
	case []byte:
		return string(k)
	case fmt.Stringer:
		// uuid.UUID and friends are arrays; they must not be split
		return k.String()
	case []string:
		return strings.Join(k, compositeKeySeparator)
	}

	v := reflect.ValueOf(key)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		parts := make([]string, v.Len())
		for i := 0; i < v.Len(); i++ {
			parts[i] = FormatKey(v.Index(i).Interface())
		}
		return strings.Join(parts, compositeKeySeparator)
	}

	return fmt.Sprint(key)
}
