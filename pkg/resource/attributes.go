package resource

import (
	"database/sql"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// TimestampLayout is ISO-8601 with a numeric zone offset
const TimestampLayout = "2006-01-02T15:04:05-07:00"

// Attributes extracts the declared attributes in declaration order.
// Overrides run on the raw value; timestamps are formatted afterwards.
// A field the entity does not have yields null.
func (r *Resource) Attributes() *orderedmap.OrderedMap[string, any] {
	attrs := orderedmap.New[string, any](len(r.desc.Attributes))

	for _, field := range r.desc.Attributes {
		value, _ := r.entity.Field(field)

		if fn, ok := r.desc.Overrides[field]; ok {
			value = fn(value)
		}

		attrs.Set(r.desc.attributeKey(field), normalizeValue(value))
	}

	return attrs
}

func normalizeValue(value any) any {
	switch v := value.(type) {
	case time.Time:
		return v.Format(TimestampLayout)
	case *time.Time:
		if v == nil {
			return nil
		}
		return v.Format(TimestampLayout)
	case sql.NullTime:
		if !v.Valid {
			return nil
		}
		return v.Time.Format(TimestampLayout)
	default:
		return value
	}
}
