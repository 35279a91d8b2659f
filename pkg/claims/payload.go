package claims

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// Payload is the session's custom-claims bag: a mapping from claim key to
// either nil (merge tombstone) or a {v, t} record. Payloads are caller-owned;
// claim operations mutate them in place and return them for chaining.
type Payload map[string]any

// UserContext is an opaque, caller-owned bag threaded through every claim
// operation. The framework never reads or writes it.
type UserContext map[string]any

// Clock supplies the current time. Injectable via WithClock for tests and
// freshness simulations.
type Clock func() time.Time

// timestampMS converts a time to milliseconds since epoch, the unit used for
// the payload "t" field.
func timestampMS(t time.Time) int64 {
	return t.UnixMilli()
}

// decodeEntry reads the {v, t} record stored under key. ok is false when the
// key is absent or tombstoned. A present entry that is not a {v, t}-shaped
// record is a decode error, surfaced instead of masked as an absent value.
func decodeEntry(p Payload, key string) (value any, ts int64, ok bool, err error) {
	raw, present := p[key]
	if !present || raw == nil {
		return nil, 0, false, nil
	}

	rec, isMap := raw.(map[string]any)
	if !isMap {
		return nil, 0, false, fmt.Errorf("%w: entry %q is not a {v, t} record", ErrMalformedPayload, key)
	}

	rawTS, hasTS := rec["t"]
	if !hasTS {
		return nil, 0, false, fmt.Errorf("%w: entry %q has no timestamp", ErrMalformedPayload, key)
	}

	ts, err = toMillis(rawTS)
	if err != nil {
		return nil, 0, false, fmt.Errorf("%w: entry %q: %v", ErrMalformedPayload, key, err)
	}

	return rec["v"], ts, true, nil
}

// toMillis accepts the numeric encodings a "t" field can carry depending on
// whether the payload came straight from AddToPayload (int64) or through a
// JSON round-trip (float64 / json.Number).
func toMillis(v any) (int64, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case float64:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("timestamp has unsupported type %T", v)
	}
}

// primitiveEquals compares two JSON primitives with type-sensitive equality:
// a string "1" never equals the number 1, but numeric kinds compare by value
// so that an int written in process still matches the float64 it becomes
// after a JSON round-trip.
func primitiveEquals(a, b any) bool {
	af, aNum := toFloat(a)
	bf, bNum := toFloat(b)
	if aNum || bNum {
		return aNum && bNum && af == bf
	}
	// DeepEqual keeps the comparison panic-free for non-comparable values
	// that slip in through malformed input.
	return reflect.DeepEqual(a, b)
}

// toFloat reports whether v is a numeric primitive and its float64 value.
// Booleans are deliberately not numeric: true never equals 1.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
