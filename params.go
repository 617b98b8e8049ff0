package unitedlogs

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params are extra key/value pairs attached to an event. Values must be strings,
// booleans, integers or floats.
type Params map[string]any

// encodeInto adds every param to form as params[key]=value. url.Values.Encode
// sorts keys, so the resulting body is deterministic.
func (p Params) encodeInto(form url.Values) error {
	for key, value := range p {
		s, err := formatParam(value)
		if err != nil {
			return fmt.Errorf("param %q: %w", key, err)
		}
		form.Set("params["+key+"]", s)
	}
	return nil
}

func formatParam(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case bool:
		// PHP's http_build_query sends booleans as 1/0
		if v {
			return "1", nil
		}
		return "0", nil
	case int:
		return strconv.FormatInt(int64(v), 10), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnsupportedParam, value)
	}
}
