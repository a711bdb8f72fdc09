package decoder

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/gorilla/schema"
)

// URLDecoder fills structs from query strings using `schema` tags.
type URLDecoder struct {
	dec *schema.Decoder
}

func New() *URLDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(false)
	return &URLDecoder{dec: dec}
}

func (d *URLDecoder) IgnoreUnknownKeys(i bool) {
	d.dec.IgnoreUnknownKeys(i)
}

// Decode returns an error whose message is safe to show to the client.
func (d *URLDecoder) Decode(dst any, src url.Values) error {
	err := d.dec.Decode(dst, src)
	if err == nil {
		return nil
	}
	var multi schema.MultiError
	if !errors.As(err, &multi) {
		return err
	}
	msgs := make([]string, 0, len(multi))
	for key, e := range multi {
		var convErr schema.ConversionError
		var unknownErr schema.UnknownKeyError
		switch {
		case errors.As(e, &convErr):
			msgs = append(msgs, fmt.Sprintf("invalid value for query parameter %q", key))
		case errors.As(e, &unknownErr):
			msgs = append(msgs, fmt.Sprintf("unknown query parameter %q", key))
		default:
			msgs = append(msgs, e.Error())
		}
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, "; "))
}
