package discovery

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// DecodeTXT decodes a service's TXT attributes into a typed struct. Values
// are weakly typed: numeric and boolean fields are converted from their
// string form. Field mapping uses `mapstructure` tags.
func DecodeTXT(txt map[string]string, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to build TXT decoder: %w", err)
	}
	if err := dec.Decode(txt); err != nil {
		return fmt.Errorf("failed to decode TXT attributes: %w", err)
	}
	return nil
}
