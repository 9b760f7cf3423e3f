package thread

import (
	"fmt"
	"strings"

	"firestige.xyz/meshtest/internal/core"
)

// PrefixesFromNetData slices the "Prefixes:" section out of an ot-ctl
// netdata show dump, up to the "Routes:" section that follows it.
func PrefixesFromNetData(netData string) (string, error) {
	start := strings.Index(netData, "Prefixes:")
	if start < 0 {
		return "", fmt.Errorf("%w: no Prefixes section in netdata", core.ErrMalformedOutput)
	}
	end := strings.Index(netData[start:], "Routes:")
	if end < 0 {
		return "", fmt.Errorf("%w: no Routes section in netdata", core.ErrMalformedOutput)
	}
	return netData[start : start+end], nil
}
