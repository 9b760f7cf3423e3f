package thread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firestige.xyz/meshtest/internal/core"
)

const sampleNetData = `Prefixes:
fd00:db8:0:0::/64 paos low 0c00
Routes:
fd49:7770:7fc5:0::/64 s med 0c00
Services:
44970 5d c000 s 0c00
`

func TestPrefixesFromNetData(t *testing.T) {
	prefixes, err := PrefixesFromNetData(sampleNetData)
	require.NoError(t, err)
	assert.Equal(t, "Prefixes:\nfd00:db8:0:0::/64 paos low 0c00\n", prefixes)
}

func TestPrefixesFromNetDataMissingSections(t *testing.T) {
	_, err := PrefixesFromNetData("Routes:\nfd49::/64\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedOutput)

	_, err = PrefixesFromNetData("Prefixes:\nfd00::/64\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrMalformedOutput)
}
