package dbc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordStringRoundTrip(t *testing.T) {
	for _, kw := range keywordsLongestFirst {
		assert.NotEmpty(t, kw.String())
	}
	assert.Equal(t, "", kwNone.String())
}

// TestKeywordsLongestFirstOrdering locks in the prefix-disambiguation
// order spec.md §9 calls out: any keyword that is a strict prefix of
// another must be tried after the longer one.
func TestKeywordsLongestFirstOrdering(t *testing.T) {
	pos := map[keyword]int{}
	for i, kw := range keywordsLongestFirst {
		pos[kw] = i
	}

	prefixPairs := [][2]keyword{
		{kwSGMulVal, kwSG},
		{kwBADEFDEF, kwBADEF},
		{kwBADEF, kwBA},
	}
	for _, pair := range prefixPairs {
		longer, shorter := pair[0], pair[1]
		assert.Less(t, pos[longer], pos[shorter], "%s must be tried before %s", longer, shorter)
	}
}

func TestKeywordsLongestFirstCoversAllRecognizedKeywords(t *testing.T) {
	all := []keyword{
		kwVersion, kwNS, kwBS, kwBU, kwBO, kwSGMulVal, kwSG, kwCM, kwVAL,
		kwBADEFDEF, kwBADEF, kwBA, kwValTable, kwSigGroup, kwSigValType,
		kwEV, kwBOTxBU,
	}
	assert.ElementsMatch(t, all, keywordsLongestFirst)
}
