package dbcfile

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalDBC = `VERSION "1.0"

BS_:

BU_: ECU1

BO_ 100 A: 8 ECU1
 SG_ X : 0|8@1+ (1,0) [0|0] "" ECU1
`

func TestLoadReaderParsesSource(t *testing.T) {
	d, err := LoadReader(strings.NewReader(minimalDBC))
	require.NoError(t, err)
	assert.Len(t, d.Messages(), 1)
}

func TestLoadRoundTripsThroughSave(t *testing.T) {
	d, err := LoadReader(strings.NewReader(minimalDBC))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "out.dbc")
	require.NoError(t, Save(path, d))

	d2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, d.Messages()[0].Name, d2.Messages()[0].Name)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load("/nonexistent/path/does-not-exist.dbc")
	require.Error(t, err)
}
