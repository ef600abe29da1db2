package ipc

import (
	"io"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/temoto/tapui/internal/types"
	"github.com/temoto/tapui/log2"
)

func TestFifoRead(t *testing.T) {
	t.Parallel()

	f := NewFifo(ioutil.NopCloser(strings.NewReader("noiseSTART|3|abSTART|4|xyz")), log2.NewTest(t, log2.LDebug))
	assert.Equal(t, FifoTag, f.String())
	e, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, types.InputKindTrigger, e.Kind)
	assert.Equal(t, "ab", e.Payload)
	e, err = f.Read()
	require.NoError(t, err)
	assert.Equal(t, "xyz", e.Payload)
	_, err = f.Read()
	assert.Equal(t, io.EOF, err)
	require.NoError(t, f.Close())
}

func TestOpenFifo(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "myfifo")
	f, err := OpenFifo(path, log2.NewTest(t, log2.LDebug))
	require.NoError(t, err)
	defer f.Close()

	w, err := OpenFifo(path, log2.NewTest(t, log2.LDebug))
	require.NoError(t, err)
	defer w.Close()
	_, err = w.c.(io.Writer).Write([]byte("START|2|q"))
	require.NoError(t, err)

	e, err := f.Read()
	require.NoError(t, err)
	assert.Equal(t, "q", e.Payload)
}
