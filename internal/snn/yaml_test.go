package snn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spikenet-ml/spikenet/internal/backend/cpu"
)

func TestParseSpec(t *testing.T) {
	doc := []byte(`
- conv: {out: 8, kernel: 3}
- norm
- lif
- - - conv: {out: 16, stride: 2}
    - tap
  - - pool: {kind: max, kernel: 2}
    - conv: {out: 16}
- lif: {tau_mem_inv: 50}
`)
	cfg, err := ParseSpec[cpuB](doc)
	require.NoError(t, err)
	require.Len(t, cfg, 5)

	conv, ok := cfg[0].(Conv[cpuB])
	require.True(t, ok)
	assert.Equal(t, 8, conv.Out)
	assert.Equal(t, 3, conv.Kernel)

	assert.IsType(t, Norm[cpuB]{}, cfg[1])
	assert.IsType(t, LIF[cpuB]{}, cfg[2])

	branches, ok := cfg[3].(ListGen[cpuB])
	require.True(t, ok)
	require.Len(t, branches, 2)

	left, ok := branches[0].(ListGen[cpuB])
	require.True(t, ok)
	require.Len(t, left, 2)
	assert.IsType(t, Tap[cpuB]{}, left[1])

	right, ok := branches[1].(ListGen[cpuB])
	require.True(t, ok)
	pool, ok := right[0].(Pool[cpuB])
	require.True(t, ok)
	assert.Equal(t, PoolMax, pool.Kind)

	lif, ok := cfg[4].(LIF[cpuB])
	require.True(t, ok)
	require.NotNil(t, lif.Config)
	assert.InDelta(t, 50, lif.Config.TauMemInv, 1e-6)
	// Unset fields keep their defaults.
	assert.InDelta(t, 200, lif.Config.TauSynInv, 1e-6)
}

func TestParseSpecCompiles(t *testing.T) {
	doc := []byte(`
- conv: {out: 8}
- - - conv: {out: 16}
  - - conv: {out: 16, kernel: 1}
- lif
`)
	cfg, err := ParseSpec[cpuB](doc)
	require.NoError(t, err)

	be := cpu.New()
	model, err := NewModelGen(be, 3, cfg)
	require.NoError(t, err)
	assert.Equal(t, 16, model.OutChannels())
	assert.Equal(t, [][]bool{{false, true, true}}, model.Block().Mask())
}

func TestParseSpecErrors(t *testing.T) {
	_, err := ParseSpec[cpuB]([]byte(`- relu`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"relu"`)

	_, err = ParseSpec[cpuB]([]byte(`- gelu: {out: 4}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"gelu"`)

	_, err = ParseSpec[cpuB]([]byte(`out: 4`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sequence")

	_, err = ParseSpec[cpuB]([]byte(`- conv: {out: four}`))
	require.Error(t, err)
}

func TestParsedPoolKindValidatedAtCompile(t *testing.T) {
	cfg, err := ParseSpec[cpuB]([]byte(`
- pool: {kind: median}
`))
	require.NoError(t, err)

	_, err = NewModelGen(cpu.New(), 3, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"median"`)
}
