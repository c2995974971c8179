package catalog

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
currency: USD
symptoms: [fever, sore_throat]
conditions: [Flu]
severity_weights:
  fever: 0.6
medications:
  Flu:
    - Plenty of fluids and rest
fees:
  Flu:
    initial: 40
    follow_up: 25.5
`

func TestDecodeYAML(t *testing.T) {
	c, err := DecodeYAML(strings.NewReader(sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, "USD", c.Currency())
	assert.Equal(t, []string{"fever", "sore_throat"}, c.Symptoms())
	assert.Equal(t, 0.0, c.Weight("sore_throat"))

	fees, ok := c.Fees("Flu")
	require.True(t, ok)
	assert.Equal(t, 25.5, fees.FollowUp)
}

func TestDecodeYAMLRejectsUnknownFields(t *testing.T) {
	_, err := DecodeYAML(strings.NewReader(sampleYAML + "extra: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode catalog YAML")
}

func TestDecodeYAMLValidates(t *testing.T) {
	doc := strings.Replace(sampleYAML, "fever: 0.6", "fever: 7", 1)
	_, err := DecodeYAML(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be in [0,1]")
}

func TestYAMLRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, Default()))
	assert.Contains(t, buf.String(), "follow_up: 6000")

	again, err := DecodeYAML(&buf)
	require.NoError(t, err)
	assert.Equal(t, Default().Version(), again.Version())
}

func TestWriteAndLoadFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "catalog-yaml-*")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "catalog.yaml")
	require.NoError(t, WriteFile(path, Default()))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 30, c.SymptomCount())

	_, err = LoadFile(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err)
}
