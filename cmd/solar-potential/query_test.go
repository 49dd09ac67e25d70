package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/solar-potential/internal/solar"
)

func TestLoadCompareRequest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	content := `capacity: 5
locations:
  - name: Denver
    lat: 39.74
    lon: -104.99
  - lat: 33.45
    lon: -112.07
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	req, err := loadCompareRequest(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, req.CapacityKW)
	require.Len(t, req.Locations, 2)
	assert.Equal(t, "Denver", req.Locations[0].Name)
	assert.Empty(t, req.Locations[1].Name)
	assert.NoError(t, solar.Validate(req))

	named := req.Named()
	assert.Equal(t, "Location 2", solar.LocationName(named[1], 1))
	assert.Equal(t, 33.45, named[1].Lat)
	assert.Equal(t, -112.07, named[1].Lon)
}

func TestLoadCompareRequestSiteWithoutLatitude(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	content := "capacity: 5\nlocations:\n  - name: Denver\n    lon: -104.99\n  - lat: 33.45\n    lon: -112.07\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	req, err := loadCompareRequest(path)
	require.NoError(t, err)
	assert.Nil(t, req.Locations[0].Lat)
	assert.ErrorIs(t, solar.Validate(req), solar.ErrInvalidInput)
}

func TestLoadCompareRequestMissingFile(t *testing.T) {
	_, err := loadCompareRequest(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCompareCommandRejectsSingleSiteBeforeNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.yaml")
	require.NoError(t, os.WriteFile(path, []byte("capacity: 5\nlocations:\n  - lat: 1\n    lon: 2\n"), 0o644))

	cmd := compareCmd()
	cmd.SetArgs([]string{"--sites", path})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, solar.ErrInvalidInput)
}
