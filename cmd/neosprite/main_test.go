package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-neosprite/neosprite/export"
)

func TestWriteArtifact(t *testing.T) {
	artifact := &export.Artifact{MediaType: "image/gif", Data: []byte("GIF89a..."), Frames: 8}
	path := filepath.Join(t.TempDir(), "out.gif")

	require.NoError(t, writeArtifact(artifact, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, artifact.Data, data)
}

func TestWriteArtifactErrors(t *testing.T) {
	artifact := &export.Artifact{Data: []byte("x")}

	err := writeArtifact(artifact, filepath.Join(t.TempDir(), "missing", "out.gif"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// a directory can't be opened for writing
	err = writeArtifact(artifact, t.TempDir())
	assert.Error(t, err)
}
