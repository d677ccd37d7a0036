package raster

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"image/png"
	"testing"

	"github.com/ds124wfegd/imagekit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackICO(t *testing.T) {
	var frames []ICOFrame
	for _, side := range []int{16, 32, 256} {
		frames = append(frames, ICOFrame{Side: side, PNG: encodePNG(t, solid(side, side, color.NRGBA{G: 200, A: 255}))})
	}

	data, err := PackICO(frames)
	require.NoError(t, err)

	r := bytes.NewReader(data)
	var dir icoDir
	require.NoError(t, binary.Read(r, binary.LittleEndian, &dir))
	assert.Equal(t, uint16(1), dir.Type)
	require.Equal(t, uint16(3), dir.Count)

	for i, want := range []int{16, 32, 256} {
		var entry icoDirEntry
		require.NoError(t, binary.Read(r, binary.LittleEndian, &entry))
		assert.Equal(t, uint8(want%256), entry.Width)
		assert.Equal(t, uint16(32), entry.BitCount)
		assert.Equal(t, uint32(len(frames[i].PNG)), entry.Size)

		payload := data[entry.Offset : entry.Offset+entry.Size]
		img, err := png.Decode(bytes.NewReader(payload))
		require.NoError(t, err)
		assert.Equal(t, want, img.Bounds().Dx())
	}
}

func TestPackICORejects(t *testing.T) {
	_, err := PackICO(nil)
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = PackICO([]ICOFrame{{Side: 512, PNG: []byte{1}}})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	_, err = PackICO([]ICOFrame{{Side: 16}})
	assert.ErrorIs(t, err, entity.ErrEncodeFailure)
}
