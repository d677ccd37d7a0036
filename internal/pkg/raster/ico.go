package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ds124wfegd/imagekit/internal/entity"
)

// icoMaxSide is the largest square an ICO directory entry can describe.
const icoMaxSide = 256

// ICOFrame is one PNG-encoded square of an .ico file.
type ICOFrame struct {
	Side int
	PNG  []byte
}

type icoDir struct {
	Reserved uint16
	Type     uint16 // 1 = icon
	Count    uint16
}

type icoDirEntry struct {
	Width    uint8 // 0 means 256
	Height   uint8
	Colors   uint8
	Reserved uint8
	Planes   uint16
	BitCount uint16
	Size     uint32
	Offset   uint32
}

// PackICO writes frames into one ICO container. Payloads are stored as PNG,
// in the order given.
func PackICO(frames []ICOFrame) ([]byte, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: ico without frames", entity.ErrInvalidParameter)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, icoDir{Type: 1, Count: uint16(len(frames))}); err != nil {
		return nil, fmt.Errorf("%w: ico: %v", entity.ErrEncodeFailure, err)
	}

	offset := uint32(binary.Size(icoDir{}) + len(frames)*binary.Size(icoDirEntry{}))
	for _, f := range frames {
		if f.Side < 1 || f.Side > icoMaxSide {
			return nil, fmt.Errorf("%w: ico frame %dpx", entity.ErrInvalidParameter, f.Side)
		}
		if len(f.PNG) == 0 {
			return nil, fmt.Errorf("%w: empty ico frame %dpx", entity.ErrEncodeFailure, f.Side)
		}
		entry := icoDirEntry{
			Width:    uint8(f.Side % icoMaxSide),
			Height:   uint8(f.Side % icoMaxSide),
			Planes:   1,
			BitCount: 32,
			Size:     uint32(len(f.PNG)),
			Offset:   offset,
		}
		if err := binary.Write(&buf, binary.LittleEndian, entry); err != nil {
			return nil, fmt.Errorf("%w: ico: %v", entity.ErrEncodeFailure, err)
		}
		offset += entry.Size
	}

	for _, f := range frames {
		buf.Write(f.PNG)
	}
	return buf.Bytes(), nil
}
