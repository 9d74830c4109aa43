package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/ximhear/songdo-meshbuilder/internal/mesh"
	"github.com/ximhear/songdo-meshbuilder/internal/osm"
)

const (
	headerSize        = 64
	buildingBlockSize = 48
	roadBlockSize     = 16
	vertexRecordSize  = 32
)

var magic = [4]byte{'S', 'D', 'C', '1'}

// Write serializes one chunk's data to path in the binary format
// described in spec.md 4.5.2: a 64-byte header followed by a building
// section and a road section, with the two section offsets patched in
// after the body is known. Exactly one file handle is acquired and it
// is released on every return path.
func Write(path string, key Key, data *Data) (err error) {
	var buf bytes.Buffer

	// Header placeholder -- patched below once section offsets are known.
	buf.Write(magic[:])
	writeUint32(&buf, 1) // version
	writeInt32(&buf, key.CX)
	writeInt32(&buf, key.CY)
	writeUint32(&buf, uint32(len(data.Buildings)))
	writeUint32(&buf, uint32(len(data.Roads)))
	buf.Write(make([]byte, 8))  // building_section_offset placeholder
	buf.Write(make([]byte, 8))  // road_section_offset placeholder
	buf.Write(make([]byte, 24)) // reserved

	buildingSectionOffset := uint64(buf.Len())
	for i, b := range data.Buildings {
		writeBuildingRecord(&buf, b, data.BuildingMeshes[i])
	}

	roadSectionOffset := uint64(buf.Len())
	for i, r := range data.Roads {
		writeRoadRecord(&buf, r, data.RoadMeshes[i])
	}

	body := buf.Bytes()
	binary.LittleEndian.PutUint64(body[24:32], buildingSectionOffset)
	binary.LittleEndian.PutUint64(body[32:40], roadSectionOffset)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chunk file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = f.Write(body); err != nil {
		return fmt.Errorf("failed to write chunk file %s: %w", path, err)
	}
	return nil
}

func writeBuildingRecord(buf *bytes.Buffer, b BuildingEntry, m mesh.Mesh) {
	writeFloat32(buf, float32(b.Centroid.X))
	writeFloat32(buf, 0)
	writeFloat32(buf, float32(b.Centroid.Z))
	writeFloat32(buf, 0) // rotation
	writeFloat32(buf, 1)
	writeFloat32(buf, 1)
	writeFloat32(buf, 1)
	writeFloat32(buf, float32(b.Feature.Height))
	writeUint16(buf, 0) // texture_id
	writeUint16(buf, 0) // flags
	writeUint32(buf, 0xFFFFFFFF)
	buf.Write(make([]byte, 8)) // reserved

	writeMeshRecord(buf, m)
}

func writeRoadRecord(buf *bytes.Buffer, r RoadEntry, m mesh.Mesh) {
	roadType := osm.RoadTypeCode(r.Feature.Classification)
	buf.WriteByte(byte(roadType))
	buf.WriteByte(lanesByte(r.Feature.Lanes))
	writeFloat32(buf, float32(r.Feature.Width))
	writeUint32(buf, uint32(r.PointCount))
	buf.Write(make([]byte, 6)) // padding

	writeMeshRecord(buf, m)
}

func writeMeshRecord(buf *bytes.Buffer, m mesh.Mesh) {
	writeUint32(buf, uint32(len(m.Vertices)))
	writeUint32(buf, uint32(len(m.Indices)))
	for _, v := range m.Vertices {
		writeVertex(buf, v)
	}
	for _, idx := range m.Indices {
		writeUint32(buf, idx)
	}
}

func writeVertex(buf *bytes.Buffer, v mesh.Vertex) {
	writeFloat32(buf, v.Position[0])
	writeFloat32(buf, v.Position[1])
	writeFloat32(buf, v.Position[2])
	writeFloat32(buf, v.Normal[0])
	writeFloat32(buf, v.Normal[1])
	writeFloat32(buf, v.Normal[2])
	writeFloat32(buf, v.Texcoord[0])
	writeFloat32(buf, v.Texcoord[1])
}

func lanesByte(lanes *int) byte {
	if lanes == nil {
		return 0
	}
	return byte(*lanes)
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeInt32(buf *bytes.Buffer, v int32) {
	writeUint32(buf, uint32(v))
}

func writeUint16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func writeFloat32(buf *bytes.Buffer, v float32) {
	writeUint32(buf, math.Float32bits(v))
}
