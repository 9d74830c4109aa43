package chunk

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/ximhear/songdo-meshbuilder/internal/mesh"
)

// Header is the decoded fixed-size chunk file header.
type Header struct {
	Version               uint32
	CX, CY                int32
	BuildingCount         uint32
	RoadCount             uint32
	BuildingSectionOffset uint64
	RoadSectionOffset     uint64
}

// Read parses a chunk file written by Write back into its header and
// per-section meshes, for round-trip testing and inspection tools.
// Fixed instance fields (position, rotation, road_type, ...) are not
// decoded here since round-trip verification only needs the meshes.
func Read(path string) (Header, []mesh.Mesh, []mesh.Mesh, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return Header{}, nil, nil, fmt.Errorf("failed to read chunk file %s: %w", path, err)
	}
	if len(body) < headerSize {
		return Header{}, nil, nil, fmt.Errorf("chunk file %s is shorter than the header", path)
	}
	if string(body[0:4]) != "SDC1" {
		return Header{}, nil, nil, fmt.Errorf("chunk file %s has bad magic %q", path, body[0:4])
	}

	h := Header{
		Version:               binary.LittleEndian.Uint32(body[4:8]),
		CX:                    int32(binary.LittleEndian.Uint32(body[8:12])),
		CY:                    int32(binary.LittleEndian.Uint32(body[12:16])),
		BuildingCount:         binary.LittleEndian.Uint32(body[16:20]),
		RoadCount:             binary.LittleEndian.Uint32(body[20:24]),
		BuildingSectionOffset: binary.LittleEndian.Uint64(body[24:32]),
		RoadSectionOffset:     binary.LittleEndian.Uint64(body[32:40]),
	}
	if h.BuildingSectionOffset < headerSize || h.RoadSectionOffset < headerSize {
		return h, nil, nil, fmt.Errorf("chunk file %s has invalid section offsets", path)
	}

	offset := int(h.BuildingSectionOffset)
	buildings := make([]mesh.Mesh, 0, h.BuildingCount)
	for i := uint32(0); i < h.BuildingCount; i++ {
		offset += buildingBlockSize
		m, next := readMesh(body, offset)
		buildings = append(buildings, m)
		offset = next
	}

	offset = int(h.RoadSectionOffset)
	roads := make([]mesh.Mesh, 0, h.RoadCount)
	for i := uint32(0); i < h.RoadCount; i++ {
		offset += roadBlockSize
		m, next := readMesh(body, offset)
		roads = append(roads, m)
		offset = next
	}

	return h, buildings, roads, nil
}

func readMesh(body []byte, offset int) (mesh.Mesh, int) {
	vertexCount := binary.LittleEndian.Uint32(body[offset : offset+4])
	indexCount := binary.LittleEndian.Uint32(body[offset+4 : offset+8])
	offset += 8

	vertices := make([]mesh.Vertex, 0, vertexCount)
	for i := uint32(0); i < vertexCount; i++ {
		v := mesh.Vertex{
			Position: [3]float32{
				readFloat32(body, offset),
				readFloat32(body, offset+4),
				readFloat32(body, offset+8),
			},
			Normal: [3]float32{
				readFloat32(body, offset+12),
				readFloat32(body, offset+16),
				readFloat32(body, offset+20),
			},
			Texcoord: [2]float32{
				readFloat32(body, offset+24),
				readFloat32(body, offset+28),
			},
		}
		vertices = append(vertices, v)
		offset += vertexRecordSize
	}

	indices := make([]uint32, 0, indexCount)
	for i := uint32(0); i < indexCount; i++ {
		indices = append(indices, binary.LittleEndian.Uint32(body[offset:offset+4]))
		offset += 4
	}

	return mesh.Mesh{Vertices: vertices, Indices: indices}, offset
}

func readFloat32(body []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(body[offset : offset+4]))
}
