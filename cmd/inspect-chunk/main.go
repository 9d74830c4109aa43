// Command inspect-chunk prints the header and mesh statistics of a
// single binary chunk file, for debugging a build without a 3D
// viewer.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/ximhear/songdo-meshbuilder/internal/chunk"
)

type summary struct {
	Path          string `json:"path"`
	Version       uint32 `json:"version"`
	CX            int32  `json:"cx"`
	CY            int32  `json:"cy"`
	BuildingCount int    `json:"building_count"`
	RoadCount     int    `json:"road_count"`
	VertexTotal   int    `json:"vertex_total"`
	IndexTotal    int    `json:"index_total"`
}

func main() {
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: inspect-chunk [--json] <chunk-file> [chunk-file ...]")
		os.Exit(1)
	}

	var summaries []summary
	for _, path := range paths {
		h, buildings, roads, err := chunk.Read(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			os.Exit(1)
		}

		s := summary{
			Path:          path,
			Version:       h.Version,
			CX:            h.CX,
			CY:            h.CY,
			BuildingCount: len(buildings),
			RoadCount:     len(roads),
		}
		for _, m := range buildings {
			s.VertexTotal += len(m.Vertices)
			s.IndexTotal += len(m.Indices)
		}
		for _, m := range roads {
			s.VertexTotal += len(m.Vertices)
			s.IndexTotal += len(m.Indices)
		}
		summaries = append(summaries, s)
	}

	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(summaries)
		return
	}

	for _, s := range summaries {
		fmt.Printf("%s: v%d cell=(%d,%d) buildings=%d roads=%d vertices=%d indices=%d\n",
			s.Path, s.Version, s.CX, s.CY, s.BuildingCount, s.RoadCount, s.VertexTotal, s.IndexTotal)
	}
}
