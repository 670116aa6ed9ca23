package storage

import (
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/san-kum/lorentz/internal/dynamo"
)

type ExportData struct {
	Run       RunMetadata      `json:"run"`
	Particles []ExportParticle `json:"particles"`
	Times     []float64        `json:"times"`
}

// ExportParticle is one particle's trajectory as parallel arrays.
type ExportParticle struct {
	ID string    `json:"id"`
	X  []float64 `json:"x"`
	Y  []float64 `json:"y"`
	VX []float64 `json:"vx"`
	VY []float64 `json:"vy"`
}

func NewExportData(meta RunMetadata, frames []dynamo.Frame) ExportData {
	data := ExportData{Run: meta, Times: make([]float64, len(frames))}
	if len(frames) > 0 {
		data.Particles = make([]ExportParticle, len(frames[0].Kinematics))
		for i := range data.Particles {
			data.Particles[i].ID = particleID(meta, i)
		}
	}
	for t, f := range frames {
		data.Times[t] = f.Time
		for i, k := range f.Kinematics {
			if i >= len(data.Particles) {
				break
			}
			p := &data.Particles[i]
			p.X = append(p.X, k.Pos.X)
			p.Y = append(p.Y, k.Pos.Y)
			p.VX = append(p.VX, k.Vel.X)
			p.VY = append(p.VY, k.Vel.Y)
		}
	}
	return data
}

func ExportJSON(path string, meta RunMetadata, frames []dynamo.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, meta, frames)
}

func ExportJSONStdout(meta RunMetadata, frames []dynamo.Frame) error {
	return WriteJSON(os.Stdout, meta, frames)
}

func WriteJSON(w io.Writer, meta RunMetadata, frames []dynamo.Frame) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, frames))
}

func particleID(meta RunMetadata, i int) string {
	if meta.Scene != nil && i < len(meta.Scene.Particles) {
		if id := meta.Scene.Particles[i].ID; id != "" {
			return id
		}
	}
	return "p" + strconv.Itoa(i)
}
