package frame

import (
	"os"
	"time"

	"github.com/pborman/uuid"
	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"

	"github.com/lixenwraith/nbody/sim"
)

// Entry records one written frame
type Entry struct {
	Index         int        `json:"index"`
	File          string     `json:"file"`
	Step          int        `json:"step"`
	Particles     int        `json:"particles"`
	Dropped       int        `json:"dropped"`
	TreeNodes     int        `json:"treeNodes"`
	TreeDepth     int        `json:"treeDepth"`
	KineticEnergy float64    `json:"kineticEnergy"`
	Momentum      [2]float64 `json:"momentum"`
	StepSeconds   float64    `json:"stepSeconds"`
}

// Manifest describes one run: its id, the resolved configuration and every frame
type Manifest struct {
	RunID   string    `json:"runID"`
	Started time.Time `json:"started"`
	Config  any       `json:"config,omitempty"`
	Frames  []Entry   `json:"frames"`
}

// NewManifest starts a manifest with a fresh run id
func NewManifest(config any) *Manifest {
	return &Manifest{
		RunID:   uuid.New(),
		Started: time.Now().UTC(),
		Config:  config,
	}
}

// Add appends an entry for a written frame
func (m *Manifest) Add(file string, f *sim.Frame) {
	st := f.Stats
	m.Frames = append(m.Frames, Entry{
		Index:         f.Index,
		File:          file,
		Step:          st.Step,
		Particles:     st.Tree.Particles,
		Dropped:       st.Tree.Dropped,
		TreeNodes:     st.Tree.Nodes,
		TreeDepth:     st.Tree.MaxDepth,
		KineticEnergy: st.KineticEnergy,
		Momentum:      [2]float64{st.Momentum[0], st.Momentum[1]},
		StepSeconds:   st.Total.Seconds(),
	})
}

// WriteFile stores the manifest as YAML
func (m *Manifest) WriteFile(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "write manifest %s", path)
}

// ReadManifest loads a manifest written by WriteFile
// Config is decoded generically
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read manifest %s", path)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, errors.Wrapf(err, "parse manifest %s", path)
	}
	return m, nil
}
