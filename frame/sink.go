package frame

import (
	"bufio"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/lixenwraith/nbody/parameter"
	"github.com/lixenwraith/nbody/render"
	"github.com/lixenwraith/nbody/sim"
)

// FileSink renders every frame and writes it to prefix + index + suffix
type FileSink struct {
	Prefix   string
	Pad      int
	Suffix   string
	renderer *render.Renderer
	encode   Encoder
	manifest *Manifest
}

// NewFileSink validates the naming, creates the output directory and binds a renderer
// manifest may be nil
func NewFileSink(prefix string, pad int, suffix string, r *render.Renderer, m *Manifest) (*FileSink, error) {
	enc, err := EncoderFor(suffix)
	if err != nil {
		return nil, err
	}
	if pad < 0 {
		return nil, errors.Errorf("pad must be >= 0, got %d", pad)
	}
	if dir := filepath.Dir(prefix); dir != "" {
		if err := os.MkdirAll(dir, parameter.OutputDirPerm); err != nil {
			return nil, errors.Wrapf(err, "create output dir %s", dir)
		}
	}
	return &FileSink{
		Prefix:   prefix,
		Pad:      pad,
		Suffix:   suffix,
		renderer: r,
		encode:   enc,
		manifest: m,
	}, nil
}

// WriteFrame implements sim.Sink
func (s *FileSink) WriteFrame(f *sim.Frame) error {
	start := time.Now()
	img := s.renderer.Render(f.Particles, fmt.Sprintf("frame %d  step %d  n=%d", f.Index, f.Stats.Step, len(f.Particles)))
	name := Filename(s.Prefix, f.Index, s.Pad, s.Suffix)

	if err := s.write(name, img); err != nil {
		return err
	}
	klog.V(2).InfoS("Image saved", "file", name, "elapsed", time.Since(start))

	if s.manifest != nil {
		s.manifest.Add(name, f)
	}
	return nil
}

func (s *FileSink) write(name string, img image.Image) error {
	file, err := os.Create(name)
	if err != nil {
		return errors.Wrapf(err, "create %s", name)
	}
	w := bufio.NewWriter(file)
	if err := s.encode(w, img); err != nil {
		file.Close()
		return errors.Wrapf(err, "encode %s", name)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return errors.Wrapf(err, "flush %s", name)
	}
	return errors.Wrapf(file.Close(), "close %s", name)
}
