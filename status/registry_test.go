package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMetricMapGetCreatesOnce verifies repeated Get returns the same pointer
func TestMetricMapGetCreatesOnce(t *testing.T) {
	r := NewRegistry()
	a := r.Ints.Get(KeyStep)
	b := r.Ints.Get(KeyStep)
	if a != b {
		t.Fatal("Expected cached pointer on second Get")
	}
	a.Store(7)
	assert.Equal(t, int64(7), b.Load())
	assert.Equal(t, 1, r.Ints.Count())
	assert.Equal(t, 1, r.TotalCount())
}

// TestAtomicFloatAddConcurrent verifies the CAS loop loses no updates
func TestAtomicFloatAddConcurrent(t *testing.T) {
	var f AtomicFloat
	const workers, perWorker = 50, 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				f.Add(0.5)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(workers*perWorker)*0.5, f.Get())
}

// TestAtomicStringZero verifies the zero value reads empty
func TestAtomicStringZero(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store("force")
	assert.Equal(t, "force", s.Load())
}

// TestLinesOrder verifies HUD lines group by type in registration order
func TestLinesOrder(t *testing.T) {
	r := NewRegistry()
	r.Bools.Get(KeyPaused).Store(true)
	r.Strings.Get(KeyPhase).Store("build")
	r.Floats.Get(KeyStepMillis).Set(12.5)
	r.Ints.Get(KeyStep).Store(3)
	r.Ints.Get(KeyParticles).Store(100)

	want := []string{
		"step 3",
		"particles 100",
		"step.ms 12.5",
		"phase build",
		"paused true",
	}
	assert.Equal(t, want, r.Lines())
}
