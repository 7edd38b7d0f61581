package sim_test

import (
	"testing"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"
)

func TestSim(t *testing.T) {
	o.RegisterFailHandler(g.Fail)
	g.RunSpecs(t, "Simulation Suite")
}
