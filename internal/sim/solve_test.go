package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/attractors/internal/dynamo"
	"github.com/san-kum/attractors/internal/experiment"
	"github.com/san-kum/attractors/internal/integrators"
	"github.com/san-kum/attractors/internal/sim"
)

var _ = Describe("Solve", func() {
	var registry *experiment.Registry

	BeforeEach(func() {
		registry = experiment.NewRegistry()
	})

	DescribeTable("samples the half-open grid [0, t_max)",
		func(name string, tmax, dt float64, points int) {
			sys, err := registry.Lookup(name)
			Expect(err).NotTo(HaveOccurred())

			run := sim.DefaultRun(sys)
			run.Settings = dynamo.Settings{TMax: tmax, Dt: dt}

			tr, err := sim.Solve(context.Background(), sys, run)
			Expect(err).NotTo(HaveOccurred())
			Expect(tr.Len()).To(Equal(points))
			Expect(tr.Times[0]).To(BeZero())
			Expect(tr.States[0]).To(Equal(sys.DefaultState()))
			for i := 1; i < tr.Len(); i++ {
				Expect(tr.Times[i] - tr.Times[i-1]).To(BeNumerically("~", dt, 1e-9))
			}
		},
		Entry("Lorenz at the bounds", "Lorenz", 10.0, 0.1, 100),
		Entry("Rössler default step", "Rössler", 10.0, 0.01, 1000),
		Entry("Thomas default step", "Thomas", 20.0, 0.05, 400),
	)

	It("rejects parameter sets that do not match the system", func() {
		sys, err := registry.Lookup("Lorenz")
		Expect(err).NotTo(HaveOccurred())

		run := sim.DefaultRun(sys)
		delete(run.Params, "beta")
		_, err = sim.Solve(context.Background(), sys, run)
		Expect(err).To(MatchError(dynamo.ErrParameterMismatch))

		run = sim.DefaultRun(sys)
		run.Params["alpha"] = 1
		_, err = sim.Solve(context.Background(), sys, run)
		Expect(err).To(MatchError(dynamo.ErrParameterMismatch))
	})

	It("keeps the default Thomas trajectory bounded", func() {
		sys, err := registry.Lookup("Thomas")
		Expect(err).NotTo(HaveOccurred())

		tr, err := sim.Solve(context.Background(), sys, sim.DefaultRun(sys))
		Expect(err).NotTo(HaveOccurred())
		Expect(tr.Len()).To(Equal(10000))
		for _, s := range tr.States {
			Expect(s.IsValid()).To(BeTrue())
			Expect(s.Norm()).To(BeNumerically("<", 10))
		}
	})

	Context("with the fixed-step method", func() {
		It("matches the adaptive method early in the Rössler orbit", func() {
			sys, err := registry.Lookup("Rössler")
			Expect(err).NotTo(HaveOccurred())

			run := sim.DefaultRun(sys)
			run.Settings = dynamo.Settings{TMax: 10, Dt: 0.01}
			adaptive, err := sim.Solve(context.Background(), sys, run)
			Expect(err).NotTo(HaveOccurred())

			run.Method = integrators.MethodRK4
			fixed, err := sim.Solve(context.Background(), sys, run)
			Expect(err).NotTo(HaveOccurred())

			for i := range adaptive.States {
				d := adaptive.States[i].Sub(fixed.States[i]).Norm()
				Expect(math.IsNaN(d)).To(BeFalse())
				Expect(d).To(BeNumerically("<", 1e-5))
			}
		})
	})
})
