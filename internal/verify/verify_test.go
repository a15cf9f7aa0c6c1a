package verify_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinematica/internal/engine"
	"github.com/san-kum/kinematica/internal/observe"
	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/simulator"
	"github.com/san-kum/kinematica/internal/solver"
	"github.com/san-kum/kinematica/internal/verify"
)

type stubSimulator struct {
	res   problem.SimResult
	err   error
	panic bool
}

func (s stubSimulator) Simulate(problem.ParsedProblem) (problem.SimResult, error) {
	if s.panic {
		panic("engine fault")
	}
	return s.res, s.err
}

var _ = Describe("Verifier", func() {
	var (
		rec *observe.Recorder
		sol *solver.Solver
		sim *simulator.Simulator
	)

	BeforeEach(func() {
		rec = observe.NewRecorder()
		sol = solver.New(nil)
		sim = simulator.New(engine.DefaultParams())
	})

	check := func(p problem.ParsedProblem) problem.VerificationResult {
		s, err := sol.Solve(p)
		Expect(err).NotTo(HaveOccurred())
		return verify.New(sim, rec).Verify(p, s)
	}

	Context("end-to-end scenarios", func() {
		It("validates a projectile range", func() {
			p := problem.New(problem.Projectile, map[string]float64{
				problem.ParamInitialVelocity: 20, problem.ParamAngle: 45, problem.ParamHeight: 0,
			}, problem.QuantityRange)

			res := check(p)
			Expect(res.Error).To(BeEmpty())
			Expect(res.IsValid).To(BeTrue())
			Expect(res.AgreementScore).To(BeNumerically(">", 0.99))
			Expect(res.Confidence).To(Equal(res.AgreementScore))
			Expect(res.AnalyticalResult[0]).To(BeNumerically("~", 40.775, 1e-3))
			Expect(res.SimulationResult).To(ContainSubstring("Range"))
			Expect(sim.Connected()).To(BeFalse())
		})

		It("validates a free fall from 15 m", func() {
			p := problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 15}, problem.QuantityFinalVelocity)
			res := check(p)
			Expect(res.IsValid).To(BeTrue())
			Expect(res.AgreementScore).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("validates a pendulum period despite the large-angle correction", func() {
			p := problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 1, problem.ParamInitialAngle: 30}, problem.QuantityPeriod)
			res := check(p)
			Expect(res.IsValid).To(BeTrue())
			Expect(res.AgreementScore).To(BeNumerically(">", 0.95))
			Expect(res.AgreementScore).To(BeNumerically("<", 1.0))
		})

		It("validates runs longer than the contact step budget", func() {
			long := check(problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 100, problem.ParamInitialAngle: 10}, problem.QuantityPeriod))
			Expect(long.Error).To(BeEmpty())
			Expect(long.IsValid).To(BeTrue())

			fall := check(problem.New(problem.FreeFall, map[string]float64{problem.ParamTime: 60}, problem.QuantityDistance))
			Expect(fall.Error).To(BeEmpty())
			Expect(fall.IsValid).To(BeTrue())
		})

		It("validates an equal-mass collision exactly", func() {
			p := problem.New(problem.Collision, nil, "",
				problem.PhysicsObject{Name: "A", Mass: 1, Velocity: 5},
				problem.PhysicsObject{Name: "B", Mass: 1, Velocity: 0})
			res := check(p)
			Expect(res.IsValid).To(BeTrue())
			Expect(res.AgreementScore).To(Equal(1.0))
			Expect(res.AnalyticalResult).To(HaveLen(2))
		})

		It("emits a completion event", func() {
			check(problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 3}, ""))
			Expect(rec.Named(observe.VerificationCompleted)).To(HaveLen(1))
		})
	})

	Context("failures", func() {
		p := problem.New(problem.FreeFall, map[string]float64{problem.ParamHeight: 15}, "")
		s := problem.Solution{Answer: problem.Scalar(17.155), Unit: "m/s"}

		It("turns a simulator error into an invalid result", func() {
			v := verify.New(stubSimulator{err: problem.ErrSimulationTimeout}, rec)
			res := v.Verify(p, s)
			Expect(res.IsValid).To(BeFalse())
			Expect(res.Confidence).To(BeZero())
			Expect(res.Error).To(ContainSubstring("step budget"))
			Expect(rec.Named(observe.VerificationFailed)).To(HaveLen(1))
		})

		It("turns a panic into an invalid result", func() {
			v := verify.New(stubSimulator{panic: true}, rec)
			res, run := v.Run(p, s)
			Expect(res.IsValid).To(BeFalse())
			Expect(res.Error).To(ContainSubstring("engine fault"))
			Expect(run).To(BeNil())
		})

		It("rejects a measurement from another family", func() {
			v := verify.New(stubSimulator{res: problem.SimResult{Measurement: problem.PendulumResult{Period: 2}}}, rec)
			res := v.Verify(p, s)
			Expect(res.IsValid).To(BeFalse())
			Expect(res.Error).NotTo(BeEmpty())
		})

		It("fails softly on an invalid problem", func() {
			bad := problem.New(problem.Pendulum, map[string]float64{problem.ParamLength: 0}, "")
			res := verify.New(sim, rec).Verify(bad, s)
			Expect(res.IsValid).To(BeFalse())
			Expect(res.Confidence).To(BeZero())
		})

		It("marks a disagreeing solution invalid", func() {
			v := verify.New(stubSimulator{res: problem.SimResult{Measurement: problem.FreeFallResult{FinalVelocity: 10}}}, rec)
			res := v.Verify(p, s)
			Expect(res.Error).To(BeEmpty())
			Expect(res.IsValid).To(BeFalse())
			Expect(res.AgreementScore).To(BeNumerically("~", 10/17.155, 1e-9))
		})

		It("keeps errors matchable upstream", func() {
			_, err := sim.Simulate(problem.New(problem.Projectile, map[string]float64{problem.ParamInitialVelocity: 1}, ""))
			Expect(errors.Is(err, problem.ErrInvalidParameter)).To(BeTrue())
		})
	})
})
