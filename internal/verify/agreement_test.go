package verify_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinematica/internal/problem"
	"github.com/san-kum/kinematica/internal/verify"
)

var _ = Describe("Agreement", func() {
	It("is 1 when both values are zero", func() {
		Expect(verify.Agreement(0, 0)).To(Equal(1.0))
	})

	It("is 0 when exactly one value is zero", func() {
		Expect(verify.Agreement(0, 3)).To(Equal(0.0))
		Expect(verify.Agreement(-2, 0)).To(Equal(0.0))
	})

	It("is 1 for identical values", func() {
		for _, x := range []float64{1e-9, 0.5, 40.775, -7, 1e6} {
			Expect(verify.Agreement(x, x)).To(Equal(1.0))
		}
	})

	It("uses the larger magnitude as scale", func() {
		Expect(verify.Agreement(10, 9)).To(BeNumerically("~", 0.9, 1e-12))
		Expect(verify.Agreement(9, 10)).To(BeNumerically("~", 0.9, 1e-12))
	})

	It("floors at zero for opposite signs", func() {
		Expect(verify.Agreement(5, -5)).To(Equal(0.0))
	})

	It("stays within [0, 1]", func() {
		values := []float64{-100, -3.5, -1e-3, 1e-3, 0.25, 2, 17.149, 400}
		for _, a := range values {
			for _, s := range values {
				score := verify.Agreement(a, s)
				Expect(score).To(BeNumerically(">=", 0))
				Expect(score).To(BeNumerically("<=", 1))
			}
		}
	})

	It("rejects non-finite inputs", func() {
		Expect(verify.Agreement(math.NaN(), 1)).To(Equal(0.0))
		Expect(verify.Agreement(1, math.Inf(1))).To(Equal(0.0))
	})
})

var _ = Describe("VectorAgreement", func() {
	It("averages components with equal weight", func() {
		score, err := verify.VectorAgreement(problem.Pair(0, 5), problem.Pair(0, 4))
		Expect(err).NotTo(HaveOccurred())
		Expect(score).To(BeNumerically("~", (1+0.8)/2, 1e-12))
	})

	It("rejects mismatched lengths", func() {
		_, err := verify.VectorAgreement(problem.Pair(1, 2), problem.Scalar(1))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Threshold", func() {
	It("is strict at 0.8", func() {
		Expect(verify.IsValid(0.799999)).To(BeFalse())
		Expect(verify.IsValid(0.8)).To(BeFalse())
		Expect(verify.IsValid(0.800001)).To(BeTrue())
	})

	It("labels confidence for display only", func() {
		Expect(verify.ConfidenceLabel(0.95)).To(Equal("high"))
		Expect(verify.ConfidenceLabel(0.75)).To(Equal("medium"))
		Expect(verify.ConfidenceLabel(0.75)).NotTo(Equal("low"))
		Expect(verify.IsValid(0.75)).To(BeFalse())
		Expect(verify.ConfidenceLabel(0.2)).To(Equal("low"))
	})
})
