package flock_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/flocksim/internal/flock"
	"github.com/san-kum/flocksim/internal/geom"
)

var _ = Describe("Flock rules", func() {
	var (
		f      *flock.Flock
		params flock.Params
	)

	build := func(mode flock.Mode, agents ...flock.Agent) {
		var err error
		f, err = flock.New(flock.Config{
			Width:  800,
			Height: 600,
			N:      len(agents),
			Params: params,
			Mode:   mode,
		}, rand.New(rand.NewSource(1)))
		Expect(err).NotTo(HaveOccurred())
		for i, a := range agents {
			f.SetAgent(i, a)
		}
	}

	BeforeEach(func() {
		params = flock.DefaultParams()
	})

	DescribeTable("a pair inside the visual range",
		func(mode flock.Mode) {
			build(mode,
				flock.Agent{Pos: geom.V(400, 300), Vel: geom.V(80, 0)},
				flock.Agent{Pos: geom.V(400, 315), Vel: geom.V(0, 80)},
			)
			Expect(f.Step(flock.DefaultDt, nil)).To(Succeed())

			Expect(f.Neighbors()).To(Equal([]int32{1, 1}))
			a, b := f.Agents()[0], f.Agents()[1]
			By("turning toward each other's heading")
			Expect(a.Vel.Y).To(BeNumerically(">", 0))
			Expect(b.Vel.X).To(BeNumerically(">", 0))
			By("staying inside the speed band")
			for _, v := range []geom.Vec2{a.Vel, b.Vel} {
				Expect(v.Len()).To(BeNumerically(">=", params.MinSpeed-1e-9))
				Expect(v.Len()).To(BeNumerically("<=", params.MaxSpeed+1e-9))
			}
		},
		Entry("with a snapshot step", flock.Snapshot),
		Entry("with an in-place step", flock.InPlace),
	)

	Context("when the attractor is on", func() {
		BeforeEach(func() {
			build(flock.Snapshot,
				flock.Agent{Pos: geom.V(100, 100), Vel: geom.V(0, 60)},
				flock.Agent{Pos: geom.V(700, 500), Vel: geom.V(0, 60)},
			)
			f.SetAttract(true)
		})

		It("does nothing without targets", func() {
			Expect(f.Step(flock.DefaultDt, nil)).To(Succeed())
			Expect(f.Agents()[0].Vel.X).To(BeZero())
		})

		It("pulls each block of agents toward its own target", func() {
			Expect(f.Targets().Add(flock.Target{X: 400, Y: 100})).To(Succeed())
			Expect(f.Targets().Add(flock.Target{X: 400, Y: 500})).To(Succeed())
			Expect(f.Step(flock.DefaultDt, nil)).To(Succeed())

			Expect(f.Agents()[0].Vel.X).To(BeNumerically(">", 0))
			Expect(f.Agents()[1].Vel.X).To(BeNumerically("<", 0))
			Expect(f.Agents()[0].Vel.Len()).To(BeNumerically("~", flock.AttractMaxSpeed, 1e-9))
		})

		It("gives every agent a target when the targets do not divide the flock", func() {
			seen := make(map[int]bool)
			for i := 0; i < 500; i++ {
				idx, ok := flock.TargetIndex(i, 500, 336)
				Expect(ok).To(BeTrue(), "agent %d", i)
				seen[idx] = true
			}
			Expect(seen).To(HaveLen(336))
		})

		It("refuses targets past the population size", func() {
			Expect(f.Targets().Add(flock.Target{X: 1, Y: 1})).To(Succeed())
			Expect(f.Targets().Add(flock.Target{X: 2, Y: 2})).To(Succeed())
			Expect(f.Targets().Add(flock.Target{X: 3, Y: 3})).To(MatchError(flock.ErrTargetsFull))
			Expect(f.Targets().Len()).To(Equal(2))
		})
	})

	Context("with a crowded flock", func() {
		It("keeps every position finite", func() {
			var err error
			f, err = flock.New(flock.Config{Width: 120, Height: 80, N: 400, Params: params},
				rand.New(rand.NewSource(5)))
			Expect(err).NotTo(HaveOccurred())
			for i := 0; i < 300; i++ {
				Expect(f.Step(flock.DefaultDt, nil)).To(Succeed())
			}
			for _, a := range f.Agents() {
				Expect(a.Pos.IsFinite()).To(BeTrue())
				Expect(a.Vel.IsFinite()).To(BeTrue())
			}
		})
	})
})
