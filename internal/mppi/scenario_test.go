package mppi_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/mppic/internal/critics"
	"github.com/san-kum/mppic/internal/models"
	"github.com/san-kum/mppic/internal/mppi"
)

func straightPath(n int, spacing float64) mppi.Path {
	path := make(mppi.Path, n)
	for i := range path {
		path[i] = mppi.Point{X: float64(i) * spacing}
	}
	return path
}

func pathFollowOnly() *critics.Manager {
	cfg := critics.DefaultConfig()
	cfg.Critics = []string{critics.NamePathFollow}
	m, err := critics.NewManager(cfg, nil)
	Expect(err).NotTo(HaveOccurred())
	return m
}

var _ = Describe("Optimizer", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("with zero noise on a straight path", func() {
		var opt *mppi.Optimizer

		BeforeEach(func() {
			s := mppi.DefaultSettings()
			s.BatchSize = 8
			s.TimeSteps = 5
			s.Temperature = 1.0
			s.VStd, s.WStd = 0, 0

			var err error
			opt, err = mppi.New(s, models.Naive(), pathFollowOnly())
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits a command without angular component", func() {
			cmd, err := opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, straightPath(51, 0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.W).To(BeZero())
			Expect(cmd.V).To(BeNumerically(">=", 0))
		})

		It("keeps every trajectory on the path axis", func() {
			_, err := opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, straightPath(51, 0.1))
			Expect(err).NotTo(HaveOccurred())

			tr := opt.GeneratedTrajectories()
			n, steps := tr.Dims()
			for i := 0; i < n; i++ {
				for t := 0; t < steps; t++ {
					Expect(tr.At(i, t).Y).To(BeZero())
				}
			}
		})
	})

	Context("with noise on a straight path", func() {
		var opt *mppi.Optimizer

		BeforeEach(func() {
			s := mppi.DefaultSettings()
			s.BatchSize = 2000
			s.TimeSteps = 5
			s.Temperature = 0.1
			s.VStd, s.WStd = 0.2, 0.2
			s.Seed = 7
			s.Workers = 4

			var err error
			opt, err = mppi.New(s, models.Naive(), pathFollowOnly())
			Expect(err).NotTo(HaveOccurred())
		})

		It("drives forward along the path", func() {
			cmd, err := opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, straightPath(51, 0.1))
			Expect(err).NotTo(HaveOccurred())
			Expect(cmd.V).To(BeNumerically(">", 0.05))
			Expect(math.Abs(cmd.W)).To(BeNumerically("<", 0.1))
		})

		It("keeps the sequence inside the velocity limits", func() {
			for i := 0; i < 5; i++ {
				_, err := opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, straightPath(51, 0.1))
				Expect(err).NotTo(HaveOccurred())
			}
			seq := opt.ControlSequence()
			for t := 0; t < seq.Len(); t++ {
				Expect(math.Abs(seq.V[t])).To(BeNumerically("<=", mppi.DefaultVLimit))
				Expect(math.Abs(seq.W[t])).To(BeNumerically("<=", mppi.DefaultWLimit))
			}
		})
	})

	Context("with no critics", func() {
		It("updates to the uniform mean of the samples", func() {
			s := mppi.DefaultSettings()
			s.BatchSize = 64
			s.TimeSteps = 3
			s.Seed = 11

			opt, err := mppi.New(s, models.Naive(), critics.NewManagerOf(nil))
			Expect(err).NotTo(HaveOccurred())

			var batch *mppi.Batch
			probe := mppi.ScorerFunc(func(data *mppi.CriticData) { batch = data.Batch })
			probed, err := mppi.New(s, models.Naive(), probe)
			Expect(err).NotTo(HaveOccurred())

			path := straightPath(10, 0.1)
			_, err = opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, path)
			Expect(err).NotTo(HaveOccurred())
			_, err = probed.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, path)
			Expect(err).NotTo(HaveOccurred())

			seq := opt.ControlSequence()
			for t := 0; t < s.TimeSteps; t++ {
				mean := 0.0
				for i := 0; i < s.BatchSize; i++ {
					mean += batch.Control(i, t).V
				}
				mean /= float64(s.BatchSize)
				Expect(seq.V[t]).To(BeNumerically("~", mean, 1e-12))
			}
		})
	})

	Context("with the prefer forward critic weighted up", func() {
		It("charges reversing samples more than the same samples without it", func() {
			cfg := critics.DefaultConfig()
			cfg.Critics = []string{critics.NamePathFollow, critics.NamePreferForward}
			cfg.PreferForward.Weight = 100
			scorer, err := critics.NewManager(cfg, nil)
			Expect(err).NotTo(HaveOccurred())
			pathFollow := critics.NewPathFollow(cfg.PathFollow)

			s := mppi.DefaultSettings()
			s.BatchSize = 256
			s.TimeSteps = 5
			s.WStd = 0
			s.Seed = 3

			var extra []float64
			var batch *mppi.Batch
			probe := mppi.ScorerFunc(func(data *mppi.CriticData) {
				baseline := mppi.NewCriticData(data.Path, data.Pose, data.Velocity, data.Trajectories, data.Batch, data.ModelDt)
				pathFollow.Score(baseline)
				scorer.Score(data)

				extra = make([]float64, len(data.Costs))
				for i := range extra {
					extra[i] = data.Costs[i] - baseline.Costs[i]
				}
				batch = data.Batch
			})

			opt, err := mppi.New(s, models.Naive(), probe)
			Expect(err).NotTo(HaveOccurred())
			_, err = opt.EvalControl(ctx, mppi.Pose{}, mppi.Twist{}, straightPath(51, 0.1))
			Expect(err).NotTo(HaveOccurred())

			reversing := 0
			for i := 0; i < s.BatchSize; i++ {
				backward := false
				for t := 0; t < s.TimeSteps; t++ {
					if batch.Velocity(i, t).V < 0 {
						backward = true
					}
				}
				if backward {
					reversing++
					Expect(extra[i]).To(BeNumerically(">", 0))
				} else {
					Expect(extra[i]).To(BeNumerically("~", 0, 1e-12))
				}
			}
			Expect(reversing).To(BeNumerically(">", 0))
		})
	})
})
