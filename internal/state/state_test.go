package state_test

import (
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/spinsim/internal/data"
	"github.com/san-kum/spinsim/internal/engine"
	"github.com/san-kum/spinsim/internal/hamiltonian"
	"github.com/san-kum/spinsim/internal/spin"
	"github.com/san-kum/spinsim/internal/state"
)

// endlessChain builds a chain whose methods never converge on their own.
func endlessChain(noi, nos int) *data.Chain {
	g := spin.NewLattice(nos, 1, 1)
	params := data.DefaultParams()
	params.LLG.ForceConvergence = 0
	params.LLG.MaxIterations = 0
	params.MMF.ForceConvergence = 0
	params.MMF.MaxIterations = 0

	images := make([]*data.Image, noi)
	for i := range images {
		h := hamiltonian.NewHeisenberg(g)
		h.Field = spin.UnitZ
		cfg := spin.NewConfiguration(g, h)
		for j := range cfg.Spins {
			cfg.Spins[j] = spin.Vector{1, float64(i), float64(j)}.Normalize()
		}
		images[i] = data.NewImage(cfg, params)
	}

	gneb := data.DefaultGNEBParams()
	gneb.ForceConvergence = 0
	gneb.MaxIterations = 0
	chain, err := data.NewChain(images, gneb)
	Expect(err).NotTo(HaveOccurred())
	return chain
}

func waitDone(m engine.Method) {
	Eventually(m.Done(), 5*time.Second).Should(BeClosed())
}

var _ = Describe("State", func() {
	var (
		chain *data.Chain
		st    *state.State
	)

	BeforeEach(func() {
		chain = endlessChain(3, 4)
		var err error
		st, err = state.New(chain, state.WithQuiet(true), state.WithConfigFile("test.yaml"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(st.Close()).To(Succeed())
	})

	Describe("construction", func() {
		It("rejects a missing chain", func() {
			s, err := state.New(nil)
			Expect(err).To(MatchError(data.ErrNotInitialized))
			Expect(s).To(BeNil())
		})

		It("treats a nil state as not initialized", func() {
			var s *state.State
			_, err := s.FromIndices(-1, -1)
			Expect(err).To(MatchError(data.ErrNotInitialized))
			_, err = s.Dispatch(engine.Relaxation, "", -1, -1)
			Expect(err).To(MatchError(data.ErrNotInitialized))
			Expect(s.IsRunning(-1, -1)).To(BeFalse())
		})

		It("records session info", func() {
			info, err := st.Info()
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ConfigFile).To(Equal("test.yaml"))
			Expect(info.NOI).To(Equal(3))
			Expect(info.NOS).To(Equal(4))
			Expect(info.ActiveImage).To(Equal(0))
			Expect(info.Created).NotTo(BeZero())
		})
	})

	Describe("index resolution", func() {
		It("resolves a negative image index to the active image", func() {
			Expect(st.JumpToImage(2)).To(Succeed())

			sentinel, err := st.FromIndices(-1, -1)
			Expect(err).NotTo(HaveOccurred())
			explicit, err := st.FromIndices(2, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(sentinel).To(Equal(explicit))
			Expect(sentinel.IdxImage).To(Equal(2))
			Expect(sentinel.IdxChain).To(Equal(0))
		})

		It("fails out of range without changing anything", func() {
			Expect(st.JumpToImage(1)).To(Succeed())

			_, err := st.FromIndices(3, -1)
			Expect(err).To(MatchError(data.ErrIndexOutOfRange))
			_, err = st.FromIndices(-1, 1)
			Expect(err).To(MatchError(data.ErrIndexOutOfRange))

			Expect(chain.NOI()).To(Equal(3))
			Expect(chain.ActiveIndex()).To(Equal(1))
		})

		It("never clamps a valid index", func() {
			for i := 0; i < 3; i++ {
				r, err := st.FromIndices(i, -1)
				Expect(err).NotTo(HaveOccurred())
				im, _ := chain.Image(i)
				Expect(r.Image).To(BeIdenticalTo(im))
				Expect(r.IdxImage).To(Equal(i))
			}
		})
	})

	Describe("dispatch", func() {
		It("runs independent methods on distinct images and stops only the current one", func() {
			first, err := st.Dispatch(engine.Relaxation, "", -1, -1)
			Expect(err).NotTo(HaveOccurred())
			second, err := st.Dispatch(engine.Relaxation, "", 1, -1)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.IsRunning(0, -1)).To(BeTrue())
			Expect(st.IsRunning(1, -1)).To(BeTrue())
			Expect(st.IsRunning(2, -1)).To(BeFalse())

			st.StopCurrent()

			Expect(first.Status().Phase).To(Equal(engine.Stopped))
			Expect(second.Status().Phase.Live()).To(BeTrue())
			Expect(st.IsRunning(1, -1)).To(BeTrue())
			waitDone(first)
		})

		It("rejects an occupied slot and leaves the occupant alone", func() {
			first, err := st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())

			_, err = st.Dispatch(engine.ModeFollowing, "", 0, -1)
			Expect(err).To(MatchError(data.ErrSlotBusy))

			Expect(first.Status().Phase.Live()).To(BeTrue())
			m, err := st.Method(0, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(m).To(BeIdenticalTo(first))
		})

		It("frees the slot once the method stopped", func() {
			first, err := st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Stop(0, -1)).To(Succeed())

			second, err := st.Dispatch(engine.Relaxation, "euler", 0, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).NotTo(BeIdenticalTo(first))
			Expect(second.Status().Solver).To(Equal("euler"))
		})

		It("keeps image and chain methods apart", func() {
			_, err := st.Dispatch(engine.Relaxation, "", 1, -1)
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Dispatch(engine.PathRelaxation, "", -1, -1)
			Expect(err).To(MatchError(data.ErrSlotBusy))

			st.StopAll()

			path, err := st.Dispatch(engine.PathRelaxation, "", -1, -1)
			Expect(err).NotTo(HaveOccurred())
			_, err = st.Dispatch(engine.Relaxation, "", 2, -1)
			Expect(err).To(MatchError(data.ErrSlotBusy))
			Expect(st.IsRunning(2, -1)).To(BeTrue())

			status, err := st.ChainStatus(-1)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Kind).To(Equal(engine.PathRelaxation))

			st.StopCurrent()
			Expect(path.Status().Phase).To(Equal(engine.Stopped))
		})

		It("fails for an image index beyond the chain", func() {
			_, err := st.Dispatch(engine.Relaxation, "", 5, -1)
			Expect(err).To(MatchError(data.ErrIndexOutOfRange))
			Expect(st.Running()).To(Equal(0))
		})

		It("reports unknown methods and solvers without occupying the slot", func() {
			_, err := st.Dispatch(engine.Kind("ema"), "", 0, -1)
			Expect(err).To(MatchError(data.ErrNotImplemented))
			_, err = st.Dispatch(engine.Relaxation, "depondt", 0, -1)
			Expect(err).To(MatchError(data.ErrNotImplemented))

			Expect(st.IsRunning(0, -1)).To(BeFalse())
			_, err = st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets exactly one of many concurrent dispatches win a slot", func() {
			var (
				wg   sync.WaitGroup
				mu   sync.Mutex
				wins int
				busy int
			)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					_, err := st.Dispatch(engine.Relaxation, "", 1, -1)
					mu.Lock()
					defer mu.Unlock()
					if err == nil {
						wins++
					} else {
						Expect(err).To(MatchError(data.ErrSlotBusy))
						busy++
					}
				}()
			}
			wg.Wait()

			Expect(wins).To(Equal(1))
			Expect(busy).To(Equal(15))
		})
	})

	Describe("stopping", func() {
		It("never reports running right after a stop", func() {
			for i := 0; i < 3; i++ {
				_, err := st.Dispatch(engine.Relaxation, "", i, -1)
				Expect(err).NotTo(HaveOccurred())
			}
			for i := 2; i >= 0; i-- {
				Expect(st.Stop(i, -1)).To(Succeed())
				status, err := st.Status(i, -1)
				Expect(err).NotTo(HaveOccurred())
				Expect(status.Phase).NotTo(Equal(engine.Running))
			}
		})

		It("stops every method and is idempotent", func() {
			var methods []engine.Method
			for _, kind := range []engine.Kind{engine.Relaxation, engine.ModeFollowing, engine.Relaxation} {
				m, err := st.Dispatch(kind, "", len(methods), -1)
				Expect(err).NotTo(HaveOccurred())
				methods = append(methods, m)
			}
			Expect(st.Running()).To(Equal(3))

			st.StopAll()
			Expect(st.Running()).To(Equal(0))
			st.StopAll()
			Expect(st.Running()).To(Equal(0))

			for _, m := range methods {
				Expect(m.Status().Phase).To(Equal(engine.Stopped))
				waitDone(m)
			}
		})

		It("does nothing when no method runs", func() {
			st.StopCurrent()
			st.StopAll()
			status, err := st.Status(-1, -1)
			Expect(err).NotTo(HaveOccurred())
			Expect(status.Phase).To(Equal(engine.Idle))
		})

		It("leaves the spins alone after a stop", func() {
			m, err := st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())
			Eventually(func() int { return m.Status().Iteration }, 5*time.Second).Should(BeNumerically(">", 5))

			st.StopCurrent()
			im, _ := chain.Image(0)
			after := im.Snapshot()
			Consistently(func() bool { return im.Snapshot().Equal(after) }, 50*time.Millisecond).Should(BeTrue())
		})
	})

	Describe("clipboard", func() {
		It("round trips a cut image bit for bit", func() {
			source, _ := chain.Image(1)
			original := source.Snapshot()

			Expect(st.CutImage(1)).To(Succeed())
			Expect(chain.NOI()).To(Equal(2))

			Expect(st.PasteImage(0)).To(Succeed())
			target, _ := chain.Image(0)
			Expect(target.Snapshot().Equal(original)).To(BeTrue())

			Expect(st.InsertImageAfter(1)).To(Succeed())
			Expect(chain.NOI()).To(Equal(3))
			inserted, _ := chain.Image(2)
			Expect(inserted.Snapshot().Equal(original)).To(BeTrue())
			Expect(inserted.ID()).NotTo(Equal(source.ID()))
		})

		It("keeps the only image of a chain when cutting it", func() {
			single := endlessChain(1, 4)
			s, err := state.New(single, state.WithQuiet(true))
			Expect(err).NotTo(HaveOccurred())
			defer s.Close()

			Expect(s.CutImage(0)).To(Succeed())
			Expect(single.NOI()).To(Equal(1))
			Expect(s.ClipboardImage()).NotTo(BeNil())
		})

		It("refuses to cut a simulated image", func() {
			_, err := st.Dispatch(engine.Relaxation, "", 1, -1)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.CutImage(1)).To(MatchError(data.ErrImageBusy))
			Expect(st.DeleteImage(1)).To(MatchError(data.ErrImageBusy))
			Expect(chain.NOI()).To(Equal(3))
		})

		It("refuses to insert into a chain under path relaxation", func() {
			Expect(st.CopyImage(0)).To(Succeed())
			_, err := st.Dispatch(engine.PathRelaxation, "", -1, -1)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.InsertImageBefore(1)).To(MatchError(data.ErrImageBusy))
			Expect(chain.NOI()).To(Equal(3))

			Expect(st.StopChain(-1)).To(Succeed())
			Expect(st.InsertImageBefore(1)).To(Succeed())
			Expect(chain.NOI()).To(Equal(4))
		})

		It("refuses clipboard edits while the chain is under path relaxation", func() {
			Expect(st.CopyImage(2)).To(Succeed())
			Expect(st.CopySpins(2)).To(Succeed())

			m, err := st.Dispatch(engine.PathRelaxation, "", -1, -1)
			Expect(err).NotTo(HaveOccurred())

			first, _ := chain.Image(0)
			before := first.Snapshot()

			Expect(st.CutImage(1)).To(MatchError(data.ErrImageBusy))
			Expect(st.PasteImage(0)).To(MatchError(data.ErrImageBusy))
			Expect(st.PasteSpins(0)).To(MatchError(data.ErrImageBusy))

			Expect(chain.NOI()).To(Equal(3))
			Expect(first.Snapshot().Equal(before)).To(BeTrue())

			m.Stop()
			Expect(st.PasteSpins(0)).To(Succeed())
		})

		It("refuses to paste onto a simulated image", func() {
			Expect(st.CopyImage(2)).To(Succeed())
			Expect(st.CopySpins(2)).To(Succeed())

			m, err := st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.PasteImage(0)).To(MatchError(data.ErrImageBusy))
			Expect(st.PasteSpins(0)).To(MatchError(data.ErrImageBusy))
			Expect(st.PasteImage(1)).To(Succeed())

			m.Stop()
			waitDone(m)
			Expect(st.PasteImage(0)).To(Succeed())
		})

		It("refuses to paste mismatched geometry", func() {
			other := endlessChain(1, 9)
			im, _ := other.Image(0)
			Expect(st.LoadClipboard(im)).To(Succeed())

			target, _ := chain.Image(0)
			before := target.Snapshot()

			Expect(st.PasteImage(0)).To(MatchError(data.ErrIncompatibleGeometry))
			Expect(st.InsertImageBefore(0)).To(MatchError(data.ErrIncompatibleGeometry))

			Expect(chain.NOI()).To(Equal(3))
			Expect(target.Snapshot().Equal(before)).To(BeTrue())
		})

		It("reports an empty clipboard", func() {
			Expect(st.PasteImage(0)).To(MatchError(data.ErrEmptyClipboard))
			Expect(st.InsertImageAfter(0)).To(MatchError(data.ErrEmptyClipboard))
			Expect(st.PasteSpins(0)).To(MatchError(data.ErrEmptyClipboard))
		})

		It("copies spins between images", func() {
			source, _ := chain.Image(2)
			Expect(st.CopySpins(2)).To(Succeed())
			Expect(st.PasteSpins(0)).To(Succeed())

			target, _ := chain.Image(0)
			Expect(target.Snapshot().Equal(source.Snapshot())).To(BeTrue())
		})
	})

	Describe("navigation", func() {
		It("keeps the active index in range across edits", func() {
			Expect(st.JumpToImage(2)).To(Succeed())
			Expect(st.DeleteImage(2)).To(Succeed())
			idx, err := st.ActiveImageIndex()
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(1))

			Expect(st.DeleteImage(0)).To(Succeed())
			idx, _ = st.ActiveImageIndex()
			Expect(idx).To(Equal(0))

			Expect(st.DeleteImage(0)).To(MatchError(data.ErrLastImage))
			Expect(st.NOI()).To(Equal(1))
		})

		It("steps through images without leaving the chain", func() {
			idx, err := st.PrevImage()
			Expect(err).NotTo(HaveOccurred())
			Expect(idx).To(Equal(0))

			st.NextImage()
			idx, _ = st.NextImage()
			Expect(idx).To(Equal(2))
			idx, _ = st.NextImage()
			Expect(idx).To(Equal(2))

			Expect(st.JumpToImage(3)).To(MatchError(data.ErrIndexOutOfRange))
		})
	})

	Describe("teardown", func() {
		It("stops running methods and releases the chain", func() {
			m, err := st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).NotTo(HaveOccurred())

			Expect(st.Close()).To(Succeed())
			Expect(m.Done()).To(BeClosed())
			Expect(m.Status().Phase).To(Equal(engine.Stopped))

			_, err = st.FromIndices(-1, -1)
			Expect(err).To(MatchError(data.ErrNotInitialized))
			_, err = st.Dispatch(engine.Relaxation, "", 0, -1)
			Expect(err).To(MatchError(data.ErrNotInitialized))
			Expect(st.NOI()).To(Equal(0))
		})
	})
})
