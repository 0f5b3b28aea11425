package timing

import (
	"bytes"
	"errors"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/queuesim/sim/hooking"
)

type recordingHandler struct {
	engine   *SerialEngine
	calls    []string
	schedule map[string][]struct {
		delay VTimeInMin
		label string
	}
}

func (h *recordingHandler) Handle(payload any) error {
	label := payload.(string)
	h.calls = append(h.calls, label)

	for _, s := range h.schedule[label] {
		h.engine.Schedule(s.delay, h, s.label)
	}

	return nil
}

var _ = Describe("SerialEngine", func() {
	var (
		mockCtrl *gomock.Controller
		engine   *SerialEngine
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		engine = NewSerialEngine()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should handle events in time order", func() {
		handler1 := NewMockHandler(mockCtrl)
		handler2 := NewMockHandler(mockCtrl)

		handleEvt2 := handler2.EXPECT().Handle("evt2").
			DoAndReturn(func(any) error {
				Expect(engine.CurrentTime()).To(Equal(VTimeInMin(2)))
				engine.Schedule(1, handler1, "evt3")
				engine.Schedule(3, handler1, "evt4")
				return nil
			})
		handleEvt3 := handler1.EXPECT().Handle("evt3").After(handleEvt2)
		handleEvt1 := handler1.EXPECT().Handle("evt1").After(handleEvt3)
		handler1.EXPECT().Handle("evt4").After(handleEvt1)

		engine.Schedule(4, handler1, "evt1")
		engine.Schedule(2, handler2, "evt2")

		Expect(engine.Run()).To(Succeed())
		Expect(engine.CurrentTime()).To(Equal(VTimeInMin(5)))
	})

	It("should handle same-time events in scheduling order", func() {
		h := &recordingHandler{engine: engine}

		engine.Schedule(1, h, "a")
		engine.Schedule(1, h, "b")
		engine.Schedule(0, h, "first")
		engine.Schedule(1, h, "c")

		Expect(engine.Run()).To(Succeed())
		Expect(h.calls).To(Equal([]string{"first", "a", "b", "c"}))
	})

	It("should order zero-delay events after already queued same-time ones",
		func() {
			h := &recordingHandler{engine: engine}
			h.schedule = map[string][]struct {
				delay VTimeInMin
				label string
			}{
				"a": {{0, "a-child"}},
			}

			engine.Schedule(1, h, "a")
			engine.Schedule(1, h, "b")

			Expect(engine.Run()).To(Succeed())
			Expect(h.calls).To(Equal([]string{"a", "b", "a-child"}))
		})

	It("should stop at the horizon and discard later events", func() {
		h := &recordingHandler{engine: engine}

		engine.Schedule(1, h, "t1")
		engine.Schedule(3, h, "t3")
		engine.Schedule(5, h, "t5")
		engine.Schedule(8, h, "t8")

		Expect(engine.RunUntil(3)).To(Succeed())

		Expect(h.calls).To(Equal([]string{"t1", "t3"}))
		Expect(engine.CurrentTime()).To(Equal(VTimeInMin(3)))
		Expect(engine.Pending()).To(Equal(0))
		Expect(engine.Discarded()).To(Equal(2))
	})

	It("should panic when scheduling with a negative delay", func() {
		handler := NewMockHandler(mockCtrl)

		Expect(func() { engine.Schedule(-1, handler, "bad") }).
			To(PanicWith(BeAssignableToTypeOf(&InvariantViolation{})))
	})

	It("should abort the run on an invariant violation", func() {
		handler := NewMockHandler(mockCtrl)
		later := NewMockHandler(mockCtrl)

		handler.EXPECT().Handle("bad").DoAndReturn(func(any) error {
			engine.Schedule(-0.5, handler, "never")
			return nil
		})

		engine.Schedule(1, handler, "bad")
		engine.Schedule(2, later, "skipped")

		err := engine.Run()

		var violation *InvariantViolation
		Expect(errors.As(err, &violation)).To(BeTrue())
		Expect(violation.Time).To(Equal(VTimeInMin(1)))
	})

	It("should abort the run when a handler fails", func() {
		handler := NewMockHandler(mockCtrl)
		boom := errors.New("boom")

		handler.EXPECT().Handle("evt").Return(boom)

		engine.Schedule(1, handler, "evt")
		engine.Schedule(2, handler, "skipped")

		err := engine.Run()

		Expect(errors.Is(err, boom)).To(BeTrue())
		Expect(engine.Pending()).To(Equal(1))
	})

	It("should invoke hooks around each event", func() {
		handler := NewMockHandler(mockCtrl)
		handler.EXPECT().Handle("evt")

		var positions []string
		engine.AcceptHook(hooking.HookFunc(func(ctx hooking.HookCtx) {
			positions = append(positions, ctx.Pos.Name)
		}))

		engine.Schedule(1, handler, "evt")
		Expect(engine.Run()).To(Succeed())

		Expect(positions).To(Equal([]string{"BeforeEvent", "AfterEvent"}))
	})

	It("should log events", func() {
		buf := new(bytes.Buffer)
		engine.AcceptHook(NewEventLogger(log.New(buf, "", 0)))

		handler := NewMockHandler(mockCtrl)
		handler.EXPECT().Handle("evt")

		engine.Schedule(2.5, handler, "evt")
		Expect(engine.Run()).To(Succeed())

		Expect(buf.String()).To(ContainSubstring("2.5000 #1, string"))
	})

	It("should pause and continue", func() {
		engine.Pause()
		engine.Pause()
		Expect(engine.Paused()).To(BeTrue())

		engine.Continue()
		engine.Continue()
		Expect(engine.Paused()).To(BeFalse())

		handler := NewMockHandler(mockCtrl)
		handler.EXPECT().Handle("evt")
		engine.Schedule(1, handler, "evt")

		Expect(engine.Run()).To(Succeed())
	})
})
