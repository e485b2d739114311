package countdown

import (
	"errors"
	"image/color"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/clock"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver/drivertest"
)

// newTestWidget builds a widget on a mock clock at t0 with a manual driver.
func newTestWidget(t *testing.T, cfg Config) (*Widget, *clock.Mock, *drivertest.Manual) {
	t.Helper()
	clk := clock.NewMock(t0)
	drv := drivertest.NewManual()
	w, err := New(cfg, WithClock(clk), WithDriver(drv))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return w, clk, drv
}

func TestNewDefaults(t *testing.T) {
	w, _, _ := newTestWidget(t, Config{})
	cfg := w.Config()
	if cfg.Interval != DefaultInterval {
		t.Errorf("expected interval %v, got %v", DefaultInterval, cfg.Interval)
	}
	if !cfg.BaseTime.Equal(t0) {
		t.Errorf("expected base time to default to construction time %v, got %v", t0, cfg.BaseTime)
	}
	if w.State() != StateDetached {
		t.Errorf("expected %q, got %q", StateDetached, w.State())
	}
}

func TestNewRejectsNegativeInterval(t *testing.T) {
	_, err := New(Config{Interval: -time.Second})
	if !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestNewClampsNegativeGeometry(t *testing.T) {
	w, _, _ := newTestWidget(t, Config{Radius: -4, StrokeWidth: -1})
	if w.Config().Radius != 0 {
		t.Errorf("expected radius 0, got %v", w.Config().Radius)
	}
	if w.Config().StrokeWidth != 0 {
		t.Errorf("expected stroke width 0, got %v", w.Config().StrokeWidth)
	}
}

func TestPaintAttachesOnce(t *testing.T) {
	w, _, drv := newTestWidget(t, Config{Radius: 10})

	w.Paint(40, 40)
	w.Paint(40, 40)
	w.Attach(drv)

	if drv.Registrations != 1 {
		t.Errorf("expected 1 registration, got %d", drv.Registrations)
	}
	if drv.Active() != 1 {
		t.Errorf("expected 1 active subscription, got %d", drv.Active())
	}
	if !w.Attached() {
		t.Error("expected widget to be attached after paint")
	}
}

func TestDetachTwice(t *testing.T) {
	w, _, drv := newTestWidget(t, Config{Radius: 10})
	w.Paint(40, 40)

	w.Detach()
	w.Detach()

	if drv.Unregistrations != 1 {
		t.Errorf("expected 1 unregistration, got %d", drv.Unregistrations)
	}
	if drv.Active() != 0 {
		t.Errorf("expected 0 active subscriptions, got %d", drv.Active())
	}
	if w.Subscription().Valid() {
		t.Error("expected zero subscription after detach")
	}
}

func TestDetachWithoutAttach(t *testing.T) {
	w, _, drv := newTestWidget(t, Config{})
	w.Detach()
	if drv.Unregistrations != 0 {
		t.Errorf("expected no unregistration, got %d", drv.Unregistrations)
	}
	if w.State() != StateDetached {
		t.Errorf("expected %q, got %q", StateDetached, w.State())
	}
}

func TestFrameTickFollowsClock(t *testing.T) {
	w, clk, drv := newTestWidget(t, Config{Radius: 10, Interval: 30 * time.Second})
	w.Paint(40, 40)
	sub := w.Subscription()

	clk.Advance(45 * time.Second)
	drv.Fire(sub)

	if got := w.Shape().Angle; !approxEqual(got, 180, angleEpsilon) {
		t.Errorf("expected 180 degrees after 45s, got %v", got)
	}
	if w.Frames() != 2 {
		t.Errorf("expected 2 frames (paint + tick), got %d", w.Frames())
	}
}

func TestStaleFrameIgnored(t *testing.T) {
	w, clk, drv := newTestWidget(t, Config{Radius: 10, Interval: 10 * time.Second})
	w.Paint(40, 40)
	old := w.Subscription()
	w.Detach()

	clk.Advance(5 * time.Second)
	drv.Fire(old)

	if w.Shape().Angle != 0 {
		t.Errorf("expected stale frame to leave angle at 0, got %v", w.Shape().Angle)
	}
	if w.StaleFrames() != 1 {
		t.Errorf("expected 1 stale frame, got %d", w.StaleFrames())
	}

	// Re-attach: the old subscription must stay stale.
	w.Attach(drv)
	drv.Fire(old)
	if w.StaleFrames() != 2 {
		t.Errorf("expected 2 stale frames after re-attach, got %d", w.StaleFrames())
	}
	drv.Fire(w.Subscription())
	if !approxEqual(w.Shape().Angle, 180, angleEpsilon) {
		t.Errorf("expected live frame to reach 180, got %v", w.Shape().Angle)
	}
}

func TestOnFrameTickIdempotent(t *testing.T) {
	w, clk, _ := newTestWidget(t, Config{Radius: 12})
	w.Paint(30, 30)
	clk.Advance(7 * time.Second)

	w.OnFrameTick()
	first := w.Shape().Path.SVG()
	w.OnFrameTick()
	second := w.Shape().Path.SVG()

	if first != second {
		t.Errorf("expected identical paths for the same instant, got %q and %q", first, second)
	}
}

func TestPaintCentresWedgeAndCopiesStyle(t *testing.T) {
	fill := color.NRGBA{R: 0x4e, G: 0xc9, B: 0x70, A: 0xff}
	stroke := color.NRGBA{R: 0xff, A: 0xff}
	w, _, _ := newTestWidget(t, Config{
		FillColor:   fill,
		StrokeColor: stroke,
		StrokeWidth: 2,
		Radius:      20,
	})

	s := w.Paint(100, 60)

	if s.Fill != fill || s.Stroke != stroke || s.StrokeWidth != 2 {
		t.Errorf("expected style to be copied from config, got %+v", s)
	}
	centre := s.Path.Segments[2].To
	if centre != (Point{X: 50, Y: 30}) {
		t.Errorf("expected wedge centred at (50,30), got %+v", centre)
	}
	if s.Width != 100 || s.Height != 60 {
		t.Errorf("expected bounds 100x60, got %vx%v", s.Width, s.Height)
	}
}

func TestBaseTimeBeforeNow(t *testing.T) {
	w, _, _ := newTestWidget(t, Config{
		Radius:   10,
		Interval: 10 * time.Second,
		BaseTime: t0.Add(3 * time.Second),
	})
	s := w.Paint(20, 20)
	if !approxEqual(s.Angle, 108, angleEpsilon) {
		t.Errorf("expected 108 degrees three seconds before base, got %v", s.Angle)
	}
}

func TestWidgetRemaining(t *testing.T) {
	w, clk, _ := newTestWidget(t, Config{Interval: 30 * time.Second})
	clk.Advance(20 * time.Second)
	if got := w.Remaining(); got != 10*time.Second {
		t.Errorf("expected 10s remaining, got %v", got)
	}
}

func TestLoopDriverEndToEnd(t *testing.T) {
	clk := clock.NewMock(t0)
	loop := driver.NewLoop(60, nil)
	w, err := New(Config{Radius: 8, Interval: 4 * time.Second}, WithClock(clk), WithDriver(loop))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.Paint(16, 16)

	clk.Advance(time.Second)
	loop.Step()
	if !approxEqual(w.Shape().Angle, 90, angleEpsilon) {
		t.Errorf("expected 90 degrees, got %v", w.Shape().Angle)
	}

	w.Detach()
	clk.Advance(time.Second)
	loop.Step()
	if !approxEqual(w.Shape().Angle, 90, angleEpsilon) {
		t.Errorf("expected detached widget to keep 90 degrees, got %v", w.Shape().Angle)
	}
	if loop.Active() != 0 {
		t.Errorf("expected 0 active subscriptions, got %d", loop.Active())
	}
}
