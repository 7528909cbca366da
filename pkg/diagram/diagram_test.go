package diagram

import (
	"testing"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/scheduler"
	"github.com/matzehuels/famtree/pkg/surface"
)

// countingSurface counts measurement passes.
type countingSurface struct {
	*surface.Surface
	measured int
}

func (c *countingSurface) Cards() []geometry.Card {
	c.measured++
	return c.Surface.Cards()
}

func tree() *family.Member {
	return &family.Member{
		ID:          "root",
		Status:      family.StatusLinked,
		ProfileSlug: "ada-lovelace",
		ProfileID:   "p-1",
		Parents:     []*family.Member{{ID: "mom"}, {ID: "dad"}},
		Children:    []*family.Member{{ID: "kid", ProfileID: "p-2"}},
		Spouse:      &family.Member{ID: "sp"},
	}
}

func newDiagram(opts ...Option) (*Diagram, *countingSurface, *scheduler.ManualClock) {
	clock := scheduler.NewManualClock()
	view := &countingSurface{Surface: surface.New(surface.WithViewport(300, 200))}
	opts = append([]Option{WithClock(clock)}, opts...)
	return New(tree(), connector.Resolve(connector.PresetDefault, nil), view, opts...), view, clock
}

func TestMountComputesSynchronously(t *testing.T) {
	d, view, _ := newDiagram()
	defer d.Close()

	var triggers []scheduler.Trigger
	d.OnUpdate(func(tr scheduler.Trigger, _ geometry.Result) { triggers = append(triggers, tr) })
	d.Mount()

	if view.measured != 1 {
		t.Errorf("measured = %d, want 1", view.measured)
	}
	if len(d.Result().Segments) == 0 {
		t.Fatal("mount produced no segments")
	}
	if len(triggers) != 1 || triggers[0] != scheduler.TriggerInitial {
		t.Errorf("updates = %v", triggers)
	}

	d.Mount()
	if view.measured != 1 {
		t.Error("second mount should do nothing")
	}
}

func TestResizeBurstCoalesces(t *testing.T) {
	d, view, clock := newDiagram()
	defer d.Close()
	d.Mount()

	for i := 0; i < 25; i++ {
		d.Resize(float64(300+i), 200)
		d.ResizeWindow(float64(300+i), 200)
	}
	clock.Flush()

	if view.measured != 2 {
		t.Errorf("measured = %d, want 2 (mount plus one coalesced pass)", view.measured)
	}
	if d.Passes() != 2 {
		t.Errorf("passes = %d, want 2", d.Passes())
	}
}

func TestScrollKeepsSegments(t *testing.T) {
	d, _, clock := newDiagram()
	defer d.Close()
	d.Mount()
	before := d.Result()

	d.Scroll(120, 80)
	clock.Flush()
	after := d.Result()

	if len(before.Segments) != len(after.Segments) {
		t.Fatalf("segment counts differ: %d vs %d", len(before.Segments), len(after.Segments))
	}
	for i := range before.Segments {
		if before.Segments[i].D != after.Segments[i].D {
			t.Errorf("%s moved: %q vs %q", before.Segments[i].ID, before.Segments[i].D, after.Segments[i].D)
		}
	}
}

func TestCloseStopsUpdates(t *testing.T) {
	d, view, clock := newDiagram()
	d.Mount()

	d.Resize(500, 500)
	d.Close()
	clock.Flush()
	d.Scroll(10, 10)
	d.Resize(600, 600)
	clock.Flush()

	if view.measured != 1 {
		t.Errorf("measured after close = %d, want 1", view.measured)
	}
	if d.containerResize.Listeners()+d.windowResize.Listeners()+d.scroll.Listeners() != 0 {
		t.Error("listeners not released")
	}
}

func TestClick(t *testing.T) {
	var gotMember *family.Member
	var gotTarget string
	d, _, _ := newDiagram(WithNavigate(func(m *family.Member, target string) {
		gotMember, gotTarget = m, target
	}))
	defer d.Close()
	d.Mount()

	if !d.Click("root") {
		t.Fatal("click on root should navigate")
	}
	if gotMember == nil || gotMember.ID != "root" || gotTarget != "ada-lovelace" {
		t.Errorf("navigate(%v, %q)", gotMember, gotTarget)
	}

	if !d.Click("kid") || gotTarget != "p-2" {
		t.Errorf("kid target = %q, want profile id", gotTarget)
	}
	if d.Click("mom") {
		t.Error("member without target should not navigate")
	}
	if d.Click("nobody") {
		t.Error("unknown member should not navigate")
	}
}

func TestClickWithoutCallback(t *testing.T) {
	d, _, _ := newDiagram()
	defer d.Close()
	d.Mount()
	if d.Click("root") {
		t.Error("no callback means no navigation")
	}
}

func TestSetStyle(t *testing.T) {
	d, _, clock := newDiagram()
	defer d.Close()
	d.Mount()

	d.SetStyle(connector.Resolve(connector.PresetCompact, nil))
	clock.Flush()

	seg, ok := d.Result().Segment("root/trunk")
	if !ok {
		t.Fatal("root trunk missing")
	}
	if seg.Width != 2 {
		t.Errorf("width = %v, want 2", seg.Width)
	}
	if seg.Stroke != "#10b981" {
		t.Errorf("stroke = %q, want linked color", seg.Stroke)
	}
}

func TestWithoutProberInheritsColor(t *testing.T) {
	d, _, _ := newDiagram(WithProber(nil))
	defer d.Close()
	d.Mount()
	for _, seg := range d.Result().Segments {
		if seg.Stroke != geometry.InheritColor {
			t.Errorf("%s stroke = %q, want %q", seg.ID, seg.Stroke, geometry.InheritColor)
		}
	}
}

func TestSetRoot(t *testing.T) {
	d, _, _ := newDiagram()
	defer d.Close()
	d.Mount()

	d.SetRoot(&family.Member{ID: "solo"})
	if n := len(d.Result().Segments); n != 0 {
		t.Errorf("segments = %d, want 0", n)
	}
}
