package surface

import (
	"testing"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
)

func sampleTree() *family.Member {
	return &family.Member{
		ID:          "root",
		Name:        "Ada",
		AvatarURL:   "ada.png",
		ProfileSlug: "ada",
		Parents:     []*family.Member{{ID: "mom"}, {ID: "dad"}},
		Siblings:    []*family.Member{{ID: "s1"}, {ID: "s2"}},
		Spouse:      &family.Member{ID: "sp"},
		Children:    []*family.Member{{ID: "c1"}},
	}
}

func TestRelayoutRows(t *testing.T) {
	s := New()
	s.Relayout(sampleTree())

	want := map[string]geometry.Rect{
		"mom":  {Left: 216, Top: 24, Width: 160, Height: 72},
		"dad":  {Left: 408, Top: 24, Width: 160, Height: 72},
		"s1":   {Left: 24, Top: 168, Width: 160, Height: 72},
		"root": {Left: 216, Top: 168, Width: 160, Height: 72},
		"sp":   {Left: 408, Top: 168, Width: 160, Height: 72},
		"s2":   {Left: 600, Top: 168, Width: 160, Height: 72},
		"c1":   {Left: 312, Top: 312, Width: 160, Height: 72},
	}
	for id, r := range want {
		c, ok := s.Find(id)
		if !ok {
			t.Errorf("card %s missing", id)
			continue
		}
		if c.Rect != r {
			t.Errorf("card %s at %+v, want %+v", id, c.Rect, r)
		}
	}
	if got := s.ContentSize(); got != (geometry.Size{Width: 784, Height: 408}) {
		t.Errorf("content size = %+v", got)
	}
}

func TestRelayoutRoles(t *testing.T) {
	s := New()
	s.Relayout(sampleTree())

	roles := map[string]geometry.Role{}
	for _, c := range s.Cards() {
		roles[c.MemberID] = c.Role
	}
	tests := map[string]geometry.Role{
		"mom":  geometry.RoleParent,
		"s1":   geometry.RoleSibling,
		"root": geometry.RoleRoot,
		"sp":   geometry.RoleSpouse,
		"c1":   geometry.RoleChild,
	}
	for id, want := range tests {
		if roles[id] != want {
			t.Errorf("role of %s = %q, want %q", id, roles[id], want)
		}
	}
}

func TestRelayoutCardDetails(t *testing.T) {
	s := New(WithAvatars(family.PrefixResolver{BaseURL: "https://cdn.example.com/avatars"}))
	s.Relayout(sampleTree())

	c, _ := s.Find("root")
	if c.Avatar != "https://cdn.example.com/avatars/ada.png" {
		t.Errorf("avatar = %q", c.Avatar)
	}
	if c.Target != "ada" {
		t.Errorf("target = %q", c.Target)
	}
	if mom, _ := s.Find("mom"); mom.Avatar != "" || mom.Target != "" {
		t.Errorf("mom should have no avatar or target, got %+v", mom)
	}
}

func TestRelayoutLoneRoot(t *testing.T) {
	s := New()
	s.Relayout(&family.Member{ID: "root"})
	if n := len(s.Cards()); n != 1 {
		t.Fatalf("cards = %d, want 1", n)
	}
	if got := s.ContentSize(); got != (geometry.Size{Width: 208, Height: 120}) {
		t.Errorf("content size = %+v", got)
	}

	s.Relayout(nil)
	if n := len(s.Cards()); n != 0 {
		t.Errorf("nil root should clear cards, got %d", n)
	}
}

func TestScrollClamp(t *testing.T) {
	s := New(WithViewport(400, 300))
	s.Relayout(sampleTree())

	tests := []struct {
		x, y float64
		want geometry.Point
	}{
		{100, 50, geometry.Point{X: 100, Y: 50}},
		{1000, -5, geometry.Point{X: 384, Y: 0}},
		{-10, 500, geometry.Point{X: 0, Y: 108}},
	}
	for _, tt := range tests {
		if got := s.ScrollTo(tt.x, tt.y); got != tt.want {
			t.Errorf("ScrollTo(%v, %v) = %+v, want %+v", tt.x, tt.y, got, tt.want)
		}
	}

	s.ScrollTo(384, 108)
	s.Resize(2000, 2000)
	if got := s.ScrollOffset(); got != (geometry.Point{}) {
		t.Errorf("resize should re-clamp scroll, got %+v", got)
	}
	if got := s.ScrollSize(); got != (geometry.Size{Width: 2000, Height: 2000}) {
		t.Errorf("scroll size should cover viewport, got %+v", got)
	}
}

func TestClientRect(t *testing.T) {
	s := New(WithOrigin(10, 20), WithViewport(400, 300))
	s.Relayout(sampleTree())
	s.ScrollTo(100, 50)

	r, ok := s.ClientRect(geometry.Card{MemberID: "root", Role: geometry.RoleRoot})
	if !ok {
		t.Fatal("root not rendered")
	}
	if r.Left != 126 || r.Top != 138 {
		t.Errorf("client rect = %+v, want left 126 top 138", r)
	}
	if _, ok := s.ClientRect(geometry.Card{MemberID: "root", Role: geometry.RoleChild}); ok {
		t.Error("role mismatch should not be found")
	}
}

func TestMeasureIsScrollInvariant(t *testing.T) {
	s := New(WithOrigin(10, 20), WithViewport(300, 200))
	s.Relayout(sampleTree())
	before := geometry.Measure(s)

	s.ScrollTo(150, 90)
	after := geometry.Measure(s)

	for id, r := range before.Rects {
		if after.Rects[id] != r {
			t.Errorf("%s moved under scroll: %+v vs %+v", id, r, after.Rects[id])
		}
		c, _ := s.Find(id)
		if c.Rect != r {
			t.Errorf("%s measured %+v, laid out %+v", id, r, c.Rect)
		}
	}
}

func TestEngineOnSurface(t *testing.T) {
	s := New()
	s.Relayout(sampleTree())

	res := geometry.NewEngine(connector.Resolve(connector.PresetDefault, nil), geometry.WithProber(s)).
		Compute(sampleTree(), s)

	bus, ok := res.Segment("parents/bus")
	if !ok {
		t.Fatal("parents bus missing")
	}
	from, _ := bus.Path.Endpoints()
	if from.Y != 168-24 {
		t.Errorf("bus y = %v, want %v", from.Y, 168-24)
	}
	if bus.Stroke != "#cbd5e1" {
		t.Errorf("bus stroke = %q", bus.Stroke)
	}
	if res.Count(geometry.KindDrop) != 4 {
		t.Errorf("drops = %d, want 4", res.Count(geometry.KindDrop))
	}
}

func TestProbeColor(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"bg-emerald-500", "#10b981", true},
		{"stroke-slate-300", "#cbd5e1", true},
		{"text-amber-400/50", "#fbbf24", true},
		{"bg-[#AABBCC]", "#aabbcc", true},
		{"bg-[#abc]", "#aabbcc", true},
		{"bg-white", "#ffffff", true},
		{"bg-emerald-550", "", false},
		{"bg-chartreuse-500", "", false},
		{"bg-[nope]", "", false},
		{"rounded", "", false},
		{"bg-", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			got, ok := Palette{}.ProbeColor(tt.token)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ProbeColor(%q) = (%q, %v), want (%q, %v)", tt.token, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSurfaceWithoutColors(t *testing.T) {
	s := New(WithColors(nil))
	if _, ok := s.ProbeColor("bg-emerald-500"); ok {
		t.Error("surface without palette should not resolve colors")
	}
}
