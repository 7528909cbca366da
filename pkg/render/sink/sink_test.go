package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/famtree/pkg/connector"
	"github.com/matzehuels/famtree/pkg/family"
	"github.com/matzehuels/famtree/pkg/geometry"
	"github.com/matzehuels/famtree/pkg/surface"
)

func testScene(t *testing.T) Scene {
	t.Helper()
	root := &family.Member{
		ID:          "ada",
		Name:        "Ada Lovelace",
		Birthday:    "1815-12-10",
		Status:      family.StatusLinked,
		AvatarURL:   "https://img.example.com/ada.png",
		ProfileSlug: "ada-lovelace",
		Parents: []*family.Member{
			{ID: "byron", Name: "Lord Byron"},
			{ID: "annabella", Name: "Anne Isabella Milbanke", Status: family.StatusManual},
		},
		Spouse: &family.Member{ID: "william", Name: "William King", Relation: "husband"},
		Children: []*family.Member{
			{ID: "byron-jr", Name: "Byron King-Noel"},
			{ID: "annabella-jr", Name: "Anne Blunt", Status: family.StatusInvitePending},
			{ID: "ralph", Name: "Ralph King-Milbanke"},
		},
	}
	cfg := connector.Resolve(connector.PresetDefault, nil)
	s := surface.New()
	s.Relayout(root)
	res := geometry.NewEngine(cfg, geometry.WithProber(s)).Compute(root, s)
	return NewScene(s, res, cfg, connector.PresetDefault)
}

func TestRenderSVGContainsEverySegment(t *testing.T) {
	sc := testScene(t)
	out := string(RenderSVG(sc))

	if len(sc.Result.Segments) == 0 {
		t.Fatal("scene has no segments")
	}
	for _, seg := range sc.Result.Segments {
		if !strings.Contains(out, `id="seg-`+seg.ID+`"`) {
			t.Errorf("svg missing segment %s", seg.ID)
		}
	}
	for _, c := range sc.Cards {
		if !strings.Contains(out, `id="card-`+c.MemberID+`"`) {
			t.Errorf("svg missing card %s", c.MemberID)
		}
	}
	if !strings.Contains(out, "Ada Lovelace") || !strings.Contains(out, "1815-12-10") {
		t.Error("svg missing card text")
	}
	if !strings.Contains(out, "https://img.example.com/ada.png") {
		t.Error("svg missing avatar")
	}
}

func TestRenderSVGOverlayAfterCards(t *testing.T) {
	out := string(RenderSVG(testScene(t)))
	cards := strings.Index(out, `id="cards"`)
	connectors := strings.Index(out, `id="connectors"`)
	if cards < 0 || connectors < 0 || connectors < cards {
		t.Errorf("connectors (%d) should follow cards (%d)", connectors, cards)
	}
}

func TestRenderSVGLinks(t *testing.T) {
	sc := testScene(t)
	with := string(RenderSVG(sc, WithLinkBase("/people/")))
	if !strings.Contains(with, "/people/ada-lovelace") {
		t.Error("missing navigation link")
	}
	if strings.Contains(string(RenderSVG(sc)), "/people/") {
		t.Error("links without base")
	}
	if strings.Contains(string(RenderSVG(sc, WithoutAvatars())), "<image") {
		t.Error("avatars not skipped")
	}
}

func TestRenderSVGEscapes(t *testing.T) {
	root := &family.Member{ID: "x", Name: `<script>"hi"</script>`}
	s := surface.New()
	s.Relayout(root)
	cfg := connector.Resolve(connector.PresetDefault, nil)
	out := string(RenderSVG(NewScene(s, geometry.NewEngine(cfg).Compute(root, s), cfg, "")))
	if strings.Contains(out, "<script>") {
		t.Error("name not escaped")
	}
}

func TestRenderPNG(t *testing.T) {
	sc := testScene(t)
	data, err := RenderPNG(sc, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != px(sc.Size.Width) || b.Dy() != px(sc.Size.Height) {
		t.Errorf("png size = %dx%d, want %.0fx%.0f", b.Dx(), b.Dy(), sc.Size.Width, sc.Size.Height)
	}

	hi, err := RenderPNG(sc)
	if err != nil {
		t.Fatal(err)
	}
	img2, _ := png.Decode(bytes.NewReader(hi))
	if img2.Bounds().Dx() != 2*b.Dx() {
		t.Errorf("default scale should be 2x, got %d", img2.Bounds().Dx())
	}
}

func TestRenderJSON(t *testing.T) {
	sc := testScene(t)
	data, err := RenderJSON(sc)
	if err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var out struct {
		Preset string `json:"preset"`
		Cards  []struct {
			ID     string `json:"id"`
			Target string `json:"target"`
		} `json:"cards"`
		Segments []struct {
			ID     string `json:"id"`
			D      string `json:"d"`
			Stroke string `json:"stroke"`
		} `json:"segments"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Preset != connector.PresetDefault {
		t.Errorf("preset = %q", out.Preset)
	}
	if len(out.Cards) != len(sc.Cards) || len(out.Segments) != len(sc.Result.Segments) {
		t.Errorf("cards/segments = %d/%d", len(out.Cards), len(out.Segments))
	}
	for _, s := range out.Segments {
		if s.D == "" || s.Stroke == "" {
			t.Errorf("segment %s incomplete", s.ID)
		}
	}
}

func TestRenderJSONEmptyScene(t *testing.T) {
	data, err := RenderJSON(Scene{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"segments": []`) {
		t.Errorf("empty scene should have an empty segment list: %s", data)
	}
}
