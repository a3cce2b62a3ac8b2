package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/idlab-discover/neckgen-cli/internal/registry"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func defaults(t *testing.T, family registry.Family) Input {
	t.Helper()
	reg := registry.Default()
	values := reg.Defaults()
	values[registry.InstrumentFamily] = string(family)
	return InputFrom(reg, values)
}

func TestSagitta(t *testing.T) {
	tests := []struct {
		name          string
		radius, width float64
		want          float64
	}{
		{"zero radius", 0, 30, 0},
		{"zero width", 41, 0, 0},
		{"violin nut", 41, 24, 41 - math.Sqrt(41*41-12*12)},
		{"flat-ish guitar", 300, 52, 300 - math.Sqrt(300*300-26*26)},
		{"chord wider than diameter", 10, 30, 30 * 30 / 80.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sagitta(tt.radius, tt.width); !near(got, tt.want, 1e-9) {
				t.Fatalf("Sagitta(%v, %v) = %v, want %v", tt.radius, tt.width, got, tt.want)
			}
		})
	}
}

func TestFretPositions(t *testing.T) {
	pos := FretPositions(650, 12)
	if len(pos) != 13 {
		t.Fatalf("len = %d, want 13", len(pos))
	}
	if pos[0] != 0 {
		t.Fatalf("nut position = %v", pos[0])
	}
	if !near(pos[12], 325, 1e-9) {
		t.Fatalf("12th fret = %v, want half the scale", pos[12])
	}
	for i := 1; i < len(pos); i++ {
		if pos[i] <= pos[i-1] {
			t.Fatalf("positions not increasing at %d", i)
		}
	}
	if got := FretPositions(650, -3); len(got) != 1 {
		t.Fatalf("negative count should yield only the nut, got %v", got)
	}
}

func TestCompute_ViolinDefaults(t *testing.T) {
	r, err := Compute(defaults(t, registry.FamilyViolin))
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if r.BodyStop != 195 {
		t.Fatalf("body stop should pass through, got %v", r.BodyStop)
	}
	if !near(r.NeckStop, 127.4, 0.5) {
		t.Fatalf("neck stop = %.2f, want about 127.4", r.NeckStop)
	}
	if !near(r.NeckAngle, 84.8, 0.3) {
		t.Fatalf("neck angle = %.2f, want about 84.8", r.NeckAngle)
	}
	if !near(r.StringLength, 325, 0.5) {
		t.Fatalf("string length = %.2f should stay close to the vibrating length", r.StringLength)
	}
	if math.IsNaN(r.NutTopY) || r.NutTopY <= 0 {
		t.Fatalf("nut height = %v", r.NutTopY)
	}
	if r.FretPositions != nil {
		t.Fatalf("violin should not carry fret positions")
	}
	if r.BackBreakLength != nil {
		t.Fatalf("back break length is only defined for viols")
	}
	if !(r.StringBreakAngle > 90 && r.StringBreakAngle < 180) {
		t.Fatalf("break angle = %.2f", r.StringBreakAngle)
	}
}

func TestCompute_InvariantsHoldForEveryFamily(t *testing.T) {
	for _, fam := range registry.Families() {
		t.Run(string(fam), func(t *testing.T) {
			in := defaults(t, fam)
			r, err := Compute(in)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if !near(r.NutTopX, -r.NeckStop, 1e-9) {
				t.Fatalf("nut x = %v, want -neck stop %v", r.NutTopX, r.NeckStop)
			}
			if !near(r.BridgeTopY, in.ArchingHeight+in.BridgeHeight, 1e-9) {
				t.Fatalf("bridge top = %v", r.BridgeTopY)
			}
			if !near(r.FBThicknessAtNut, in.FBVisibleHeightAtNut+r.SagittaAtNut, 1e-9) {
				t.Fatalf("fingerboard thickness at nut excludes sagitta")
			}
			if !near(r.FBDirectionAngle, r.NeckLineAngle+math.Pi, 1e-9) {
				t.Fatalf("fingerboard direction does not follow the neck line")
			}
			if !near(r.NutDrawRadius, r.FBThicknessAtNut+in.StringHeightNut, 1e-9) {
				t.Fatalf("nut draw radius = %v", r.NutDrawRadius)
			}
		})
	}
}

func TestCompute_GuitarDerivesBodyStop(t *testing.T) {
	in := defaults(t, registry.FamilyGuitarMandolin)
	in.BodyStop = 999
	r, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if r.BodyStop == 999 {
		t.Fatalf("body stop must be calculated for fretted instruments")
	}
	hyp := in.VSL - r.FretPositions[in.FretJoin]
	if !near(math.Hypot(r.BodyStop, hyp*math.Sin(r.StringAngleToRibsRad)), hyp, 1e-6) {
		t.Fatalf("body stop is not the horizontal leg of the string to the bridge")
	}
	if len(r.FretPositions) < 13 {
		t.Fatalf("fret positions should reach at least the 12th fret, got %d", len(r.FretPositions))
	}
}

func TestCompute_ViolBackBreak(t *testing.T) {
	in := defaults(t, registry.FamilyViol)
	r, err := Compute(in)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if r.BackBreakLength == nil {
		t.Fatalf("viol should get a back break length")
	}
	want := in.TopBlockHeight / math.Tan(in.BreakAngle*math.Pi/180)
	if !near(*r.BackBreakLength, want, 1e-9) {
		t.Fatalf("back break = %v, want %v", *r.BackBreakLength, want)
	}
	if len(r.FretPositions) != in.NoFrets+1 {
		t.Fatalf("viol frets = %d, want %d", len(r.FretPositions)-1, in.NoFrets)
	}

	in.BreakAngle = 0
	r, _ = Compute(in)
	if r.BackBreakLength != nil {
		t.Fatalf("zero break angle should leave back break undefined")
	}
}

func TestCompute_UndefinedGeometry(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"zero body stop", func(in *Input) { in.BodyStop = 0 }},
		{"bridge beyond string", func(in *Input) { in.BodyStop = 400 }},
		{"fretted string too short", func(in *Input) {
			in.Family = registry.FamilyGuitarMandolin
			in.BridgeHeight = 500
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := defaults(t, registry.FamilyViolin)
			tt.mutate(&in)
			if _, err := Compute(in); !errors.Is(err, ErrUndefined) {
				t.Fatalf("Compute = %v, want ErrUndefined", err)
			}
		})
	}
}

func TestCompute_DoesNotDependOnCallOrder(t *testing.T) {
	in := defaults(t, registry.FamilyViolin)
	a, _ := Compute(in)
	b, _ := Compute(in)
	if a.NeckAngle != b.NeckAngle || a.StringHeightAtFBEnd != b.StringHeightAtFBEnd {
		t.Fatalf("Compute is not deterministic")
	}
}
