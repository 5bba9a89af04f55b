package printer

import (
	"context"
	"testing"
)

type fakeController struct {
	heater    string
	target    float64
	paused    bool
	resumed   bool
	cancelled bool
	homed     []string
	jogged    map[string]float64
}

func (f *fakeController) SetTemperature(ctx context.Context, heater string, target float64) error {
	f.heater = heater
	f.target = target
	return nil
}
func (f *fakeController) Pause(ctx context.Context) error  { f.paused = true; return nil }
func (f *fakeController) Resume(ctx context.Context) error { f.resumed = true; return nil }
func (f *fakeController) Cancel(ctx context.Context) error { f.cancelled = true; return nil }
func (f *fakeController) Home(ctx context.Context, axes []string) error {
	f.homed = axes
	return nil
}
func (f *fakeController) Jog(ctx context.Context, distances map[string]float64) error {
	f.jogged = distances
	return nil
}

func TestGroup_SetTemperature(t *testing.T) {
	tests := []struct {
		name       string
		args       []interface{}
		wantHeater string
		wantTarget float64
		wantErr    bool
	}{
		{"bare target", []interface{}{float64(200)}, "tool0", 200, false},
		{"heater and target", []interface{}{"bed", float64(60)}, "bed", 60, false},
		{"no args", nil, "", 0, true},
		{"non-numeric target", []interface{}{"warm"}, "", 0, true},
		{"non-string heater", []interface{}{float64(1), float64(60)}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := &fakeController{}
			g := Group(fc)
			h, ok := g.Operation("set_temperature")
			if !ok {
				t.Fatal("printer:group_test - set_temperature not in group")
			}

			_, err := h(context.Background(), tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("printer:group_test - expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("printer:group_test - unexpected error: %v", err)
			}
			if fc.heater != tt.wantHeater || fc.target != tt.wantTarget {
				t.Errorf("printer:group_test - got %s=%v, want %s=%v", fc.heater, fc.target, tt.wantHeater, tt.wantTarget)
			}
		})
	}
}

func TestGroup_JobControls(t *testing.T) {
	fc := &fakeController{}
	g := Group(fc)

	for _, op := range []string{"pause", "resume", "cancel"} {
		h, ok := g.Operation(op)
		if !ok {
			t.Fatalf("printer:group_test - %s not in group", op)
		}
		if _, err := h(context.Background(), nil); err != nil {
			t.Fatalf("printer:group_test - %s failed: %v", op, err)
		}
	}
	if !fc.paused || !fc.resumed || !fc.cancelled {
		t.Errorf("printer:group_test - controls not invoked: %+v", fc)
	}
}

func TestGroup_HomeDefaultsToAllAxes(t *testing.T) {
	fc := &fakeController{}
	g := Group(fc)
	h, _ := g.Operation("home")

	if _, err := h(context.Background(), nil); err != nil {
		t.Fatalf("printer:group_test - home failed: %v", err)
	}
	if len(fc.homed) != 3 {
		t.Errorf("printer:group_test - homed axes = %v, want x y z", fc.homed)
	}

	if _, err := h(context.Background(), []interface{}{"z"}); err != nil {
		t.Fatalf("printer:group_test - home z failed: %v", err)
	}
	if len(fc.homed) != 1 || fc.homed[0] != "z" {
		t.Errorf("printer:group_test - homed axes = %v, want [z]", fc.homed)
	}
}

func TestGroup_Jog(t *testing.T) {
	fc := &fakeController{}
	g := Group(fc)
	h, _ := g.Operation("jog")

	if _, err := h(context.Background(), []interface{}{map[string]interface{}{"x": float64(10), "y": float64(-5)}}); err != nil {
		t.Fatalf("printer:group_test - jog failed: %v", err)
	}
	if fc.jogged["x"] != 10 || fc.jogged["y"] != -5 {
		t.Errorf("printer:group_test - jogged = %v", fc.jogged)
	}

	if _, err := h(context.Background(), []interface{}{"sideways"}); err == nil {
		t.Error("printer:group_test - non-map jog arg should error")
	}
}
