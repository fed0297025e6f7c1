package tuning

import (
	"fmt"
	"os"

	xxhash "github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Tuning holds every threshold the decision pipeline depends on.
// Values left at zero in the yaml file fall back to Defaults().
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	GridSize int      `yaml:"grid_size"`
	Palette  []string `yaml:"palette"`

	HistoryCap    int     `yaml:"history_cap"`
	MinConfidence float64 `yaml:"min_confidence"`

	Gesture  Gesture  `yaml:"gesture"`
	Cooldown Cooldown `yaml:"cooldown"`
}

// Gesture thresholds operate in camera-normalized hand space.
type Gesture struct {
	PinchDistance  float64 `yaml:"pinch_distance"`
	ExtensionRatio float64 `yaml:"extension_ratio"`
	SwipeMinDist   float64 `yaml:"swipe_min_dist"`
	SwipeMinSpeed  float64 `yaml:"swipe_min_speed"`
	SwipeWindowMs  int     `yaml:"swipe_window_ms"`
}

// Cooldown windows are wall-clock milliseconds per action class.
type Cooldown struct {
	ActionMs int `yaml:"action_ms"`
	ColorMs  int `yaml:"color_ms"`
	UndoMs   int `yaml:"undo_ms"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		GridSize:        16,
		Palette: []string{
			"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
			"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
		},
		HistoryCap:    50,
		MinConfidence: 0.6,
		Gesture: Gesture{
			PinchDistance:  0.07,
			ExtensionRatio: 1.2,
			SwipeMinDist:   0.2,
			SwipeMinSpeed:  0.15,
			SwipeWindowMs:  500,
		},
		Cooldown: Cooldown{
			ActionMs: 300,
			ColorMs:  500,
			UndoMs:   600,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	applyDefaults(&t)
	return t, nil
}

func applyDefaults(t *Tuning) {
	d := Defaults()
	if t.ProtocolVersion == "" {
		t.ProtocolVersion = d.ProtocolVersion
	}
	if t.GridSize <= 0 {
		t.GridSize = d.GridSize
	}
	if len(t.Palette) == 0 {
		t.Palette = d.Palette
	}
	if t.HistoryCap <= 0 {
		t.HistoryCap = d.HistoryCap
	}
	if t.MinConfidence <= 0 {
		t.MinConfidence = d.MinConfidence
	}
	if t.Gesture.PinchDistance <= 0 {
		t.Gesture.PinchDistance = d.Gesture.PinchDistance
	}
	if t.Gesture.ExtensionRatio <= 0 {
		t.Gesture.ExtensionRatio = d.Gesture.ExtensionRatio
	}
	if t.Gesture.SwipeMinDist <= 0 {
		t.Gesture.SwipeMinDist = d.Gesture.SwipeMinDist
	}
	if t.Gesture.SwipeMinSpeed <= 0 {
		t.Gesture.SwipeMinSpeed = d.Gesture.SwipeMinSpeed
	}
	if t.Gesture.SwipeWindowMs <= 0 {
		t.Gesture.SwipeWindowMs = d.Gesture.SwipeWindowMs
	}
	if t.Cooldown.ActionMs <= 0 {
		t.Cooldown.ActionMs = d.Cooldown.ActionMs
	}
	if t.Cooldown.ColorMs <= 0 {
		t.Cooldown.ColorMs = d.Cooldown.ColorMs
	}
	if t.Cooldown.UndoMs <= 0 {
		t.Cooldown.UndoMs = d.Cooldown.UndoMs
	}
}

// Digest identifies the exact tuning a session runs under; sent in WELCOME
// so a client can detect threshold drift between a recording and a replay.
func (t Tuning) Digest() string {
	raw, err := yaml.Marshal(t)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(raw))
}
