package pad

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Duration is a time.Duration that reads and writes TOML strings such as
// "250ms".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the full runtime configuration, loadable from TOML.
//
//	[manipulation]
//	origin = "center"
//	wheel_rotate_step = 10.0
//	wheel_zoom_factor = 1000.0
//	min_scale = 0.01
//
//	[recognizer]
//	tap_time = "250ms"
//	...
type Config struct {
	Manipulation ManipulationConfig `toml:"manipulation"`
	Recognizer   RecognizerSettings `toml:"recognizer"`
	Drawing      DrawingConfig      `toml:"drawing"`
	Animation    AnimationConfig    `toml:"animation"`
	Log          LogConfig          `toml:"log"`
}

// RecognizerSettings is the TOML form of RecognizerConfig.
type RecognizerSettings struct {
	TapTime       Duration `toml:"tap_time"`
	TapSlop       float64  `toml:"tap_slop"`
	DoubleTapTime Duration `toml:"double_tap_time"`
	DoubleTapSlop float64  `toml:"double_tap_slop"`
}

// Std converts the settings to a RecognizerConfig.
func (s RecognizerSettings) Std() RecognizerConfig {
	return RecognizerConfig{
		TapTime:       s.TapTime.Std(),
		TapSlop:       s.TapSlop,
		DoubleTapTime: s.DoubleTapTime.Std(),
		DoubleTapSlop: s.DoubleTapSlop,
	}
}

// DrawingConfig configures the freehand drawing tool.
type DrawingConfig struct {
	StrokeWidth   float64  `toml:"stroke_width"`
	Colors        []string `toml:"colors"`
	ReenableDelay Duration `toml:"reenable_delay"`
	// TouchForce is reported for touch contacts, which carry no pressure.
	// Zero keeps touches for manipulation; set it above zero to draw with
	// a finger.
	TouchForce float64 `toml:"touch_force"`
}

// AnimationConfig configures tweened transform application. A zero duration
// applies transforms immediately.
type AnimationConfig struct {
	Duration Duration `toml:"duration"`
	Ease     string   `toml:"ease"`
}

// LogConfig selects the log level: debug, info, warn or error.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	rc := DefaultRecognizerConfig()
	return Config{
		Manipulation: DefaultManipulationConfig(),
		Recognizer: RecognizerSettings{
			TapTime:       Duration(rc.TapTime),
			TapSlop:       rc.TapSlop,
			DoubleTapTime: Duration(rc.DoubleTapTime),
			DoubleTapSlop: rc.DoubleTapSlop,
		},
		Drawing: DrawingConfig{
			StrokeWidth:   3,
			Colors:        []string{"black", "red", "green", "blue", "yellow"},
			ReenableDelay: Duration(50 * time.Millisecond),
			TouchForce:    0,
		},
		Animation: AnimationConfig{Ease: "outQuad"},
		Log:       LogConfig{Level: "info"},
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, WrapError(CodeInvalidConfig, err, "open config %s", path)
	}
	defer f.Close()
	return DecodeConfig(f)
}

// DecodeConfig decodes TOML from r on top of DefaultConfig and validates
// the result. Unknown keys are rejected.
func DecodeConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, WrapError(CodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, NewError(CodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	m := c.Manipulation
	if _, err := ParseOriginPolicy(m.Origin); err != nil {
		return err
	}
	if m.WheelRotateStep <= 0 {
		return NewError(CodeInvalidConfig, "manipulation.wheel_rotate_step must be positive, got %v", m.WheelRotateStep)
	}
	if m.WheelZoomFactor <= 0 {
		return NewError(CodeInvalidConfig, "manipulation.wheel_zoom_factor must be positive, got %v", m.WheelZoomFactor)
	}
	if m.MinScale <= 0 {
		return NewError(CodeInvalidConfig, "manipulation.min_scale must be positive, got %v", m.MinScale)
	}
	r := c.Recognizer
	if r.TapTime < 0 || r.DoubleTapTime < 0 || r.TapSlop < 0 || r.DoubleTapSlop < 0 {
		return NewError(CodeInvalidConfig, "recognizer limits must not be negative")
	}
	d := c.Drawing
	if d.StrokeWidth <= 0 {
		return NewError(CodeInvalidConfig, "drawing.stroke_width must be positive, got %v", d.StrokeWidth)
	}
	if len(d.Colors) == 0 {
		return NewError(CodeInvalidConfig, "drawing.colors must not be empty")
	}
	if d.TouchForce < 0 || d.TouchForce > 1 {
		return NewError(CodeInvalidConfig, "drawing.touch_force must be in [0, 1], got %v", d.TouchForce)
	}
	if c.Animation.Duration < 0 {
		return NewError(CodeInvalidConfig, "animation.duration must not be negative")
	}
	if _, err := ParseEase(c.Animation.Ease); err != nil {
		return err
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Animator returns the configured animator, or nil when animation is off.
func (c Config) Animator() *Animator {
	if c.Animation.Duration <= 0 {
		return nil
	}
	fn, _ := ParseEase(c.Animation.Ease)
	return NewAnimator(float32(c.Animation.Duration.Std().Seconds()), fn)
}

// ParseLevel maps a level name to a log level. Empty means info.
func ParseLevel(s string) (log.Level, error) {
	if s == "" {
		return log.InfoLevel, nil
	}
	lvl, err := log.ParseLevel(s)
	if err != nil {
		return 0, WrapError(CodeInvalidConfig, err, "log.level %q", s)
	}
	return lvl, nil
}

func (c Config) String() string {
	var sb strings.Builder
	if err := c.Encode(&sb); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return sb.String()
}
