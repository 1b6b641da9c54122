package pipeline

import (
	"os"
	"strconv"
	"time"

	"github.com/tablerail/railalign/internal/control"
)

// Config collects every environment-driven knob the driver needs. There is
// no configuration file or flag parser: the process is meant to be started
// once by an init script with a handful of environment variables, the way
// the original camera-display prototype was launched.
type Config struct {
	FramebufferPath string
	VideoDevicePath string

	MotorIsActivePath        string
	MotorLastActiveMtimePath string
	KeysInDir                string

	InvertDirection bool
	Debug           bool

	RestartBackoff time.Duration
	UnblankEvery   int

	SnapshotPath  string
	SnapshotEvery int
}

// FromEnv builds a Config from the process environment, falling back to the
// defaults the device image ships with.
func FromEnv() Config {
	cfg := Config{
		FramebufferPath:          getenv("RAILALIGN_FRAMEBUFFER", "/dev/fb0"),
		VideoDevicePath:          getenv("RAILALIGN_VIDEO_DEVICE", "/dev/video0"),
		MotorIsActivePath:        getenv("GPIO_MOTOR_IS_ACTIVE", "/tmp/gpio_motor_is_active"),
		MotorLastActiveMtimePath: getenv("GPIO_MOTOR_LAST_ACTIVE_MTIME", "/tmp/gpio_motor_last_active_mtime"),
		KeysInDir:                getenv("GPIO_MOTOR_KEYS_IN_DIR", "/tmp/gpio_motor_keys_in"),
		InvertDirection:          getenvBool("RAILALIGN_INVERT_DIRECTION", false),
		Debug:                    getenvBool("RAILALIGN_DEBUG", false),
		RestartBackoff:           1200 * time.Millisecond,
		UnblankEvery:             100,
		SnapshotPath:             os.Getenv("RAILALIGN_SNAPSHOT_PATH"),
		SnapshotEvery:            300,
	}
	return cfg
}

// ControllerConfig derives a control.Config from this Config.
func (c Config) ControllerConfig() control.Config {
	cc := control.DefaultConfig()
	cc.KeysInDir = c.KeysInDir
	cc.InvertDirection = c.InvertDirection
	return cc
}

func getenv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func getenvBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
