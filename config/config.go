package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

var (
	ErrInvalidStepping   = errors.New("profiling.stepping must be positive")
	ErrInvalidDebugLevel = errors.New("debug.level must be between 0 and 3")
	ErrInvalidPort       = errors.New("stream.port must be between 1 and 65535")
	ErrInvalidBuffers    = errors.New("buffers.count and buffers.size must be positive")
)

// Config is the build-time surface of the camera client. It is resolved once
// before the main loop starts.
type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	Debug     DebugConfig     `mapstructure:"debug"`
	Profiling ProfilingConfig `mapstructure:"profiling"`
	WiFi      WiFiConfig      `mapstructure:"wifi"`
	Stream    StreamConfig    `mapstructure:"stream"`
	Capture   CaptureConfig   `mapstructure:"capture"`
	Buffers   BuffersConfig   `mapstructure:"buffers"`
	Heap      HeapConfig      `mapstructure:"heap"`
}

type ServiceConfig struct {
	Name string `mapstructure:"name"`
}

// DebugConfig holds the verbosity level: 0 quiet, 1 high-level progress,
// 2 most messages, 3 verbose.
type DebugConfig struct {
	Level      int    `mapstructure:"level"`
	Screen     bool   `mapstructure:"screen"`
	ListenAddr string `mapstructure:"listen_addr"`
}

type ProfilingConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Stepping int  `mapstructure:"stepping"`
}

type WiFiConfig struct {
	SoftAP   bool   `mapstructure:"softap"`
	SSID     string `mapstructure:"ssid"`
	Password string `mapstructure:"password"`
}

// StreamConfig locates the MJPEG stream and the markers that open each part.
type StreamConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	URI         string `mapstructure:"uri"`
	PartHeader1 string `mapstructure:"part_header_1"`
	PartHeader2 string `mapstructure:"part_header_2"`
}

// CaptureConfig names the directory for image dumps. Empty disables capture.
type CaptureConfig struct {
	Dir string `mapstructure:"dir"`
}

type BuffersConfig struct {
	Count int `mapstructure:"count"`
	Size  int `mapstructure:"size"`
}

type HeapConfig struct {
	Reader  int `mapstructure:"reader"`
	Display int `mapstructure:"display"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() Config {
	return Config{
		Service:   ServiceConfig{Name: "camprobe"},
		Debug:     DebugConfig{Level: 1},
		Profiling: ProfilingConfig{Enabled: true, Stepping: 10},
		WiFi: WiFiConfig{
			SoftAP:   true,
			SSID:     "TTGO-CAMERA-8D:65",
			Password: "NotSoSafe",
		},
		Stream: StreamConfig{
			Host:        "2.2.2.1",
			Port:        81,
			URI:         "/stream",
			PartHeader1: "Content-Type: image/jpeg",
			PartHeader2: "Content-Length: ",
		},
		Buffers: BuffersConfig{Count: 2, Size: 32768},
		Heap:    HeapConfig{Reader: 16384, Display: 4096},
	}
}

func setDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("service.name", d.Service.Name)
	v.SetDefault("debug.level", d.Debug.Level)
	v.SetDefault("debug.screen", d.Debug.Screen)
	v.SetDefault("debug.listen_addr", d.Debug.ListenAddr)
	v.SetDefault("profiling.enabled", d.Profiling.Enabled)
	v.SetDefault("profiling.stepping", d.Profiling.Stepping)
	v.SetDefault("wifi.softap", d.WiFi.SoftAP)
	v.SetDefault("wifi.ssid", d.WiFi.SSID)
	v.SetDefault("wifi.password", d.WiFi.Password)
	v.SetDefault("stream.host", d.Stream.Host)
	v.SetDefault("stream.port", d.Stream.Port)
	v.SetDefault("stream.uri", d.Stream.URI)
	v.SetDefault("stream.part_header_1", d.Stream.PartHeader1)
	v.SetDefault("stream.part_header_2", d.Stream.PartHeader2)
	v.SetDefault("capture.dir", d.Capture.Dir)
	v.SetDefault("buffers.count", d.Buffers.Count)
	v.SetDefault("buffers.size", d.Buffers.Size)
	v.SetDefault("heap.reader", d.Heap.Reader)
	v.SetDefault("heap.display", d.Heap.Display)
}

// Load reads config.yaml from path, if present, then applies CAMPROBE_*
// environment overrides (CAMPROBE_PROFILING_STEPPING for profiling.stepping).
func Load(path string) (config Config, err error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.AddConfigPath(path)
	}
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("camprobe")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err = v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return config, fmt.Errorf("failed to read config: %w", err)
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to decode config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return config, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Validate checks the values the rest of the program relies on.
func (c Config) Validate() error {
	if c.Profiling.Stepping <= 0 {
		return ErrInvalidStepping
	}
	if c.Debug.Level < 0 || c.Debug.Level > 3 {
		return ErrInvalidDebugLevel
	}
	if c.Stream.Port < 1 || c.Stream.Port > 65535 {
		return ErrInvalidPort
	}
	if c.Buffers.Count <= 0 || c.Buffers.Size <= 0 {
		return ErrInvalidBuffers
	}
	return nil
}

// PolicyStepping returns the validated stepping interval for the
// reporting policy.
func (c Config) PolicyStepping() uint32 {
	if c.Profiling.Stepping <= 0 {
		return 0
	}
	return uint32(c.Profiling.Stepping)
}

// StreamURL renders the stream location, e.g. http://2.2.2.1:81/stream.
func (c Config) StreamURL() string {
	uri := c.Stream.URI
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	return "http://" + net.JoinHostPort(c.Stream.Host, strconv.Itoa(c.Stream.Port)) + uri
}
