// Ininicializing common application configuration
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/ds124wfegd/imagekit/internal/pkg/analyzer"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig        `mapstructure:"server"`
	Kafka    KafkaConfig         `mapstructure:"kafka"`
	Redis    RedisConfig         `mapstructure:"redis"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Engine   EngineConfig        `mapstructure:"engine"`
	Analyzer analyzer.Thresholds `mapstructure:"analyzer"`
}

type ServerConfig struct {
	AppVersion   string        `mapstructure:"app_version"`
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	Timeout      time.Duration `mapstructure:"timeout"`
	Idle_timeout time.Duration `mapstructure:"idle_timeout"`
	Env          string        `mapstructure:"environment"`
	Mode         string        `mapstructure:"mode"`
}

type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
	Enabled  bool          `mapstructure:"enabled"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

type EngineConfig struct {
	Workers        int   `mapstructure:"workers"` // 0 = по числу CPU
	DefaultQuality int   `mapstructure:"default_quality"`
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

// LoadConfig reads ./config/config.yaml if present. Every key can be
// overridden from the environment, server.port as SERVER_PORT.
func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()
	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// setDefaults устанавливает значения по умолчанию
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("kafka.brokers", "localhost:9094")
	v.SetDefault("kafka.topic", "image-jobs")
	v.SetDefault("kafka.group_id", "imagekit-worker")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)
	v.SetDefault("redis.enabled", true)

	v.SetDefault("storage.base_path", "./storage")

	v.SetDefault("engine.workers", 0)
	v.SetDefault("engine.default_quality", 85)
	v.SetDefault("engine.max_upload_bytes", 50<<20)

	// пороги анализатора, чтобы их можно было переопределить из env
	d := analyzer.DefaultThresholds()
	v.SetDefault("analyzer.color_sample_size", d.ColorSampleSize)
	v.SetDefault("analyzer.edge_sample_size", d.EdgeSampleSize)
	v.SetDefault("analyzer.edge_magnitude", d.EdgeMagnitude)
	v.SetDefault("analyzer.unique_colors_low", d.UniqueColorsLow)
	v.SetDefault("analyzer.unique_colors_medium", d.UniqueColorsMedium)
	v.SetDefault("analyzer.edge_density_low", d.EdgeDensityLow)
	v.SetDefault("analyzer.edge_density_medium", d.EdgeDensityMedium)
	v.SetDefault("analyzer.contrast_high", d.ContrastHigh)
	v.SetDefault("analyzer.contrast_medium", d.ContrastMedium)
	v.SetDefault("analyzer.monochrome_saturation", d.MonochromeSaturation)
	v.SetDefault("analyzer.texture_smooth", d.TextureSmooth)
	v.SetDefault("analyzer.texture_detailed", d.TextureDetailed)
	v.SetDefault("analyzer.dominant_colors", d.DominantColors)
	v.SetDefault("analyzer.analogous_max_hue", d.AnalogousMaxHue)
	v.SetDefault("analyzer.complementary_min_hue", d.ComplementaryMinHue)
	v.SetDefault("analyzer.triadic_tolerance", d.TriadicTolerance)
	v.SetDefault("analyzer.large_image_pixels", d.LargeImagePixels)
	v.SetDefault("analyzer.medium_image_pixels", d.MediumImagePixels)
	v.SetDefault("analyzer.responsive_image_pixels", d.ResponsiveImagePixels)
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
