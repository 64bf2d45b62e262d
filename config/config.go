package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀，例如 ROOF_SOLAR_API_KEY 覆盖 solar.api_key
const EnvPrefix = "ROOF"

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Vectorize VectorizeConfig `mapstructure:"vectorize"`
	Flood     FloodConfig     `mapstructure:"flood"`
	Inference InferenceConfig `mapstructure:"inference"`
	Tiles     TilesConfig     `mapstructure:"tiles"`
	Solar     SolarConfig     `mapstructure:"solar"`
	Overpass  OverpassConfig  `mapstructure:"overpass"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type UploadConfig struct {
	MaxSize      int64    `mapstructure:"max_size"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// VectorizeConfig 掩码矢量化参数
type VectorizeConfig struct {
	Epsilon   float64 `mapstructure:"epsilon"`
	NoiseArea float64 `mapstructure:"noise_area"`
	Threshold float64 `mapstructure:"threshold"`
}

// FloodConfig 交互式泛洪分割参数
type FloodConfig struct {
	Kernel       int     `mapstructure:"kernel"`
	Tolerance    int     `mapstructure:"tolerance"`
	EpsilonRatio float64 `mapstructure:"epsilon_ratio"`
	Connectivity int     `mapstructure:"connectivity"`
}

// InferenceConfig 屋顶分割模型，ModelPath 为空时不启用
type InferenceConfig struct {
	ModelPath         string        `mapstructure:"model_path"`
	SharedLibraryPath string        `mapstructure:"shared_library_path"`
	InputName         string        `mapstructure:"input_name"`
	OutputName        string        `mapstructure:"output_name"`
	InputSize         int           `mapstructure:"input_size"`
	MaxConcurrent     int           `mapstructure:"max_concurrent"`
	QueueTimeout      time.Duration `mapstructure:"queue_timeout"`
	MorphKernel       int           `mapstructure:"morph_kernel"`
}

type TilesConfig struct {
	URLTemplate string        `mapstructure:"url_template"`
	Zoom        int           `mapstructure:"zoom"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UserAgent   string        `mapstructure:"user_agent"`
}

type SolarConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Quality     string        `mapstructure:"quality"`
	Timeout     time.Duration `mapstructure:"timeout"`
	LayerRadius float64       `mapstructure:"layer_radius"`
}

type OverpassConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Radius      float64       `mapstructure:"radius"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxParallel int           `mapstructure:"max_parallel"`
}

type DatabaseConfig struct {
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	Seed         bool   `mapstructure:"seed"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

type RateLimitConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	RPS     float64 `mapstructure:"rps"`
	Burst   int     `mapstructure:"burst"`
}

// Load 从 YAML 文件加载配置，环境变量优先
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New 使用默认配置路径加载配置
func New() *Config {
	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, err := Load("config.yaml")
	if err != nil {
		// 如果加载失败，返回默认配置
		return getDefaultConfig()
	}
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("log.compress", true)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("upload.max_size", 10*1024*1024)
	v.SetDefault("upload.allowed_types", []string{"image/jpeg", "image/png", "image/jpg", "image/webp", "image/tiff"})

	v.SetDefault("vectorize.epsilon", 2.0)
	v.SetDefault("vectorize.noise_area", 100.0)
	v.SetDefault("vectorize.threshold", 0.5)

	v.SetDefault("flood.kernel", 5)
	v.SetDefault("flood.tolerance", 15)
	v.SetDefault("flood.epsilon_ratio", 0.02)
	v.SetDefault("flood.connectivity", 4)

	v.SetDefault("inference.model_path", "")
	v.SetDefault("inference.shared_library_path", "")
	v.SetDefault("inference.input_name", "input")
	v.SetDefault("inference.output_name", "output")
	v.SetDefault("inference.input_size", 512)
	v.SetDefault("inference.max_concurrent", 2)
	v.SetDefault("inference.queue_timeout", 30*time.Second)
	v.SetDefault("inference.morph_kernel", 3)

	v.SetDefault("tiles.url_template", "https://mt1.google.com/vt/lyrs=s&x={x}&y={y}&z={z}")
	v.SetDefault("tiles.zoom", 20)
	v.SetDefault("tiles.timeout", 10*time.Second)
	v.SetDefault("tiles.user_agent", "sella-el-techo-cotizador/1.0")

	v.SetDefault("solar.api_key", "")
	v.SetDefault("solar.base_url", "https://solar.googleapis.com/v1")
	v.SetDefault("solar.quality", "HIGH")
	v.SetDefault("solar.timeout", 15*time.Second)
	v.SetDefault("solar.layer_radius", 50.0)

	v.SetDefault("overpass.endpoint", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.radius", 30.0)
	v.SetDefault("overpass.timeout", 25*time.Second)
	v.SetDefault("overpass.max_parallel", 2)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.seed", true)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "sella-el-techo")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 20)
}

// getDefaultConfig 只使用默认值和环境变量
func getDefaultConfig() *Config {
	var cfg Config
	if err := newViper().Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("invalid default config: %v", err))
	}
	return &cfg
}
