package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Host                      string        `mapstructure:"host"`
		Address                   string        `mapstructure:"address"`
		DebugHost                 string        `mapstructure:"debugHost"`
		BodyLimit                 string        `mapstructure:"bodyLimit"`
		JWTExpirationDelta        time.Duration `mapstructure:"jwtExpirationDelta"`
		JWTRefreshExpirationDelta time.Duration `mapstructure:"jwtRefreshExpirationDelta"`
		PasswordResetTimeoutDelta time.Duration `mapstructure:"passwordResetTimeoutDelta"`
		ShutdownTimeout           time.Duration `mapstructure:"shutdownTimeout"`
	}

	DatabaseConfig struct {
		Engine        string `mapstructure:"engine"` // memory | postgres | mongodb
		Host          string `mapstructure:"host"`
		Port          int    `mapstructure:"port"`
		Name          string `mapstructure:"name"`
		User          string `mapstructure:"user"`
		Password      string `mapstructure:"password"`
		AdminUser     string `mapstructure:"adminUser"`
		AdminPassword string `mapstructure:"adminPassword"`
		DisableTLS    bool   `mapstructure:"disableTLS"`
		MongoURI      string `mapstructure:"mongoURI"`
	}

	UploadConfig struct {
		Driver      string `mapstructure:"driver"` // local | s3
		Dir         string `mapstructure:"dir"`
		PublicPath  string `mapstructure:"publicPath"`
		MaxSize     int64  `mapstructure:"maxSize"`
		S3Bucket    string `mapstructure:"s3Bucket"`
		S3Region    string `mapstructure:"s3Region"`
		S3Endpoint  string `mapstructure:"s3Endpoint"`
		S3AccessKey string `mapstructure:"s3AccessKey"`
		S3SecretKey string `mapstructure:"s3SecretKey"`
		S3PublicURL string `mapstructure:"s3PublicURL"`
	}

	FormConfig struct {
		AllowMultipleSubmissions bool     `mapstructure:"allowMultipleSubmissions"`
		CascadeDelete            bool     `mapstructure:"cascadeDelete"`
		AutoFillKeys             []string `mapstructure:"autoFillKeys"` // empty: every known key
	}

	Config struct {
		Env              string         `mapstructure:"-"`
		Debug            bool           `mapstructure:"debug"`
		TestMode         bool           `mapstructure:"testMode"`
		AppName          string         `mapstructure:"appName"`
		Build            string         `mapstructure:"build"`
		SecretKey        string         `mapstructure:"secretKey"`
		FrontendBaseURL  string         `mapstructure:"frontendBaseURL"`
		DefaultFromEmail string         `mapstructure:"defaultFromEmail"`
		RollbarToken     string         `mapstructure:"rollbarToken"`
		SendgridApiKey   string         `mapstructure:"sendgridApiKey"`
		WorkDir          string         `mapstructure:"-"`
		Server           ServerConfig   `mapstructure:"server"`
		Database         DatabaseConfig `mapstructure:"database"`
		Upload           UploadConfig   `mapstructure:"upload"`
		Form             FormConfig     `mapstructure:"form"`
	}
)

// DefaultFromAddress parses DefaultFromEmail, falling back to a bare address.
func (conf *Config) DefaultFromAddress() mail.Address {
	if addr, err := mail.ParseAddress(conf.DefaultFromEmail); err == nil {
		return *addr
	}
	return mail.Address{Name: conf.AppName, Address: conf.DefaultFromEmail}
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Placement Portal")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "ch4nge-me$+57=dz&uoxh2(h!x)#*c2(#yg4h^$cegm2emy")
	v.SetDefault("frontendBaseURL", "http://localhost:3000")
	v.SetDefault("defaultFromEmail", "Placement Cell <noreply@localhost>")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.bodyLimit", "12M")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.jwtRefreshExpirationDelta", 4*time.Hour)
	v.SetDefault("server.passwordResetTimeoutDelta", 3*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 5*time.Second)

	v.SetDefault("database.engine", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "placement")
	v.SetDefault("database.user", "placement")
	v.SetDefault("database.password", "placement")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.mongoURI", "mongodb://localhost:27017")

	v.SetDefault("upload.driver", "local")
	v.SetDefault("upload.dir", "uploads")
	v.SetDefault("upload.publicPath", "/uploads")
	v.SetDefault("upload.maxSize", int64(10<<20))
	v.SetDefault("upload.s3Bucket", "placement")
	v.SetDefault("upload.s3Region", "us-east-1")
	v.SetDefault("upload.s3Endpoint", "")
	v.SetDefault("upload.s3AccessKey", "")
	v.SetDefault("upload.s3SecretKey", "")
	v.SetDefault("upload.s3PublicURL", "")

	v.SetDefault("form.allowMultipleSubmissions", true)
	v.SetDefault("form.cascadeDelete", true)
	v.SetDefault("form.autoFillKeys", []string{})
}

// NewConfig loads the configuration from defaults, an optional `config/.env.<env>` file and the environment.
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
func NewConfig() *Config {
	conf, err := LoadConfig(os.Getenv("ENV"), Getwd())
	if err != nil {
		log.Fatalf("core.NewConfig: %v", err)
	}
	return conf
}

// LoadConfig is NewConfig with an explicit environment and working directory.
func LoadConfig(env, workDir string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	env = strings.ToUpper(CleanString(env))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	case "PROD":
		v.SetDefault("debug", false)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := new(Config)
	if err := v.Unmarshal(conf); err != nil {
		return nil, errors.Wrap(err, "decoding config")
	}
	conf.Env = env
	conf.WorkDir = workDir
	return conf, nil
}
