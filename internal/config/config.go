package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	BaseURL              string        `yaml:"base_url"` // external URL, used to build confirmation links
	Port                 int           `yaml:"port"`
	LogLevel             string        `yaml:"log_level"`
	LogJSON              bool          `yaml:"log_json"`
	AccessTokenTTL       Duration      `yaml:"access_token_ttl"`
	ConfirmationTokenTTL Duration      `yaml:"confirmation_token_ttl"`
	Mailgun              Mailgun       `yaml:"mailgun"`
	ObjectStorage        ObjectStorage `yaml:"object_storage"`
	ImageGen             ImageGen      `yaml:"image_gen"`
}

// Duration parses "30m"-style values, which yaml.v2 cannot decode into a
// plain time.Duration.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Mailgun struct {
	APIBase    string `yaml:"api_base"`
	Domain     string `yaml:"domain"`
	SenderName string `yaml:"sender_name"`
}

type ObjectStorage struct {
	Endpoint string `yaml:"endpoint"` // S3-compatible endpoint (Backblaze B2)
	Region   string `yaml:"region"`
	Bucket   string `yaml:"bucket"`
}

type ImageGen struct {
	Endpoint string `yaml:"endpoint"`
}

type Private struct {
	Pg            Pg     `yaml:"pg"`
	JwtKey        string `yaml:"jwt_key"`
	MailgunAPIKey string `yaml:"mailgun_api_key"`
	StorageKeyID  string `yaml:"storage_key_id"`
	StorageKey    string `yaml:"storage_key"`
	ImageGenKey   string `yaml:"image_gen_key"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func (c *Config) JwtKey() string {
	return c.Private.JwtKey
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Public.AccessTokenTTL == 0 {
		c.Public.AccessTokenTTL = Duration(30 * time.Minute)
	}
	if c.Public.ConfirmationTokenTTL == 0 {
		c.Public.ConfirmationTokenTTL = Duration(24 * time.Hour)
	}
	if c.Public.Port == 0 {
		c.Public.Port = 8080
	}
	if c.Public.Mailgun.APIBase == "" {
		c.Public.Mailgun.APIBase = "https://api.mailgun.net"
	}
}
