package devops

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/MohsenMaaleki/windsightai/utils"
)

// Config is the full application configuration. Values come from
// environment variables (WINDSIGHTAI_ prefix) with an optional yaml file
// on top; the DSN may additionally be resolved from an SSM parameter.
type Config struct {
	Port          string
	DSN           string
	DatabasePath  string // sqlite fallback when DSN is empty
	MaxConns      int
	UploadDir     string
	OutputDir     string
	ModelURL      string
	ModelTimeout  time.Duration
	SigningSecret string
	TokenTTL      time.Duration

	ArchiveBucket string

	SlackToken        string
	SlackInfoChannel  string
	SlackErrorChannel string

	WelcomeEmailFrom string

	ExpirySweepSchedule string // cron spec; empty disables the sweep
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("WINDSIGHTAI")
	v.AutomaticEnv()

	v.SetDefault("port", "8090")
	v.SetDefault("database_path", "windsightai.db")
	v.SetDefault("max_conns", 10)
	v.SetDefault("upload_dir", "uploads")
	v.SetDefault("output_dir", "output")
	v.SetDefault("model_url", "http://localhost:5000")
	v.SetDefault("model_timeout", "120s")
	v.SetDefault("token_ttl", "24h")
	v.SetDefault("expiry_sweep_schedule", "@hourly")

	v.SetConfigName("windsightai")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/windsightai")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Port:                v.GetString("port"),
		DSN:                 v.GetString("dsn"),
		DatabasePath:        v.GetString("database_path"),
		MaxConns:            v.GetInt("max_conns"),
		UploadDir:           v.GetString("upload_dir"),
		OutputDir:           v.GetString("output_dir"),
		ModelURL:            v.GetString("model_url"),
		ModelTimeout:        v.GetDuration("model_timeout"),
		SigningSecret:       v.GetString("signing_secret"),
		TokenTTL:            v.GetDuration("token_ttl"),
		ArchiveBucket:       v.GetString("archive_bucket"),
		SlackToken:          v.GetString("slack_token"),
		SlackInfoChannel:    v.GetString("slack_info_channel"),
		SlackErrorChannel:   v.GetString("slack_error_channel"),
		WelcomeEmailFrom:    v.GetString("welcome_email_from"),
		ExpirySweepSchedule: v.GetString("expiry_sweep_schedule"),
	}
	return cfg, nil
}

type DBEntry struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

var (
	once    sync.Once
	dbList  []DBEntry
	loadErr error
)

// LoadDSNFromSSM resolves the mysql DSN from the "databases" SSM
// parameter (a yaml list of DBEntry). Used when no DSN is configured
// locally.
func LoadDSNFromSSM(ctx context.Context) (string, error) {
	once.Do(func() {
		cfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			loadErr = fmt.Errorf("load aws config: %w", err)
			return
		}

		client := ssm.NewFromConfig(cfg)
		out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
			Name:           aws.String("databases"),
			WithDecryption: aws.Bool(true),
		})
		if err != nil {
			loadErr = fmt.Errorf("get parameter: %w", err)
			return
		}

		var parsed []DBEntry
		if err := yaml.Unmarshal([]byte(*out.Parameter.Value), &parsed); err != nil {
			loadErr = fmt.Errorf("unmarshal yaml: %w", err)
			return
		}
		dbList = parsed
	})
	if loadErr != nil {
		return "", loadErr
	}

	entry := utils.Find(dbList, func(db *DBEntry) bool {
		return db.Name == "windsightai"
	})
	if entry == nil {
		return "", fmt.Errorf("windsightai database parameter not found")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:3306)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		entry.Username, entry.Password, entry.Host, entry.Name), nil
}
