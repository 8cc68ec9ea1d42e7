package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// SMTPConfig carries the delivery settings. Sender, Password and Recipient
// must all be present before any network attempt is made.
type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Sender    string `mapstructure:"sender"`
	Password  string `mapstructure:"password"`
	Recipient string `mapstructure:"recipient"`
}

// ArchiveConfig enables optional sinks for the raw extracted records and the
// run-summary event stream. Everything is off unless configured.
type ArchiveConfig struct {
	CSVDir          string `mapstructure:"csv_dir"`
	ParquetDir      string `mapstructure:"parquet_dir"`
	PostgresDSN     string `mapstructure:"postgres_dsn"`
	KafkaBrokerList string `mapstructure:"kafka_broker_list"`
	KafkaTopic      string `mapstructure:"kafka_topic"`
}

// CloudConfig enables uploading rendered reports to object storage.
type CloudConfig struct {
	Bucket string `mapstructure:"bucket"`
	Region string `mapstructure:"region"`
	Prefix string `mapstructure:"prefix"`
}

// RenderConfig holds PDF renderer knobs.
type RenderConfig struct {
	NoSandbox bool          `mapstructure:"no_sandbox"`
	RemoteURL string        `mapstructure:"remote_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type Config struct {
	BackupPath  string `mapstructure:"backup_path"`
	MDBFilename string `mapstructure:"mdb_filename"`
	ExportTool  string `mapstructure:"export_tool"`
	// CSVSourceDir switches the record source from the MDB export to a
	// directory of plain CSV exports (demo and test runs).
	CSVSourceDir string `mapstructure:"csv_source_dir"`

	ReportsDir     string `mapstructure:"reports_dir"`
	RestaurantName string `mapstructure:"restaurant_name"`
	ReportTitle    string `mapstructure:"report_title"`
	TopItemsCount  int    `mapstructure:"top_items_count"`
	DetailedList   bool   `mapstructure:"detailed_list"`

	SMTP    SMTPConfig    `mapstructure:"smtp"`
	Archive ArchiveConfig `mapstructure:"archive"`
	Cloud   CloudConfig   `mapstructure:"cloud"`
	Render  RenderConfig  `mapstructure:"render"`
}

// LoadConfig initializes and reads the configuration using Viper. Flags bound
// by the CLI and environment variables override file values; the result is
// passed explicitly into every component that needs it.
func LoadConfig(cfgFile string) (*Config, error) {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("posreport")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("posreport")
	viper.AutomaticEnv()

	viper.SetDefault("backup_path", "./backups")
	viper.SetDefault("mdb_filename", "resturant.mdb")
	viper.SetDefault("export_tool", "mdb-export")
	viper.SetDefault("reports_dir", "./reports")
	viper.SetDefault("restaurant_name", "TORNADO RESTAURANT")
	viper.SetDefault("report_title", "Monthly Sales Report")
	viper.SetDefault("top_items_count", 10)
	viper.SetDefault("smtp.host", "smtp.gmail.com")
	viper.SetDefault("smtp.port", 587)

	if err := viper.ReadInConfig(); err != nil {
		// A missing default config file is fine: defaults, flags and
		// environment variables still apply.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	decoderConfigOption := viper.DecoderConfigOption(func(config *mapstructure.DecoderConfig) {
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			config.DecodeHook,
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err := viper.Unmarshal(&config, decoderConfigOption); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}

	return &config, nil
}
