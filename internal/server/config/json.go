package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/flagx"
	"github.com/dmitrijs2005/nutrilog/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Duration
// fields accept "5s"-style strings or integer nanoseconds. Fields left out
// of the file keep the value they already had in Config.
type JsonConfig struct {
	DatabaseDSN            *string         `json:"database_dsn"`
	DBMaxOpenConns         *int            `json:"db_max_open_conns"`
	DBConnMaxLifetime      *timex.Duration `json:"db_conn_max_lifetime"`
	DBOperationTimeout     *timex.Duration `json:"db_operation_timeout"`
	S3RootUser             *string         `json:"s3_root_user"`
	S3RootPassword         *string         `json:"s3_root_password"`
	S3Bucket               *string         `json:"s3_bucket"`
	S3Region               *string         `json:"s3_region"`
	S3BaseEndpoint         *string         `json:"s3_base_endpoint"`
	S3PublicURL            *string         `json:"s3_public_url"`
	InferenceURL           *string         `json:"inference_url"`
	InferenceAPIKey        *string         `json:"inference_api_key"`
	InferenceTimeout       *timex.Duration `json:"inference_timeout"`
	PlaceholderEmailDomain *string         `json:"placeholder_email_domain"`
	LogLevel               *string         `json:"log_level"`
}

// parseJson overlays values from the JSON file named by -c/-config (or
// $NUTRILOG_CONFIG) onto config. Without a file it does nothing. An
// unreadable or malformed file panics: the process cannot start with a
// half-applied configuration.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	if c.DBMaxOpenConns != nil {
		config.DBMaxOpenConns = *c.DBMaxOpenConns
	}
	setDuration(&config.DBConnMaxLifetime, c.DBConnMaxLifetime)
	setDuration(&config.DBOperationTimeout, c.DBOperationTimeout)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicURL, c.S3PublicURL)
	setString(&config.InferenceURL, c.InferenceURL)
	setString(&config.InferenceAPIKey, c.InferenceAPIKey)
	setDuration(&config.InferenceTimeout, c.InferenceTimeout)
	setString(&config.PlaceholderEmailDomain, c.PlaceholderEmailDomain)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
