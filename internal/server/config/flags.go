package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/nutrilog/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-n int      maximum open DB connections
//	-o int      storage operation timeout, seconds
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-w string   public base URL of uploaded objects
//	-i string   inference service URL
//	-k string   inference service API key
//	-l string   log level
//
// Only the flags above are considered (see flagx.FilterArgs), so -c/-config
// and flags owned by other components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-n", "-o", "-u", "-p", "-b", "-g", "-e", "-w", "-i", "-k", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.IntVar(&config.DBMaxOpenConns, "n", config.DBMaxOpenConns, "max open DB connections")
	opTimeout := fs.Int("o", int(config.DBOperationTimeout.Seconds()), "storage operation timeout (in seconds)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "w", config.S3PublicURL, "public base URL of stored images")

	fs.StringVar(&config.InferenceURL, "i", config.InferenceURL, "inference service URL")
	fs.StringVar(&config.InferenceAPIKey, "k", config.InferenceAPIKey, "inference service API key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DBOperationTimeout = time.Duration(*opTimeout) * time.Second
}
