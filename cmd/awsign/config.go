package main

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/amwolff/awsign"
)

const (
	envAccessKeyID     = "AWS_ACCESS_KEY_ID"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
	envRegion          = "AWS_REGION"
	envLogLevel        = "AWSIGN_LOG_LEVEL"

	defaultLogLevel = "info"
)

// config captures the credentials and defaults the signer needs from
// the environment.
type config struct {
	Credentials awsign.Credentials
	Region      string
	LogLevel    string
}

// loadConfig reads configuration from the environment, optionally
// seeded from a .env file in the working directory.
func loadConfig() (config, error) {
	_ = godotenv.Load() // a missing .env file is fine

	accessKeyID := strings.TrimSpace(os.Getenv(envAccessKeyID))
	if accessKeyID == "" {
		return config{}, errors.New(envAccessKeyID + " is required")
	}

	secretAccessKey := strings.TrimSpace(os.Getenv(envSecretAccessKey))
	if secretAccessKey == "" {
		return config{}, errors.New(envSecretAccessKey + " is required")
	}

	return config{
		Credentials: awsign.Credentials{
			AccessKeyID:     accessKeyID,
			SecretAccessKey: secretAccessKey,
			SessionToken:    strings.TrimSpace(os.Getenv(envSessionToken)),
		},
		Region:   getString(envRegion, ""),
		LogLevel: strings.ToLower(getString(envLogLevel, defaultLogLevel)),
	}, nil
}

func getString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
