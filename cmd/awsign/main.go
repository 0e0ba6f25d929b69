// Command awsign signs a described HTTP request with AWS Signature
// Version 4 and prints the resulting Authorization header (or a
// presigned URL) without sending anything. Credentials come from the
// environment: AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and optionally
// AWS_SESSION_TOKEN, with an optional .env file.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/amwolff/awsign"
)

type headerFlags []string

func (h *headerFlags) String() string {
	return strings.Join(*h, ", ")
}

func (h *headerFlags) Set(value string) error {
	*h = append(*h, value)
	return nil
}

func main() {
	var (
		method  = flag.String("method", http.MethodGet, "HTTP method")
		rawURL  = flag.String("url", "", "request URL including query (required)")
		service = flag.String("service", "", "service name, e.g. s3 or iam (required)")
		region  = flag.String("region", "", "region; falls back to "+envRegion)
		payload = flag.String("payload", "", "literal request payload")
		presign = flag.Bool("presign", false, "produce a presigned URL instead of an Authorization header")
		expires = flag.Duration("expires", 15*time.Minute, "presigned URL validity")
		headers headerFlags
	)
	flag.Var(&headers, "header", "request header as 'Name: value'; repeatable")
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatal().Err(err).Str("log_level", cfg.LogLevel).Msg("invalid log level")
	}
	log.Logger = log.Level(level)

	if *rawURL == "" || *service == "" {
		flag.Usage()
		os.Exit(2)
	}

	signingRegion := *region
	if signingRegion == "" {
		signingRegion = cfg.Region
	}
	if signingRegion == "" {
		log.Fatal().Msg("no region: pass -region or set " + envRegion)
	}

	req, err := http.NewRequest(*method, *rawURL, strings.NewReader(*payload))
	if err != nil {
		log.Fatal().Err(err).Str("url", *rawURL).Msg("invalid request")
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			log.Fatal().Str("header", h).Msg("headers must look like 'Name: value'")
		}
		req.Header.Add(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	signer := awsign.NewSigner(awsign.StaticCredentials(cfg.Credentials), signingRegion, *service)

	log.Debug().
		Str("method", *method).
		Str("url", *rawURL).
		Str("region", signingRegion).
		Str("service", *service).
		Msg("signing request")

	if *presign {
		payloadHash := awsign.UnsignedPayload
		if *payload != "" {
			payloadHash = awsign.DefaultConfig.HashPayload([]byte(*payload))
		}

		signedURL, signedHeaders, err := signer.Presign(context.Background(), req, payloadHash, *expires)
		if err != nil {
			log.Fatal().Err(err).Msg("presigning failed")
		}

		fmt.Println(signedURL.String())
		for name, values := range signedHeaders {
			log.Debug().Strs(name, values).Msg("required header")
		}
		return
	}

	if err := signer.Sign(context.Background(), req, awsign.DefaultConfig.HashPayload([]byte(*payload))); err != nil {
		log.Fatal().Err(err).Msg("signing failed")
	}

	fmt.Println("X-Amz-Date: " + req.Header.Get("X-Amz-Date"))
	if token := req.Header.Get("X-Amz-Security-Token"); token != "" {
		fmt.Println("X-Amz-Security-Token: " + token)
	}
	fmt.Println("Authorization: " + req.Header.Get("Authorization"))
}
