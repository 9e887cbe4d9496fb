// Package config resolves process configuration once at startup. The
// resulting Settings value is passed into component constructors; nothing in
// this repo reads the environment or builds AWS clients lazily.
package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

// Settings holds resolved configuration and the shared AWS config.
type Settings struct {
	AWSConfig         aws.Config
	SQSQueueURL       string
	DynamoDBTableName string

	// Worker tuning.
	WorkerConcurrency    int
	ItemTimeout          time.Duration
	DecodeFailurePolicy  string
	SimulatedLoadPerChar time.Duration

	// Dev server.
	ListenAddr string
}

// Load reads environment variables and the default AWS configuration.
func Load(ctx context.Context) (Settings, error) {
	s, err := fromEnv()
	if err != nil {
		return Settings{}, err
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("load AWS config: %w", err)
	}
	s.AWSConfig = awsCfg
	return s, nil
}

func fromEnv() (Settings, error) {
	s := Settings{
		WorkerConcurrency:   4,
		ItemTimeout:         30 * time.Second,
		DecodeFailurePolicy: "retry",
		ListenAddr:          ":8080",
	}

	s.SQSQueueURL = os.Getenv("SQS_QUEUE_URL")
	if s.SQSQueueURL == "" {
		return Settings{}, fmt.Errorf("missing SQS_QUEUE_URL")
	}

	s.DynamoDBTableName = os.Getenv("DYNAMODB_TABLE_NAME")
	if s.DynamoDBTableName == "" {
		return Settings{}, fmt.Errorf("missing DYNAMODB_TABLE_NAME")
	}

	if v := os.Getenv("WORKER_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return Settings{}, fmt.Errorf("invalid WORKER_CONCURRENCY %q", v)
		}
		s.WorkerConcurrency = n
	}

	if v := os.Getenv("ITEM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Settings{}, fmt.Errorf("invalid ITEM_TIMEOUT %q", v)
		}
		s.ItemTimeout = d
	}

	if v := os.Getenv("DECODE_FAILURE_POLICY"); v != "" {
		if v != "retry" && v != "drop" {
			return Settings{}, fmt.Errorf("invalid DECODE_FAILURE_POLICY %q (want retry or drop)", v)
		}
		s.DecodeFailurePolicy = v
	}

	if v := os.Getenv("SIMULATED_LOAD_PER_CHAR"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Settings{}, fmt.Errorf("invalid SIMULATED_LOAD_PER_CHAR %q", v)
		}
		s.SimulatedLoadPerChar = d
	}

	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		s.ListenAddr = v
	}

	return s, nil
}
