package config

import (
	tlspkg "github.com/instock-app/instock-server/pkg/tls"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port               string `envconfig:"PORT" default:"8080"`
	AWSRegion          string `envconfig:"AWS_REGION" default:"eu-west-2"`
	ItemTableName      string `envconfig:"ITEM_TABLE_NAME" default:"Items"`
	MilestoneTableName string `envconfig:"MILESTONE_TABLE_NAME" default:"Milestones"`
	ImageBucketName    string `envconfig:"IMAGE_BUCKET_NAME" default:"instock-item-images"`
	KafkaBrokers       string `envconfig:"KAFKA_BROKERS" default:""`
	LogLevel           string `envconfig:"LOG_LEVEL" default:"info"`
	LocalMode          bool   `envconfig:"LOCAL_MODE" default:"true"` // run against local endpoints, no AWS account
	DynamoEndpoint     string `envconfig:"DYNAMO_ENDPOINT" default:"http://localhost:8000"`
	S3Endpoint         string `envconfig:"S3_ENDPOINT" default:"http://localhost:9000"`

	TLS tlspkg.TLSConfig
}

func Load() (*Config, error) {
	// A .env file is optional; real environments set variables directly.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
