/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/suparena/contenttemplate/datastore"
	"github.com/suparena/contenttemplate/registry"
)

// BackendKind is the backend registry kind of the DynamoDB provider
const BackendKind = "dynamodb"

func init() {
	registry.RegisterBackend(BackendKind, func(ctx context.Context, spec registry.BackendSpec, logger *slog.Logger) (datastore.Provider, error) {
		client, err := NewDynamoDBClient(ctx, spec.AccessKey, spec.SecretKey, spec.Region, spec.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
		}
		if logger != nil {
			logger.Debug("DynamoDB client initialized", "authority", spec.Authority, "region", spec.Region)
		}
		return New(client, WithKeyAttribute(spec.KeyColumn), WithLogger(logger))
	})
}

// API is the subset of the DynamoDB client the Store uses.
type API interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *sdk.UpdateItemInput, optFns ...func(*sdk.Options)) (*sdk.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Scan(ctx context.Context, params *sdk.ScanInput, optFns ...func(*sdk.Options)) (*sdk.ScanOutput, error)
}

var _ API = (*sdk.Client)(nil)

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are
// used when an access key is given, the default credential chain
// otherwise. A non-empty endpoint overrides the service endpoint, e.g.
// for DynamoDB Local.
func NewDynamoDBClient(ctx context.Context, awsAccessKey, awsSecretKey, awsRegion, endpoint string) (*sdk.Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(awsRegion),
	}
	if awsAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsAccessKey, awsSecretKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	}), nil
}
