/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
)

// Item attribute names.
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrEntityType = "EntityType"
	AttrData       = "Data"
)

// Client is the subset of the DynamoDB API the store uses. *dynamodb.Client
// satisfies it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	PutItem(ctx context.Context, params *sdk.PutItemInput, optFns ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *sdk.DeleteItemInput, optFns ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
}

// ClientConfig holds the connection settings for NewClient. Empty credentials
// fall back to the default AWS credential chain.
type ClientConfig struct {
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint overrides the service endpoint, e.g. for DynamoDB Local.
	Endpoint string
}

// NewClient initializes a DynamoDB client.
func NewClient(ctx context.Context, cfg ClientConfig) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load AWS configuration")
	}

	return sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	}), nil
}

// Store implements datastore.Store on a single DynamoDB table. Every value
// is one item: PK holds the key's collection path, SK the full key and Data
// the value itself. EntityType carries the key type for readers that scan
// the table directly.
type Store struct {
	client    Client
	tableName string
	opts      Options
}

// New constructs a Store over tableName.
func New(client Client, tableName string, opts ...Option) *Store {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Store{
		client:    client,
		tableName: tableName,
		opts:      options,
	}
}

// TableName returns the backing table.
func (d *Store) TableName() string { return d.tableName }

func itemKey(key datastore.Key) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: key.Path().String()},
		AttrSK: &types.AttributeValueMemberS{Value: key.String()},
	}
}

// Get retrieves the value under key, or nil when there is none.
func (d *Store) Get(ctx context.Context, key datastore.Key) (any, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName: &d.tableName,
		Key:       itemKey(key),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "GetItem %s", key)
	}
	if out.Item == nil {
		return nil, nil
	}
	return decodeItem(out.Item)
}

// Put stores value under key, replacing any previous item.
func (d *Store) Put(ctx context.Context, key datastore.Key, value any) error {
	data, err := attributevalue.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal value for %s", key)
	}

	item := itemKey(key)
	item[AttrEntityType] = &types.AttributeValueMemberS{Value: key.Type()}
	item[AttrData] = data

	_, err = d.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: &d.tableName,
		Item:      item,
	})
	if err != nil {
		return errors.Wrapf(err, "PutItem %s", key)
	}
	return nil
}

// Delete removes the item under key. A missing item is not an error.
func (d *Store) Delete(ctx context.Context, key datastore.Key) error {
	_, err := d.client.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName: &d.tableName,
		Key:       itemKey(key),
	})
	if err != nil {
		return errors.Wrapf(err, "DeleteItem %s", key)
	}
	return nil
}

// Contains reports whether an item exists under key.
func (d *Store) Contains(ctx context.Context, key datastore.Key) (bool, error) {
	out, err := d.client.GetItem(ctx, &sdk.GetItemInput{
		TableName:            &d.tableName,
		Key:                  itemKey(key),
		ProjectionExpression: aws.String(AttrSK),
	})
	if err != nil {
		return false, errors.Wrapf(err, "GetItem %s", key)
	}
	return out.Item != nil, nil
}

// decodeItem returns the Data attribute of item. Numbers come back as int64
// when integral and float64 otherwise, matching the other backends.
func decodeItem(item map[string]types.AttributeValue) (any, error) {
	data, ok := item[AttrData]
	if !ok {
		return nil, errors.Newf("item %v has no %s attribute", item[AttrSK], AttrData)
	}
	var v any
	err := attributevalue.UnmarshalWithOptions(data, &v, func(o *attributevalue.DecoderOptions) {
		o.UseNumber = true
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal item data")
	}
	return normalizeNumbers(v), nil
}

func normalizeNumbers(v any) any {
	switch tv := v.(type) {
	case attributevalue.Number:
		if i, err := tv.Int64(); err == nil {
			return i
		}
		f, _ := tv.Float64()
		return f
	case map[string]any:
		for k, e := range tv {
			tv[k] = normalizeNumbers(e)
		}
		return tv
	case []any:
		for i, e := range tv {
			tv[i] = normalizeNumbers(e)
		}
		return tv
	}
	return v
}
