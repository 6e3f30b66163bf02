/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"context"

	"go.uber.org/zap"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/datastore/ddb"
	"github.com/suparena/objectstore/datastore/mock"
	"github.com/suparena/objectstore/datastore/sqlstore"
	"github.com/suparena/objectstore/errors"
)

// OpenStore opens the configured backend. The returned close function
// releases it and is never nil.
func (c *Config) OpenStore(ctx context.Context, logger *zap.SugaredLogger) (datastore.Store, func() error, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	noop := func() error { return nil }

	switch c.Backend {
	case BackendMemory:
		return mock.New(), noop, nil

	case BackendSQLite:
		s, err := sqlstore.Open(ctx, c.SQLite.Path, logger)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case BackendDynamoDB:
		client, err := ddb.NewClient(ctx, ddb.ClientConfig{
			Region:    c.DynamoDB.Region,
			AccessKey: c.DynamoDB.AccessKey,
			SecretKey: c.DynamoDB.SecretKey,
			Endpoint:  c.DynamoDB.Endpoint,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Infow("using dynamodb store", "table", c.DynamoDB.Table, "region", c.DynamoDB.Region)
		return ddb.New(client, c.DynamoDB.Table,
			ddb.WithLogger(logger),
			ddb.WithPageSize(c.DynamoDB.PageSize),
			ddb.WithMaxRetries(c.DynamoDB.MaxRetries),
		), noop, nil
	}
	return nil, noop, errors.NewValidationError("backend", "unknown backend "+c.Backend)
}
