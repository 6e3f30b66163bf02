/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"iter"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/objectstore/datastore"
	"github.com/suparena/objectstore/errors"
)

// Query reads the collection named by q.Key, one partition, page by page and
// evaluates q's filters, orders and limits over the decoded values. Items come
// back in sort key order before q's own ordering applies.
func (d *Store) Query(ctx context.Context, q *datastore.Query) (iter.Seq2[any, error], error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q.Apply(d.partition(ctx, q.Key.String())), nil
}

// partition yields every item whose PK equals path.
func (d *Store) partition(ctx context.Context, path string) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		keyCond := AttrPK + " = :pk"
		input := &sdk.QueryInput{
			TableName:              &d.tableName,
			KeyConditionExpression: &keyCond,
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":pk": &types.AttributeValueMemberS{Value: path},
			},
			Limit: aws.Int32(d.opts.PageSize),
		}

		progress := Progress{Path: path, StartTime: time.Now()}
		report := func(done bool) {
			if d.opts.ProgressHandler == nil {
				return
			}
			progress.Done = done
			if elapsed := time.Since(progress.StartTime).Seconds(); elapsed > 0 {
				progress.CurrentRate = float64(progress.ItemsProcessed) / elapsed
			}
			d.opts.ProgressHandler(progress)
		}

		for {
			out, err := d.queryWithRetry(ctx, input)
			if err != nil {
				yield(nil, err)
				return
			}
			progress.PagesProcessed++

			for _, item := range out.Items {
				progress.ItemsProcessed++
				v, err := decodeItem(item)
				if !yield(v, err) || err != nil {
					return
				}
			}
			d.opts.Logger.Debugw("read query page",
				"path", path, "page", progress.PagesProcessed, "items", len(out.Items))

			if len(out.LastEvaluatedKey) == 0 {
				break
			}
			report(false)
			input.ExclusiveStartKey = out.LastEvaluatedKey
		}
		report(true)
	}
}

// queryWithRetry executes a query page, retrying throttling and transient
// errors with a linear backoff.
func (d *Store) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= d.opts.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !isRetryableError(err) {
			return nil, errors.Wrapf(err, "query %s", d.tableName)
		}

		// Don't sleep after last attempt
		if attempt < d.opts.MaxRetries {
			backoff := time.Duration(attempt+1) * d.opts.RetryBackoff
			d.opts.Logger.Debugw("retrying query", "attempt", attempt+1, "backoff", backoff, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, errors.Wrapf(lastErr, "query failed after %d retries", d.opts.MaxRetries)
}

// isRetryableError determines if a DynamoDB error is retryable
func isRetryableError(err error) bool {
	var throughput *types.ProvisionedThroughputExceededException
	var limit *types.RequestLimitExceeded
	var internal *types.InternalServerError
	if errors.As(err, &throughput) || errors.As(err, &limit) || errors.As(err, &internal) {
		return true
	}

	var retryable interface{ IsRetryable() bool }
	if errors.As(err, &retryable) {
		return retryable.IsRetryable()
	}
	return false
}
