/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"time"

	"go.uber.org/zap"
)

// Options configures paging and retries of a Store.
type Options struct {
	MaxRetries      int            // Retry attempts for throttled or transient errors (default: 3)
	RetryBackoff    time.Duration  // Backoff step between retries (default: 1s)
	PageSize        int32          // Items per DynamoDB Query page (default: 100)
	ProgressHandler func(Progress) // Optional callback after each query page
	Logger          *zap.SugaredLogger
}

// Progress reports how far a collection query has got.
type Progress struct {
	Path           string    // Collection path being read
	ItemsProcessed int64     // Total items read so far
	PagesProcessed int       // Total pages read so far
	StartTime      time.Time // When the query started
	CurrentRate    float64   // Items per second
	Done           bool      // Set on the final report
}

// Option is a functional option for configuring a Store
type Option func(*Options)

// DefaultOptions returns default store options
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		RetryBackoff: time.Second,
		PageSize:     100,
		Logger:       zap.NewNop().Sugar(),
	}
}

// WithMaxRetries sets the maximum retry attempts
func WithMaxRetries(retries int) Option {
	return func(opts *Options) {
		opts.MaxRetries = retries
	}
}

// WithRetryBackoff sets the retry backoff duration
func WithRetryBackoff(backoff time.Duration) Option {
	return func(opts *Options) {
		opts.RetryBackoff = backoff
	}
}

// WithPageSize sets the DynamoDB page size
func WithPageSize(size int32) Option {
	return func(opts *Options) {
		opts.PageSize = size
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(Progress)) Option {
	return func(opts *Options) {
		opts.ProgressHandler = handler
	}
}

// WithLogger sets the store's logger. A nil logger is ignored.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(opts *Options) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}
