/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/objectstore/errors"
)

// Environment variables read by ApplyEnv.
const (
	EnvBackend     = "OBJECTSTORE_BACKEND"
	EnvSQLitePath  = "OBJECTSTORE_SQLITE_PATH"
	EnvDDBTable    = "OBJECTSTORE_DDB_TABLE"
	EnvDDBEndpoint = "OBJECTSTORE_DDB_ENDPOINT"
	EnvAWSRegion   = "AWS_REGION"
	EnvAWSAccess   = "AWS_ACCESS_KEY"
	EnvAWSSecret   = "AWS_SECRET_KEY"
)

// LoadEnv loads variables from the given dotenv files into the process
// environment without overriding what is already set. With no files it
// loads ./.env when present.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		files = []string{".env"}
	}
	if err := godotenv.Load(files...); err != nil {
		return errors.Wrap(err, "failed to load env files")
	}
	return nil
}

// ApplyEnv overrides settings from the environment and fills the DynamoDB
// credentials. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	set := func(dst *string, name string) {
		if v := getenv(name); v != "" {
			*dst = v
		}
	}
	set(&c.Backend, EnvBackend)
	set(&c.SQLite.Path, EnvSQLitePath)
	set(&c.DynamoDB.Table, EnvDDBTable)
	set(&c.DynamoDB.Endpoint, EnvDDBEndpoint)
	set(&c.DynamoDB.Region, EnvAWSRegion)
	set(&c.DynamoDB.AccessKey, EnvAWSAccess)
	set(&c.DynamoDB.SecretKey, EnvAWSSecret)
	return c.Validate()
}
