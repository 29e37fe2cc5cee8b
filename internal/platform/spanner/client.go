// Package spanner is the Cloud Spanner storage backend: client setup and
// the transaction scopes whose transactions travel in the context.
package spanner

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
)

// Config names the database the bookstore tables live in.
type Config struct {
	ProjectID  string
	InstanceID string
	DatabaseID string
}

// Validate rejects a config with an empty path segment.
func (c Config) Validate() error {
	switch {
	case c.ProjectID == "":
		return errors.New("spanner: project id is required")
	case c.InstanceID == "":
		return errors.New("spanner: instance id is required")
	case c.DatabaseID == "":
		return errors.New("spanner: database id is required")
	}
	return nil
}

// DSN returns the fully qualified database name.
func (c Config) DSN() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s",
		c.ProjectID, c.InstanceID, c.DatabaseID)
}

// NewClient connects to the database. With SPANNER_EMULATOR_HOST set the
// library talks to the emulator without credentials. The caller closes the
// client.
func NewClient(ctx context.Context, cfg Config) (*spanner.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := spanner.NewClientWithConfig(ctx, cfg.DSN(), spanner.ClientConfig{
		SessionPoolConfig: spanner.DefaultSessionPoolConfig,
	})
	if err != nil {
		return nil, fmt.Errorf("spanner: connect %s: %w", cfg.DSN(), err)
	}
	return client, nil
}
