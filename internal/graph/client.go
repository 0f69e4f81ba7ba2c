package graph

import (
	"context"
	"errors"
)

// Client is the minimal contract the cypher-backed repository needs from a
// graph database.
type Client interface {
	// Read runs one statement in a read transaction.
	Read(ctx context.Context, stmt Statement) (Result, error)
	// Write runs every statement, in order, inside a single write
	// transaction. Either all of them commit or none do.
	Write(ctx context.Context, stmts ...Statement) ([]Result, error)
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Statement is a cypher query with its parameters.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")
