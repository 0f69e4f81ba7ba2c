package graph

import (
	"context"
	"sync"
)

// MemoryClient is a scripted Client used to unit test cypher repositories
// without a running graph database. Results are handed out in the order they
// were pushed; every executed statement is recorded.
type MemoryClient struct {
	mu           sync.Mutex
	reads        []Statement
	writes       [][]Statement
	readResults  []Result
	writeResults [][]Result
	err          error
	connectivity error
}

// NewMemoryClient instantiates an empty scripted client.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{}
}

// WithError makes every subsequent Read and Write fail with err.
func (m *MemoryClient) WithError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
	return m
}

// WithConnectivityError forces VerifyConnectivity to return the supplied error.
func (m *MemoryClient) WithConnectivityError(err error) *MemoryClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connectivity = err
	return m
}

// PushReadResult queues the result of the next Read call.
func (m *MemoryClient) PushReadResult(res Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readResults = append(m.readResults, res)
}

// PushWriteResults queues the per-statement results of the next Write call.
func (m *MemoryClient) PushWriteResults(res ...Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeResults = append(m.writeResults, res)
}

func (m *MemoryClient) Read(_ context.Context, stmt Statement) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return Result{}, m.err
	}
	m.reads = append(m.reads, cloneStatement(stmt))

	if len(m.readResults) == 0 {
		return Result{}, nil
	}
	res := m.readResults[0]
	m.readResults = m.readResults[1:]
	return res, nil
}

func (m *MemoryClient) Write(_ context.Context, stmts ...Statement) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	batch := make([]Statement, 0, len(stmts))
	for _, stmt := range stmts {
		batch = append(batch, cloneStatement(stmt))
	}
	m.writes = append(m.writes, batch)

	results := make([]Result, len(stmts))
	if len(m.writeResults) > 0 {
		copy(results, m.writeResults[0])
		m.writeResults = m.writeResults[1:]
	}
	return results, nil
}

func (m *MemoryClient) VerifyConnectivity(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connectivity
}

func (m *MemoryClient) Close(context.Context) error {
	return nil
}

// Writes returns a snapshot of executed write transactions, one slice of
// statements per transaction.
func (m *MemoryClient) Writes() [][]Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]Statement(nil), m.writes...)
}

// Reads returns a snapshot of executed read statements.
func (m *MemoryClient) Reads() []Statement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Statement(nil), m.reads...)
}

func cloneStatement(stmt Statement) Statement {
	if stmt.Params == nil {
		return stmt
	}
	params := make(map[string]any, len(stmt.Params))
	for k, v := range stmt.Params {
		params[k] = v
	}
	return Statement{Cypher: stmt.Cypher, Params: params}
}
