package ledger

import (
	"fmt"
	"net/http"
	"time"
)

// BlockRef pins ledger reads to a block. The empty value means "latest".
type BlockRef string

// BlockLatest reads against the most recent accepted block.
const BlockLatest BlockRef = "latest"

// Identity is the signing account used for system executions.
type Identity struct {
	Address FieldValue
	Secret  FieldValue
}

// Env bundles everything a worker needs to reach the ledger: the RPC client,
// the signing identity, the world contract address, and the block reference.
// It is immutable after construction and shared by reference across all
// workers; no synchronization is required to read it.
type Env struct {
	client  *Client
	account Identity
	world   FieldValue
	block   BlockRef
}

// EnvConfig carries the constructor inputs for an Env.
type EnvConfig struct {
	Endpoint     string
	Account      Identity
	WorldAddress FieldValue
	Block        BlockRef
	HTTPClient   *http.Client
	Timeout      time.Duration
}

// NewEnv validates the endpoint and builds an immutable environment.
func NewEnv(cfg EnvConfig) (*Env, error) {
	client, err := NewClient(cfg.Endpoint, cfg.HTTPClient, cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("ledger env: %w", err)
	}
	block := cfg.Block
	if block == "" {
		block = BlockLatest
	}
	if cfg.WorldAddress.IsZero() {
		return nil, fmt.Errorf("ledger env: world address is zero")
	}
	return &Env{
		client:  client,
		account: cfg.Account,
		world:   cfg.WorldAddress,
		block:   block,
	}, nil
}

// World returns a handle on the world contract this environment points at.
func (e *Env) World() *World {
	return &World{env: e}
}

// Block reports the block reference all calls are pinned to.
func (e *Env) Block() BlockRef {
	return e.block
}
