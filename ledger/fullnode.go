// SPDX-License-Identifier: Apache-2.0

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"perun.network/go-perun/log"

	"perun.network/perun-chia-backend/clvm"
)

// FullNode is a client for the RPC interface of a full node.
type FullNode struct {
	log.Embedding

	url    string
	client *http.Client
}

// NewFullNode creates a client authenticating with the certificates of cfg.
func NewFullNode(cfg NodeConfig) (*FullNode, error) {
	tlsConfig, err := cfg.TLSConfig()
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Transport: &http.Transport{TLSClientConfig: tlsConfig},
	}
	return NewFullNodeWithClient(cfg.URL(), client), nil
}

// NewFullNodeWithClient creates a client sending requests to baseURL with
// client.
func NewFullNodeWithClient(baseURL string, client *http.Client) *FullNode {
	return &FullNode{
		Embedding: log.MakeEmbedding(log.Default()),
		url:       strings.TrimSuffix(baseURL, "/"),
		client:    client,
	}
}

type response struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (r *response) status() *response { return r }

type envelope interface {
	status() *response
}

type coinRecordsResponse struct {
	response
	CoinRecords []CoinRecord `json:"coin_records"`
}

type coinRecordResponse struct {
	response
	CoinRecord *CoinRecord `json:"coin_record"`
}

type coinRecordsRequest struct {
	PuzzleHash   *clvm.Bytes32  `json:"puzzle_hash,omitempty"`
	PuzzleHashes []clvm.Bytes32 `json:"puzzle_hashes,omitempty"`
	StartHeight  *uint32        `json:"start_height,omitempty"`
	EndHeight    *uint32        `json:"end_height,omitempty"`
	IncludeSpent bool           `json:"include_spent_coins"`
}

// GetCoinRecordsByPuzzleHash returns the coins locked by puzzleHash.
func (n *FullNode) GetCoinRecordsByPuzzleHash(ctx context.Context, puzzleHash clvm.Bytes32, q CoinRecordQuery) ([]CoinRecord, error) {
	req := coinRecordsRequest{
		PuzzleHash:   &puzzleHash,
		StartHeight:  q.StartHeight,
		EndHeight:    q.EndHeight,
		IncludeSpent: q.IncludeSpent,
	}
	var resp coinRecordsResponse
	if err := n.call(ctx, "get_coin_records_by_puzzle_hash", req, &resp); err != nil {
		return nil, err
	}
	return resp.CoinRecords, nil
}

// GetCoinRecordsByPuzzleHashes returns the coins locked by any of
// puzzleHashes.
func (n *FullNode) GetCoinRecordsByPuzzleHashes(ctx context.Context, puzzleHashes []clvm.Bytes32, q CoinRecordQuery) ([]CoinRecord, error) {
	req := coinRecordsRequest{
		PuzzleHashes: puzzleHashes,
		StartHeight:  q.StartHeight,
		EndHeight:    q.EndHeight,
		IncludeSpent: q.IncludeSpent,
	}
	var resp coinRecordsResponse
	if err := n.call(ctx, "get_coin_records_by_puzzle_hashes", req, &resp); err != nil {
		return nil, err
	}
	return resp.CoinRecords, nil
}

// GetCoinRecordByName returns the coin with the given id.
func (n *FullNode) GetCoinRecordByName(ctx context.Context, name clvm.Bytes32) (*CoinRecord, error) {
	req := struct {
		Name clvm.Bytes32 `json:"name"`
	}{name}
	var resp coinRecordResponse
	if err := n.call(ctx, "get_coin_record_by_name", req, &resp); err != nil {
		return nil, err
	}
	if resp.CoinRecord == nil {
		return nil, transportError(fmt.Sprintf("get_coin_record_by_name: no record for %v", name), nil)
	}
	return resp.CoinRecord, nil
}

// call posts body to endpoint and decodes the reply into out. Replies with
// success false are turned into errors.
func (n *FullNode) call(ctx context.Context, endpoint string, body interface{}, out envelope) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.WithMessagef(err, "encoding %s request", endpoint)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return transportError(endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	n.Log().WithField("endpoint", endpoint).Trace("Sending full node request")
	resp, err := n.client.Do(req)
	if err != nil {
		return transportError(endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(endpoint, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return transportError(fmt.Sprintf("%s: status %s", endpoint, resp.Status), nil)
		}
		return transportError(endpoint, err)
	}
	if st := out.status(); !st.Success {
		n.Log().WithField("endpoint", endpoint).Warnf("Full node rejected request: %s", st.Error)
		return transportError(fmt.Sprintf("%s: %s", endpoint, st.Error), nil)
	}
	return nil
}

// nodeError matches ErrTransport and unwraps to its cause.
type nodeError struct {
	msg   string
	cause error
}

func transportError(msg string, cause error) error {
	return &nodeError{msg: msg, cause: cause}
}

func (e *nodeError) Error() string {
	if e.cause == nil {
		return ErrTransport.Error() + ": " + e.msg
	}
	return ErrTransport.Error() + ": " + e.msg + ": " + e.cause.Error()
}

func (e *nodeError) Is(target error) bool {
	return target == ErrTransport
}

func (e *nodeError) Unwrap() error {
	return e.cause
}
