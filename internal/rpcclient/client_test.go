package rpcclient

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	klog "github.com/Klingon-tech/klingnet-masp/internal/log"
	"github.com/Klingon-tech/klingnet-masp/internal/notes"
	"github.com/Klingon-tech/klingnet-masp/internal/registry"
	"github.com/Klingon-tech/klingnet-masp/internal/rpc"
	"github.com/Klingon-tech/klingnet-masp/internal/storage"
	"github.com/shopspring/decimal"
)

const namAddr = "tnam1qxvg64psvhwumv3mwrrjfcz0h3t3274hwggyzcee"

type testEnv struct {
	client *Client
	notes  *notes.Store
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	klog.Init("error", false, "")

	reg := registry.New([]registry.Partition{{
		Name: registry.PartitionIBC,
		Chains: []*registry.Chain{{
			Name: "osmosis",
			ID:   "osmosis-1",
			APIs: map[string][]registry.Endpoint{"rpc": {{Address: "https://rpc.osmosis.zone"}}},
		}},
	}}, nil)

	noteStore := notes.NewStore(storage.NewMemory())

	// Create and start RPC server on random port.
	srv := rpc.New("127.0.0.1:0", noteStore, registry.NewLive(reg))
	if err := srv.Start(); err != nil {
		t.Fatalf("start rpc: %v", err)
	}
	t.Cleanup(func() { srv.Stop() })

	url := "http://" + srv.Addr() + "/"
	return &testEnv{
		client: New(url),
		notes:  noteStore,
	}
}

func TestClient_GetChainByName(t *testing.T) {
	env := setupTestEnv(t)

	var chain registry.Chain
	if err := env.client.Call("registry_getChainByName", rpc.NameParam{Name: "osmosis"}, &chain); err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if chain.ID != "osmosis-1" {
		t.Errorf("chain_id = %q, want %q", chain.ID, "osmosis-1")
	}
}

func TestClient_Select(t *testing.T) {
	env := setupTestEnv(t)
	if _, err := env.notes.Put("znam1alice", []notes.Note{
		notes.NewNote(namAddr, 9),
		notes.NewNote(namAddr, 4),
	}); err != nil {
		t.Fatal(err)
	}

	fee := decimal.NewFromInt(3)
	var res rpc.SelectResult
	err := env.client.Call("notes_select", rpc.SelectParam{Account: "znam1alice", Asset: namAddr, Fee: &fee}, &res)
	if err != nil {
		t.Fatalf("Call error: %v", err)
	}
	if !res.AvailableToSpend.Equal(decimal.NewFromInt(10)) {
		t.Errorf("available = %s, want 10", res.AvailableToSpend)
	}
}

func TestClient_RawResult(t *testing.T) {
	env := setupTestEnv(t)

	var raw json.RawMessage
	if err := env.client.Call("registry_digest", nil, &raw); err != nil {
		t.Fatalf("Call error: %v", err)
	}
	var d rpc.DigestResult
	if err := json.Unmarshal(raw, &d); err != nil {
		t.Fatalf("unmarshal digest: %v", err)
	}
	if len(d.Digest) != 64 {
		t.Errorf("digest = %q", d.Digest)
	}
}

func TestClient_NotFound(t *testing.T) {
	env := setupTestEnv(t)

	var chain registry.Chain
	err := env.client.Call("registry_getChainByName", rpc.NameParam{Name: "atlantis"}, &chain)
	if err == nil {
		t.Fatal("expected error for unknown chain")
	}

	rpcErr, ok := err.(*RPCError)
	if !ok {
		t.Fatalf("expected RPCError, got %T: %v", err, err)
	}
	if rpcErr.Code != rpc.CodeNotFound {
		t.Errorf("error code = %d, want %d", rpcErr.Code, rpc.CodeNotFound)
	}
	if !IsCode(err, rpc.CodeNotFound) {
		t.Error("IsCode should match")
	}
}

func TestClient_CallContext_Canceled(t *testing.T) {
	env := setupTestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := env.client.CallContext(ctx, "registry_digest", nil, nil); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestClient_Call_InvalidEndpoint(t *testing.T) {
	client := NewWithTimeout("http://127.0.0.1:1/", time.Second) // nothing listens on port 1

	err := client.Call("registry_digest", nil, nil)
	if err == nil {
		t.Fatal("expected connection error")
	}
}
