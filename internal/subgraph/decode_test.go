package subgraph

import (
	"math/big"
	"testing"
)

func TestDecodeResponseMissingCollections(t *testing.T) {
	result, err := DecodeResponse([]byte(`{"data":{}}`), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.PoolSnapshots) != 0 {
		t.Fatalf("missing poolSnapshots should decode empty")
	}
	if len(result.SupplyCollateralEvents) != 0 || len(result.WithdrawCollateralEvents) != 0 {
		t.Fatalf("missing event collections should decode empty")
	}
}

func TestDecodeResponseParsesBigInts(t *testing.T) {
	payload := []byte(`{
		"data": {
			"poolSnapshots": {"items": [{
				"id": "snap-1",
				"lendingPool": "0x1111111111111111111111111111111111111111",
				"router": "0x2222222222222222222222222222222222222222",
				"timestamp": "1700000000",
				"blockNumber": "123456",
				"totalSupplyAssets": "12345678901234567890123456789",
				"totalBorrowAssets": "1000000000000000000",
				"totalCollateral": "0",
				"availableLiquidity": "",
				"supplyAPR": "50000000000000000",
				"borrowRate": "70000000000000000",
				"utilization": "800000000000000000"
			}]},
			"supplyCollateralEvents": {"items": [{
				"amount": "5000000000000000000",
				"lendingPool": "0x1111111111111111111111111111111111111111",
				"timestamp": "1700000100",
				"user": "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
			}]}
		}
	}`)

	result, err := DecodeResponse(payload, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.PoolSnapshots) != 1 {
		t.Fatalf("expected one snapshot, got %d", len(result.PoolSnapshots))
	}
	snapshot := result.PoolSnapshots[0]
	if snapshot.Timestamp != 1700000000 || snapshot.BlockNumber != 123456 {
		t.Fatalf("snapshot header mismatch: %+v", snapshot)
	}

	want, _ := new(big.Int).SetString("12345678901234567890123456789", 10)
	if snapshot.TotalSupplyAssets.Cmp(want) != 0 {
		t.Fatalf("totalSupplyAssets mismatch: %s", snapshot.TotalSupplyAssets.String())
	}
	// Empty strings decode to zero, not an error.
	if snapshot.AvailableLiquidity.Sign() != 0 {
		t.Fatalf("empty availableLiquidity should be zero")
	}

	if len(result.SupplyCollateralEvents) != 1 {
		t.Fatalf("expected one supply event, got %d", len(result.SupplyCollateralEvents))
	}
	event := result.SupplyCollateralEvents[0]
	if event.Amount.Cmp(big.NewInt(5000000000000000000)) != 0 {
		t.Fatalf("event amount mismatch: %s", event.Amount.String())
	}
}

func TestDecodeResponseDropsBadItems(t *testing.T) {
	payload := []byte(`{
		"data": {
			"poolSnapshots": {"items": [
				{"id": "bad", "timestamp": "1", "blockNumber": "1", "totalSupplyAssets": "not-a-number"},
				{"id": "good", "timestamp": "2", "blockNumber": "2"}
			]}
		}
	}`)

	result, err := DecodeResponse(payload, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.PoolSnapshots) != 1 || result.PoolSnapshots[0].ID != "good" {
		t.Fatalf("bad item should be dropped, keeping the rest: %+v", result.PoolSnapshots)
	}
}

func TestDecodeResponseQueryError(t *testing.T) {
	payload := []byte(`{"errors":[{"message":"no such field"}]}`)
	if _, err := DecodeResponse(payload, nil); err == nil {
		t.Fatalf("GraphQL error should fail the cycle")
	}
}

func TestDecodeResponseMalformed(t *testing.T) {
	if _, err := DecodeResponse([]byte(`{`), nil); err == nil {
		t.Fatalf("malformed JSON should fail")
	}
}
