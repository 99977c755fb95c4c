package series

import (
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"positionScope/internal/model"
)

// IndexSnapshots groups raw snapshots by the pools the user holds. Each
// snapshot is matched against the ratio key set by its router id first,
// then by its lending pool id; snapshots for pools the user does not hold
// are dropped. Each group ends up stably sorted ascending by timestamp.
func IndexSnapshots(snapshots []model.PoolSnapshot, ratios map[common.Address]*PoolRatio) map[common.Address][]model.PoolSnapshot {
	grouped := make(map[common.Address][]model.PoolSnapshot)

	for _, snapshot := range snapshots {
		key, ok := matchPool(snapshot, ratios)
		if !ok {
			continue
		}
		grouped[key] = append(grouped[key], snapshot)
	}

	for key := range grouped {
		group := grouped[key]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Timestamp < group[j].Timestamp
		})
	}

	return grouped
}

func matchPool(snapshot model.PoolSnapshot, ratios map[common.Address]*PoolRatio) (common.Address, bool) {
	if common.IsHexAddress(snapshot.Router) {
		key := common.HexToAddress(snapshot.Router)
		if _, ok := ratios[key]; ok {
			return key, true
		}
	}
	if common.IsHexAddress(snapshot.LendingPool) {
		key := common.HexToAddress(snapshot.LendingPool)
		if _, ok := ratios[key]; ok {
			return key, true
		}
	}
	return common.Address{}, false
}

// BuildTimeline merges all matched pools' snapshot timestamps into one
// ascending, de-duplicated axis. No matched snapshots means an empty axis.
func BuildTimeline(grouped map[common.Address][]model.PoolSnapshot) []uint64 {
	seen := make(map[uint64]struct{})
	for _, group := range grouped {
		for _, snapshot := range group {
			seen[snapshot.Timestamp] = struct{}{}
		}
	}

	axis := make([]uint64, 0, len(seen))
	for timestamp := range seen {
		axis = append(axis, timestamp)
	}
	sort.Slice(axis, func(i, j int) bool { return axis[i] < axis[j] })

	return axis
}
