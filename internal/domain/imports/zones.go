package imports

import (
	"restock/internal/core/apperror"
	"restock/internal/core/id"
)

// ValidateZoneAllocation checks that every line item names at least one
// storage zone. A line may fan out across multiple zones; no upper bound
// is enforced here. The error reports the first offending item in list
// order. Used at commit boundaries only; drafts may have empty zones.
func ValidateZoneAllocation(items []LineItem) error {
	for i, item := range items {
		if len(item.ZoneIDs) == 0 {
			return apperror.NewMissingZone(i)
		}
	}
	return nil
}

// ValidateZoneOwnership checks that every referenced zone belongs to the
// transaction's store. storeZones is the set of zone IDs valid for the
// store.
func ValidateZoneOwnership(items []LineItem, storeZones map[id.ID]struct{}) error {
	for i, item := range items {
		for _, zoneID := range item.ZoneIDs {
			if _, ok := storeZones[zoneID]; !ok {
				return apperror.NewValidation("zone does not belong to the transaction's store").
					WithDetail("field", "zoneIds").
					WithDetail("itemIndex", i).
					WithDetail("zoneId", zoneID.String())
			}
		}
	}
	return nil
}
