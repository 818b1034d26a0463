// Package gate decides which entity kinds a design purpose permits.
//
// The mapping is a single static table checked centrally. Changing purpose
// never deletes entities of now-disallowed kinds; callers flag them
// out-of-scope instead, so no user work is lost on a mode switch.
package gate

import (
	"floorplan-markup/core/types"
)

// allowed is the purpose -> kind permission table
var allowed = map[types.DesignPurpose]map[types.EntityKind]bool{
	types.PurposeBudgetMarkup: {
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
		types.KindContainmentRun: true,
		types.KindZone:           true,
	},
	types.PurposePrelimMarkup: {
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
		types.KindContainmentRun: true,
		types.KindZone:           true,
	},
	types.PurposeFinalAccount: {
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
		types.KindContainmentRun: true,
		types.KindZone:           true,
	},
	types.PurposeLineShopMeasurement: {
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
		types.KindContainmentRun: true,
	},
	types.PurposePVDesign: {
		types.KindZone:           true,
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
	},
	types.PurposeCableSchedule: {
		types.KindEquipmentPoint: true,
		types.KindSupplyLine:     true,
		types.KindContainmentRun: true,
	},
}

// IsAllowed reports whether the kind is permitted under the purpose
func IsAllowed(kind types.EntityKind, purpose types.DesignPurpose) bool {
	kinds, ok := allowed[purpose]
	if !ok {
		return false
	}
	return kinds[kind]
}

// AllowedKinds returns the permitted kinds for a purpose in stable order
func AllowedKinds(purpose types.DesignPurpose) []types.EntityKind {
	var out []types.EntityKind
	for _, kind := range types.AllKinds() {
		if IsAllowed(kind, purpose) {
			out = append(out, kind)
		}
	}
	return out
}
