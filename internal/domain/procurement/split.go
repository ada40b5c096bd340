package procurement

import (
	"github.com/google/uuid"

	"github.com/furnish/backend/internal/domain/catalog"
	"github.com/furnish/backend/internal/domain/sales"
)

// SplitLine pairs an order item with its product. Product may be nil when
// the catalog row has been removed; such lines route to the pending pool.
type SplitLine struct {
	Item    sales.OrderItem
	Product *catalog.Product
}

// SupplierGroup is one planned purchase order: all lines sharing a default
// supplier, classified by fulfillment type.
type SupplierGroup struct {
	SupplierID uuid.UUID
	Type       POType
	Lines      []SplitLine
}

// SplitPlan is the result of partitioning an order's items. Pending holds
// lines with no resolvable supplier; they go to the manual-assignment queue
// instead of failing the split.
type SplitPlan struct {
	Groups  []SupplierGroup
	Pending []SplitLine
}

// BuildSplitPlan groups order lines by the product's default supplier and
// classifies each group. Group order follows first appearance so repeated
// runs over the same input produce the same plan.
func BuildSplitPlan(lines []SplitLine) SplitPlan {
	var plan SplitPlan
	index := make(map[uuid.UUID]int)

	for _, line := range lines {
		if line.Product == nil || line.Product.DefaultSupplierID == nil {
			plan.Pending = append(plan.Pending, line)
			continue
		}

		supplierID := *line.Product.DefaultSupplierID
		i, ok := index[supplierID]
		if !ok {
			i = len(plan.Groups)
			index[supplierID] = i
			plan.Groups = append(plan.Groups, SupplierGroup{SupplierID: supplierID})
		}
		plan.Groups[i].Lines = append(plan.Groups[i].Lines, line)
	}

	for i := range plan.Groups {
		plan.Groups[i].Type = classifyGroup(plan.Groups[i].Lines)
	}
	return plan
}

// classifyGroup picks the PO type for one supplier group, in priority order:
// every product stockable wins STOCK, any fabric-category product wins
// FABRIC, anything else is FINISHED.
func classifyGroup(lines []SplitLine) POType {
	allStockable := true
	anyFabric := false
	for _, line := range lines {
		if !line.Product.IsStockable {
			allStockable = false
		}
		if line.Product.Category.IsFabric() {
			anyFabric = true
		}
	}

	switch {
	case allStockable:
		return POTypeStock
	case anyFabric:
		return POTypeFabric
	default:
		return POTypeFinished
	}
}
