package inventory

import (
	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var (
	stockManagers = validation.RoleIn(auth.RoleManager)
	stockMovers   = validation.RoleIn(auth.RoleManager, auth.RoleSeller, auth.RoleReceptionist)
)

var createWarehouseForm = validation.Form{
	Name: "warehouse.create",
	Gate: stockManagers,
	Fields: []validation.Field{
		validation.F("name", validation.String(), validation.Max(150), validation.Unique(store.Warehouses, "name").Ignore("id")),
		validation.F("address", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(255)),
	},
}

var createLocationForm = validation.Form{
	Name: "warehouse_location.create",
	Gate: stockManagers,
	Fields: []validation.Field{
		validation.F("warehouse_id", validation.UUID(), validation.Exists(store.Warehouses)),
		validation.F("code", validation.String(), validation.Max(50),
			validation.Unique(store.WarehouseLocations, "code").Scoped("warehouse_id", "warehouse_id").Ignore("id")),
		validation.F("description", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(255)),
	},
}

var createProductForm = validation.Form{
	Name: "product.create",
	Gate: stockManagers,
	Fields: []validation.Field{
		validation.F("sku", validation.String(), validation.Max(64), validation.Unique(store.Products, "sku").Ignore("id")),
		validation.F("name", validation.String(), validation.Max(150)),
		validation.F("brand", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(100)),
		validation.F("price", validation.Numeric(), validation.Positive()),
		validation.F("lens_type_id", validation.Optional(), validation.Nullable(), validation.UUID(), validation.Exists(store.LensTypes)),
	},
}

var createTransferForm = validation.Form{
	Name: "inventory_transfer.create",
	Gate: stockMovers,
	Fields: []validation.Field{
		validation.F("product_id", validation.UUID(), validation.Exists(store.Products)),
		validation.F("source_location_id", validation.UUID(), validation.Exists(store.WarehouseLocations)),
		validation.F("destination_location_id", validation.UUID(), validation.Exists(store.WarehouseLocations),
			validation.Different("source_location_id")),
		validation.F("quantity", validation.Integer(), validation.Min(1)),
		validation.F("status", validation.Optional(), validation.String(), validation.In(TransferStatuses...)),
		validation.F("notes", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(500)),
	},
}

var (
	updateWarehouseForm = createWarehouseForm.Partial("warehouse.update")
	updateLocationForm  = createLocationForm.Partial("warehouse_location.update")
	updateProductForm   = createProductForm.Partial("product.update")
	updateTransferForm  = createTransferForm.Partial("inventory_transfer.update")
)

var (
	deleteWarehouseForm = validation.Form{Name: "warehouse.delete", Gate: stockManagers}
	deleteLocationForm  = validation.Form{Name: "warehouse_location.delete", Gate: stockManagers}
	deleteProductForm   = validation.Form{Name: "product.delete", Gate: stockManagers}
	deleteTransferForm  = validation.Form{Name: "inventory_transfer.delete", Gate: stockManagers}
)
