package sales

import (
	"context"
	"fmt"
	"strconv"

	"github.com/optiretail/optiretail/internal/platform/auth"
	"github.com/optiretail/optiretail/internal/platform/store"
	"github.com/optiretail/optiretail/internal/platform/validation"
)

var (
	sellers  = validation.RoleIn(auth.RoleManager, auth.RoleSeller)
	cashiers = validation.RoleIn(auth.RoleManager, auth.RoleSeller, auth.RoleReceptionist)
	managers = validation.RoleIn(auth.RoleManager)
)

var createSaleForm = validation.Form{
	Name: "sale.create",
	Gate: sellers,
	Fields: []validation.Field{
		validation.F("patient_id", validation.UUID(), validation.Exists(store.Patients)),
		validation.F("seller_id", validation.Optional(), validation.UUID(), validation.Exists(store.Users)),
		validation.F("total", validation.Numeric(), validation.Positive()),
		validation.F("status", validation.Optional(), validation.String(), validation.In(Statuses...)),
		validation.F("notes", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(500)),
	},
}

var createPaymentForm = validation.Form{
	Name: "partial_payment.create",
	Gate: cashiers,
	Fields: []validation.Field{
		validation.F("sale_id", validation.UUID(), validation.Exists(store.Sales), validation.Check("sale_open", saleOpen)),
		validation.F("amount", validation.Numeric(), validation.Positive(), validation.Check("within_balance", withinBalance)),
		validation.F("method", validation.String(), validation.In(Methods...)),
		validation.F("reference", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(100)),
	},
}

var createAdjustmentForm = validation.Form{
	Name: "sale_lens_price_adjustment.create",
	Gate: sellers,
	Fields: []validation.Field{
		validation.F("sale_id", validation.UUID(), validation.Exists(store.Sales)),
		validation.F("product_id", validation.UUID(), validation.Exists(store.Products),
			validation.Unique(store.SaleLensPriceAdjustments, "product_id").
				Scoped("sale_id", "sale_id").
				Ignore("id").
				As("unique_per_sale")),
		validation.F("adjusted_price", validation.Numeric(), validation.Positive(), validation.Check("exceeds_price", exceedsPrice)),
		validation.F("reason", validation.Optional(), validation.Nullable(), validation.String(), validation.Max(255)),
	},
}

var (
	updateSaleForm       = createSaleForm.Partial("sale.update")
	updateAdjustmentForm = createAdjustmentForm.Partial("sale_lens_price_adjustment.update")
)

var (
	deleteSaleForm       = validation.Form{Name: "sale.delete", Gate: managers}
	deleteAdjustmentForm = validation.Form{Name: "sale_lens_price_adjustment.delete", Gate: sellers}
)

func money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// saleOpen rejects payments against paid or cancelled sales.
func saleOpen(ctx context.Context, cc validation.CheckContext) (bool, map[string]string, error) {
	id, ok := cc.UUID(cc.Field)
	if !ok {
		return true, nil, nil
	}
	rec, err := cc.Lookup.Find(ctx, store.Sales, id)
	if err != nil {
		return false, nil, err
	}
	status, _ := rec.String("status")
	return status == StatusOpen, nil, nil
}

// withinBalance rejects an amount greater than the sale's current balance.
// An amount equal to the balance settles the sale.
func withinBalance(ctx context.Context, cc validation.CheckContext) (bool, map[string]string, error) {
	saleID, ok := cc.UUID("sale_id")
	if !ok {
		return true, nil, nil
	}
	amount, ok := cc.Float()
	if !ok {
		return true, nil, nil
	}
	rec, err := cc.Lookup.Find(ctx, store.Sales, saleID)
	if err != nil {
		return false, nil, err
	}
	balance, ok := rec.Float("balance")
	if !ok {
		return false, nil, fmt.Errorf("sale %s has no readable balance", saleID)
	}
	if amount > balance {
		return false, map[string]string{"balance": money(balance)}, nil
	}
	return true, nil, nil
}

// exceedsPrice requires the adjusted price to be strictly greater than the
// product's list price. On a partial update without product_id the product
// of the stored adjustment is used.
func exceedsPrice(ctx context.Context, cc validation.CheckContext) (bool, map[string]string, error) {
	price, ok := cc.Float()
	if !ok {
		return true, nil, nil
	}
	productID, ok := cc.UUID("product_id")
	if !ok {
		if _, sent := cc.Request.Input["product_id"]; sent {
			return true, nil, nil
		}
		id, hasID := cc.Request.Params.UUID("id")
		if !hasID {
			return true, nil, nil
		}
		rec, err := cc.Lookup.Find(ctx, store.SaleLensPriceAdjustments, id)
		if err != nil {
			return false, nil, err
		}
		if productID, ok = rec.UUID("product_id"); !ok {
			return true, nil, nil
		}
	}
	product, err := cc.Lookup.Find(ctx, store.Products, productID)
	if err != nil {
		return false, nil, err
	}
	base, ok := product.Float("price")
	if !ok {
		return false, nil, fmt.Errorf("product %s has no readable price", productID)
	}
	if price <= base {
		return false, map[string]string{"price": money(base)}, nil
	}
	return true, nil, nil
}
