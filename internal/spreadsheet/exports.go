package spreadsheet

import "github.com/diewo77/go-supplies/internal/models"

// Column order of the contract and purchase order exports.
var (
	ContractColumns = []string{
		"ID", "Process Number", "Company Name", "Company Info", "Category", "Item",
		"Initial Balance", "Current Balance", "Expires On", "Status",
		"Stock Updated At", "Available Stock", "Manual Stock",
	}
	OrderColumns = []string{
		"ID", "Order Number", "Accepted On", "Vendor", "Item",
		"Ordered Qty", "Received Qty", "Pending Qty", "Order Status", "Collection Status",
	}
)

// ContractsSheet lays out contracts in ContractColumns order.
func ContractsSheet(contracts []models.Contract) Sheet {
	s := Sheet{Name: "Contracts", Header: ContractColumns}
	for _, c := range contracts {
		s.Rows = append(s.Rows, []any{
			c.ID, c.ProcessNumber, c.CompanyName, c.CompanyInfo, string(c.Category), c.Item,
			c.InitialBalance, c.CurrentBalance, c.ExpiresOn, string(c.Status),
			c.StockUpdatedAt, c.AvailableStock, c.ManualStock,
		})
	}
	return s
}

// OrdersSheet lays out purchase orders in OrderColumns order.
func OrdersSheet(orders []models.PurchaseOrder) Sheet {
	s := Sheet{Name: "Purchase Orders", Header: OrderColumns}
	for _, o := range orders {
		s.Rows = append(s.Rows, []any{
			o.ID, o.Number, o.AcceptedOn, o.Vendor, o.Item,
			o.OrderedQty, o.ReceivedQty, o.PendingQty, string(o.Status), string(o.CollectionStatus),
		})
	}
	return s
}
