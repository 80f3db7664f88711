package rules

// Product is a purchasable ticket bundle. Prices are in KRW.
type Product struct {
	Type        int
	Name        string
	Price       int
	TicketCount int
}

var products = []Product{
	{Type: 1, Name: "ticket_1", Price: 5000, TicketCount: 1},
	{Type: 2, Name: "ticket_3", Price: 14000, TicketCount: 3},
	{Type: 3, Name: "ticket_5", Price: 21000, TicketCount: 5},
}

func ProductByType(productType int) (Product, bool) {
	for _, p := range products {
		if p.Type == productType {
			return p, true
		}
	}
	return Product{}, false
}
