package entity

// ReceiptHeader holds the business header printed at the top of a receipt.
type ReceiptHeader struct {
	BusinessName string `json:"business_name"`
	Address      string `json:"address,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Branch       string `json:"branch,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// Receipt is a value object representing a printable sale receipt.
// It is NOT a database entity, it is composed from sale data at request time.
type Receipt struct {
	Header        ReceiptHeader `json:"header"`
	BillNumber    string        `json:"bill_number"`
	Date          string        `json:"date"`
	Cashier       string        `json:"cashier,omitempty"`
	Patient       string        `json:"patient,omitempty"`
	PaymentMethod string        `json:"payment_method,omitempty"`
	Items         []ReceiptItem `json:"items"`
	SubTotal      float64       `json:"sub_total"`
	Discount      float64       `json:"discount"`
	Tax           float64       `json:"tax"`
	Total         float64       `json:"total"`
	Paid          float64       `json:"paid"`
	Change        float64       `json:"change"`
	Credit        float64       `json:"credit"`
	Footer        string        `json:"footer,omitempty"`
}
