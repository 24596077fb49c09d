package catalog

// Merchant describes the tenant whose wizard is being served.
type Merchant struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	CancelHours         int     `json:"cancelHours"`
	CancelRefundPercent int     `json:"cancelRefundPercent"`
	TaxRate             float64 `json:"taxRate"`
	TaxIncluded         bool    `json:"taxIncluded"`
	TaxLabel            string  `json:"taxLabel"`
	TermsURL            string  `json:"termsUrl"`
}

// Location is a rental station with daily opening hours. Hours apply to every
// weekday; overnight-wrapping spans are not supported.
type Location struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
}

// Duration is one entry of the finite rental-length catalog. Length may be
// given in hours, days, or both.
type Duration struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Hours int    `json:"hours"`
	Days  int    `json:"days"`
}

// TotalHours normalises the duration length to hours.
func (d Duration) TotalHours() int {
	return d.Hours + d.Days*24
}

// Category groups products; addon categories are offered after the main pick.
type Category struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IsAddon bool   `json:"isAddon"`
	Hidden  bool   `json:"hidden"`
}

// Variant is a (location, size) pairing of a product with its own stock count.
// Price is carried by the product, not the variant.
type Variant struct {
	ID         string `json:"id"`
	LocationID string `json:"locationId"`
	Size       string `json:"size"`
}

// Product is a rentable item priced per day in minor currency units.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Details     []string  `json:"details,omitempty"`
	CategoryID  string    `json:"categoryId"`
	DailyPrice  int64     `json:"dailyPriceCents"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	Variants    []Variant `json:"variants"`
}

// PriceOverrideRow is one row of the merchant's price exception table. A row
// without a location applies at any location.
type PriceOverrideRow struct {
	LocationID string `json:"locationId,omitempty"`
	ProductID  string `json:"productId"`
	DurationID string `json:"durationId"`
	PriceCents int64  `json:"priceCents"`
}
