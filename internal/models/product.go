package models

// ProductRecord is the normalized result of extracting one product page.
// Fields are never null; a field no strategy could resolve stays "".
type ProductRecord struct {
	Name         string `json:"name"`
	SKU          string `json:"sku"`
	Price        string `json:"price"`
	Availability string `json:"availability"`
}

// ScrapeResult pairs a record with the page it was extracted from.
type ScrapeResult struct {
	URL    string        `json:"url"`
	Record ProductRecord `json:"record"`
}

// CSVHeader returns the column order used for product output files.
func CSVHeader() []string {
	return []string{"name", "sku", "price", "availability"}
}

// CSVRow returns the record's fields in CSVHeader order.
func (r ProductRecord) CSVRow() []string {
	return []string{r.Name, r.SKU, r.Price, r.Availability}
}

// IsEmpty reports whether no strategy resolved any field.
func (r ProductRecord) IsEmpty() bool {
	return r.Name == "" && r.SKU == "" && r.Price == "" && r.Availability == ""
}
