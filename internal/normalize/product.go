package normalize

// RawProduct описывает запись продукта в том виде, как её отдает бэкенд.
type RawProduct struct {
	ID           int64  `json:"id"`
	FormattedID  string `json:"formattedId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Status       string `json:"status"`
	StatusString string `json:"statusString"`
}

// Product — отображаемая форма записи продукта.
type Product struct {
	ID
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// ProductFromRaw приводит запись бэкенда к отображаемой форме.
func ProductFromRaw(raw RawProduct) Product {
	return Product{
		ID:          NewID(raw.ID, raw.FormattedID),
		Name:        raw.Name,
		Description: raw.Description,
		Status:      EnumOr(raw.StatusString, raw.Status, "draft"),
	}
}

// ProductsFromRaw приводит список записей бэкенда к отображаемой форме.
func ProductsFromRaw(raws []RawProduct) []Product {
	products := make([]Product, 0, len(raws))
	for _, raw := range raws {
		products = append(products, ProductFromRaw(raw))
	}
	return products
}

// ProductPayload — исходящее тело записи продукта для POST/PUT.
type ProductPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

// NewProductPayload собирает тело мутации из значений формы консоли.
func NewProductPayload(name, description, status string) ProductPayload {
	return ProductPayload{
		Name:        name,
		Description: description,
		Status:      UpperEnum(status),
	}
}
