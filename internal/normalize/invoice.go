package normalize

import "encoding/json"

// RawInvoice описывает счет в том виде, как его отдает бэкенд.
type RawInvoice struct {
	ID           int64           `json:"id"`
	FormattedID  string          `json:"formattedId"`
	ClientID     int64           `json:"clientId"`
	ClientName   string          `json:"clientName"`
	Amount       float64         `json:"amount"`
	Status       string          `json:"status"`
	StatusString string          `json:"statusString"`
	Description  string          `json:"description"`
	IssueDate    json.RawMessage `json:"issueDate"`
	DueDate      json.RawMessage `json:"dueDate"`
	Items        int             `json:"items"`
}

// Invoice — отображаемая форма счета.
type Invoice struct {
	ID
	ClientID    int64   `json:"clientId"`
	Client      string  `json:"client"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	IssueDate   string  `json:"issueDate"`
	DueDate     string  `json:"dueDate"`
	Items       int     `json:"items"`
}

// InvoiceFromRaw приводит запись бэкенда к отображаемой форме.
func InvoiceFromRaw(raw RawInvoice) Invoice {
	return Invoice{
		ID:          NewID(raw.ID, raw.FormattedID),
		ClientID:    raw.ClientID,
		Client:      raw.ClientName,
		Amount:      raw.Amount,
		Status:      Enum(raw.StatusString, raw.Status),
		Description: raw.Description,
		IssueDate:   Date(raw.IssueDate),
		DueDate:     Date(raw.DueDate),
		Items:       raw.Items,
	}
}

// InvoicesFromRaw приводит список записей бэкенда к отображаемой форме.
func InvoicesFromRaw(raws []RawInvoice) []Invoice {
	invoices := make([]Invoice, 0, len(raws))
	for _, raw := range raws {
		invoices = append(invoices, InvoiceFromRaw(raw))
	}
	return invoices
}

// InvoicePayload — исходящее тело счета для POST/PUT.
type InvoicePayload struct {
	ClientID    int64   `json:"clientId"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
	DueDate     string  `json:"dueDate,omitempty"`
	Items       int     `json:"items,omitempty"`
}

// NewInvoicePayload собирает тело мутации из значений формы консоли.
func NewInvoicePayload(clientID int64, amount float64, status, description, dueDate string, items int) InvoicePayload {
	return InvoicePayload{
		ClientID:    clientID,
		Amount:      amount,
		Status:      UpperEnum(status),
		Description: description,
		DueDate:     dueDate,
		Items:       items,
	}
}
