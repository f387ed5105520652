package normalize

import "encoding/json"

// RawPaymentMethod описывает способ оплаты в том виде, как его отдает бэкенд.
type RawPaymentMethod struct {
	ID          int64  `json:"id"`
	FormattedID string `json:"formattedId"`
	Type        string `json:"type"`
	TypeString  string `json:"typeString"`
	Brand       string `json:"brand"`
	Last4       string `json:"last4"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	IsDefault   bool   `json:"isDefault"`
}

// PaymentMethod — отображаемая форма способа оплаты.
type PaymentMethod struct {
	ID
	Type        string `json:"type"`
	Brand       string `json:"brand"`
	Last4       string `json:"last4"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
	IsDefault   bool   `json:"isDefault"`
}

// PaymentMethodFromRaw приводит запись бэкенда к отображаемой форме.
func PaymentMethodFromRaw(raw RawPaymentMethod) PaymentMethod {
	return PaymentMethod{
		ID:          NewID(raw.ID, raw.FormattedID),
		Type:        EnumOr(raw.TypeString, raw.Type, "card"),
		Brand:       raw.Brand,
		Last4:       raw.Last4,
		ExpiryMonth: raw.ExpiryMonth,
		ExpiryYear:  raw.ExpiryYear,
		IsDefault:   raw.IsDefault,
	}
}

// PaymentMethodsFromRaw приводит список записей бэкенда к отображаемой форме.
func PaymentMethodsFromRaw(raws []RawPaymentMethod) []PaymentMethod {
	methods := make([]PaymentMethod, 0, len(raws))
	for _, raw := range raws {
		methods = append(methods, PaymentMethodFromRaw(raw))
	}
	return methods
}

// PaymentMethodPayload — исходящее тело способа оплаты для POST.
type PaymentMethodPayload struct {
	Type        string `json:"type"`
	Brand       string `json:"brand,omitempty"`
	Last4       string `json:"last4"`
	ExpiryMonth int    `json:"expiryMonth,omitempty"`
	ExpiryYear  int    `json:"expiryYear,omitempty"`
}

// NewPaymentMethodPayload собирает тело мутации из значений формы консоли.
func NewPaymentMethodPayload(methodType, brand, last4 string, expiryMonth, expiryYear int) PaymentMethodPayload {
	return PaymentMethodPayload{
		Type:        UpperEnum(methodType),
		Brand:       brand,
		Last4:       last4,
		ExpiryMonth: expiryMonth,
		ExpiryYear:  expiryYear,
	}
}

// RawTransaction описывает запись истории платежей в том виде,
// как её отдает бэкенд.
type RawTransaction struct {
	ID            int64           `json:"id"`
	FormattedID   string          `json:"formattedId"`
	Amount        float64         `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	StatusString  string          `json:"statusString"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"paymentMethod"`
	Date          json.RawMessage `json:"date"`
}

// Transaction — отображаемая форма записи истории платежей.
type Transaction struct {
	ID
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	Description   string  `json:"description"`
	PaymentMethod string  `json:"paymentMethod"`
	Date          string  `json:"date"`
}

// TransactionFromRaw приводит запись бэкенда к отображаемой форме.
func TransactionFromRaw(raw RawTransaction) Transaction {
	return Transaction{
		ID:            NewID(raw.ID, raw.FormattedID),
		Amount:        raw.Amount,
		Currency:      raw.Currency,
		Status:        Enum(raw.StatusString, raw.Status),
		Description:   raw.Description,
		PaymentMethod: raw.PaymentMethod,
		Date:          Date(raw.Date),
	}
}

// TransactionsFromRaw приводит список записей бэкенда к отображаемой форме.
func TransactionsFromRaw(raws []RawTransaction) []Transaction {
	txs := make([]Transaction, 0, len(raws))
	for _, raw := range raws {
		txs = append(txs, TransactionFromRaw(raw))
	}
	return txs
}
