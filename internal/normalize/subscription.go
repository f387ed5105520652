package normalize

import "encoding/json"

// RawSubscription описывает подписку в том виде, как её отдает бэкенд.
// Поля nextBilling и startDate могут прийти как ISO-строкой,
// так и массивом из шести чисел, поэтому разбираются отложенно.
type RawSubscription struct {
	ID           int64           `json:"id"`
	FormattedID  string          `json:"formattedId"`
	ClientID     int64           `json:"clientId"`
	ClientName   string          `json:"clientName"`
	PlanID       int64           `json:"planId"`
	PlanName     string          `json:"planName"`
	Status       string          `json:"status"`
	StatusString string          `json:"statusString"`
	Amount       float64         `json:"amount"`
	NextBilling  json.RawMessage `json:"nextBilling"`
	StartDate    json.RawMessage `json:"startDate"`
}

// Subscription — отображаемая форма подписки.
type Subscription struct {
	ID
	ClientID    int64   `json:"clientId"`
	Client      string  `json:"client"`
	PlanID      int64   `json:"planId"`
	Plan        string  `json:"plan"`
	Status      string  `json:"status"`
	Amount      float64 `json:"amount"`
	NextBilling string  `json:"nextBilling"`
	StartDate   string  `json:"startDate"`
}

// SubscriptionFromRaw приводит запись бэкенда к отображаемой форме.
func SubscriptionFromRaw(raw RawSubscription) Subscription {
	return Subscription{
		ID:          NewID(raw.ID, raw.FormattedID),
		ClientID:    raw.ClientID,
		Client:      raw.ClientName,
		PlanID:      raw.PlanID,
		Plan:        raw.PlanName,
		Status:      Enum(raw.StatusString, raw.Status),
		Amount:      raw.Amount,
		NextBilling: Date(raw.NextBilling),
		StartDate:   Date(raw.StartDate),
	}
}

// SubscriptionsFromRaw приводит список записей бэкенда к отображаемой форме.
func SubscriptionsFromRaw(raws []RawSubscription) []Subscription {
	subs := make([]Subscription, 0, len(raws))
	for _, raw := range raws {
		subs = append(subs, SubscriptionFromRaw(raw))
	}
	return subs
}

// SubscriptionPayload — исходящее тело подписки для POST/PUT.
// Клиент и план адресуются первичными ключами, не отображаемыми id.
type SubscriptionPayload struct {
	ClientID int64   `json:"clientId"`
	PlanID   int64   `json:"planId"`
	Amount   float64 `json:"amount,omitempty"`
	Status   string  `json:"status,omitempty"`
}

// NewSubscriptionPayload собирает тело мутации из значений формы консоли.
func NewSubscriptionPayload(clientID, planID int64, amount float64, status string) SubscriptionPayload {
	return SubscriptionPayload{
		ClientID: clientID,
		PlanID:   planID,
		Amount:   amount,
		Status:   UpperEnum(status),
	}
}
