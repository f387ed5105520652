package normalize

import "encoding/json"

// defaultClientPassword стартовый пароль клиента, созданного из консоли.
const defaultClientPassword = "Password@123"

// RawClient описывает запись клиента в том виде, как её отдает бэкенд.
type RawClient struct {
	ID            int64           `json:"id"`
	FormattedID   string          `json:"formattedId"`
	FullName      string          `json:"fullName"`
	Email         string          `json:"email"`
	CompanyName   string          `json:"companyName"`
	Status        string          `json:"status"`
	StatusString  string          `json:"statusString"`
	TotalSpent    float64         `json:"totalSpent"`
	Subscriptions int             `json:"subscriptions"`
	LastActivity  json.RawMessage `json:"lastActivity"`
}

// Client — отображаемая форма записи клиента.
type Client struct {
	ID
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Company       string  `json:"company"`
	Status        string  `json:"status"`
	TotalSpent    float64 `json:"totalSpent"`
	Subscriptions int     `json:"subscriptions"`
	LastActivity  string  `json:"lastActivity"`
}

// ClientFromRaw приводит запись бэкенда к отображаемой форме.
// Клиент без компании показывается как частный.
func ClientFromRaw(raw RawClient) Client {
	company := raw.CompanyName
	if company == "" {
		company = "Private Client"
	}
	return Client{
		ID:            NewID(raw.ID, raw.FormattedID),
		Name:          raw.FullName,
		Email:         raw.Email,
		Company:       company,
		Status:        EnumOr(raw.StatusString, raw.Status, "active"),
		TotalSpent:    raw.TotalSpent,
		Subscriptions: raw.Subscriptions,
		LastActivity:  Date(raw.LastActivity),
	}
}

// ClientsFromRaw приводит список записей бэкенда к отображаемой форме.
func ClientsFromRaw(raws []RawClient) []Client {
	clients := make([]Client, 0, len(raws))
	for _, raw := range raws {
		clients = append(clients, ClientFromRaw(raw))
	}
	return clients
}

// ClientPayload — исходящее тело записи клиента для PUT: имена полей и
// регистр перечислений возвращаются к формату бэкенда.
type ClientPayload struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Status      string `json:"status"`
}

// NewClientPayload собирает тело мутации из значений формы консоли.
func NewClientPayload(name, email, company, status string) ClientPayload {
	return ClientPayload{
		FullName:    name,
		Email:       email,
		CompanyName: company,
		Status:      UpperEnum(status),
	}
}

// ClientCreatePayload дополняет ClientPayload полями регистрации:
// созданный из консоли клиент получает роль CLIENT и стартовый пароль.
type ClientCreatePayload struct {
	ClientPayload
	Password string `json:"password"`
	Role     string `json:"role"`
}

// NewClientCreatePayload собирает тело создания клиента.
func NewClientCreatePayload(name, email, company, status string) ClientCreatePayload {
	return ClientCreatePayload{
		ClientPayload: NewClientPayload(name, email, company, status),
		Password:      defaultClientPassword,
		Role:          "CLIENT",
	}
}
