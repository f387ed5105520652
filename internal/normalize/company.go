package normalize

import "encoding/json"

// RawCompany описывает компанию в том виде, как её отдает бэкенд.
type RawCompany struct {
	ID           int64           `json:"id"`
	FormattedID  string          `json:"formattedId"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Status       string          `json:"status"`
	StatusString string          `json:"statusString"`
	CreatedAt    json.RawMessage `json:"createdAt"`
}

// Company — отображаемая форма компании.
type Company struct {
	ID
	Name      string `json:"name"`
	Email     string `json:"email"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// CompanyFromRaw приводит запись бэкенда к отображаемой форме.
func CompanyFromRaw(raw RawCompany) Company {
	return Company{
		ID:        NewID(raw.ID, raw.FormattedID),
		Name:      raw.Name,
		Email:     raw.Email,
		Status:    EnumOr(raw.StatusString, raw.Status, "active"),
		CreatedAt: Date(raw.CreatedAt),
	}
}

// CompaniesFromRaw приводит список записей бэкенда к отображаемой форме.
func CompaniesFromRaw(raws []RawCompany) []Company {
	companies := make([]Company, 0, len(raws))
	for _, raw := range raws {
		companies = append(companies, CompanyFromRaw(raw))
	}
	return companies
}
