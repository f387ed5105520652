package normalize

// RawPlan описывает тарифный план в том виде, как его отдает бэкенд.
type RawPlan struct {
	ID             int64    `json:"id"`
	FormattedID    string   `json:"formattedId"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Price          float64  `json:"price"`
	Interval       string   `json:"interval"`
	IntervalString string   `json:"intervalString"`
	Features       []string `json:"features"`
	IsPopular      bool     `json:"isPopular"`
	Status         string   `json:"status"`
	StatusString   string   `json:"statusString"`
	Subscribers    int      `json:"subscribers"`
}

// Plan — отображаемая форма тарифного плана. Порядок features сохраняется.
type Plan struct {
	ID
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"isPopular"`
	Status      string   `json:"status"`
	Subscribers int      `json:"subscribers"`
}

// PlanFromRaw приводит запись бэкенда к отображаемой форме.
func PlanFromRaw(raw RawPlan) Plan {
	return Plan{
		ID:          NewID(raw.ID, raw.FormattedID),
		Name:        raw.Name,
		Description: raw.Description,
		Price:       raw.Price,
		Interval:    EnumOr(raw.IntervalString, raw.Interval, "monthly"),
		Features:    raw.Features,
		IsPopular:   raw.IsPopular,
		Status:      EnumOr(raw.StatusString, raw.Status, "draft"),
		Subscribers: raw.Subscribers,
	}
}

// PlansFromRaw приводит список записей бэкенда к отображаемой форме.
func PlansFromRaw(raws []RawPlan) []Plan {
	plans := make([]Plan, 0, len(raws))
	for _, raw := range raws {
		plans = append(plans, PlanFromRaw(raw))
	}
	return plans
}

// PlanPayload — исходящее тело тарифного плана для POST/PUT.
type PlanPayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Interval    string   `json:"interval"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"isPopular"`
	Status      string   `json:"status"`
}

// NewPlanPayload собирает тело мутации из значений формы консоли.
func NewPlanPayload(name, description string, price float64, interval string, features []string, isPopular bool, status string) PlanPayload {
	return PlanPayload{
		Name:        name,
		Description: description,
		Price:       price,
		Interval:    UpperEnum(interval),
		Features:    features,
		IsPopular:   isPopular,
		Status:      UpperEnum(status),
	}
}
