package normalize_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizvenue/billing-console/internal/normalize"
)

func TestClientFromRaw(t *testing.T) {
	raw := normalize.RawClient{
		ID:            7,
		FormattedID:   "CLT-0007",
		FullName:      "Jane Doe",
		Email:         "jane@acme.com",
		CompanyName:   "Acme",
		Status:        "ACTIVE",
		TotalSpent:    129.5,
		Subscriptions: 2,
		LastActivity:  json.RawMessage(`[2025,3,1,0,0,0]`),
	}

	client := normalize.ClientFromRaw(raw)

	assert.Equal(t, "CLT-0007", client.Display)
	assert.Equal(t, int64(7), client.Key)
	assert.Equal(t, "Jane Doe", client.Name)
	assert.Equal(t, "Acme", client.Company)
	assert.Equal(t, "active", client.Status)
	assert.Equal(t, "Mar 01, 2025", client.LastActivity)
}

func TestClientFromRaw_Defaults(t *testing.T) {
	client := normalize.ClientFromRaw(normalize.RawClient{ID: 3, FullName: "Solo"})

	assert.Equal(t, "3", client.Display)
	assert.Equal(t, "Private Client", client.Company)
	assert.Equal(t, "active", client.Status)
	assert.Equal(t, "N/A", client.LastActivity)
}

func TestClientFromRaw_PrefersStatusString(t *testing.T) {
	client := normalize.ClientFromRaw(normalize.RawClient{
		ID:           1,
		Status:       "CHURNED",
		StatusString: "churned",
	})
	assert.Equal(t, "churned", client.Status)
}

func TestNewClientCreatePayload(t *testing.T) {
	payload := normalize.NewClientCreatePayload("Jane", "j@x.com", "Acme", "active")

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, map[string]any{
		"fullName":    "Jane",
		"email":       "j@x.com",
		"companyName": "Acme",
		"status":      "ACTIVE",
		"password":    "Password@123",
		"role":        "CLIENT",
	}, got)
}

func TestSubscriptionFromRaw(t *testing.T) {
	raw := normalize.RawSubscription{
		ID:          11,
		FormattedID: "SUB-0011",
		ClientID:    7,
		PlanID:      2,
		Status:      "ACTIVE",
		Amount:      49.0,
		NextBilling: json.RawMessage(`[2025,3,1,0,0,0]`),
		StartDate:   json.RawMessage(`"2024-11-15T00:00:00"`),
	}

	sub := normalize.SubscriptionFromRaw(raw)

	assert.Equal(t, "SUB-0011", sub.Display)
	assert.Equal(t, int64(11), sub.Key)
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "Mar 01, 2025", sub.NextBilling)
	assert.Equal(t, "Nov 15, 2024", sub.StartDate)
}

// Mutation payloads must target the persistence key, never the display id,
// and the key survives a normalize-then-submit cycle unchanged.
func TestSubscription_KeyRoundTrip(t *testing.T) {
	raw := normalize.RawSubscription{ID: 11, FormattedID: "SUB-0011", ClientID: 7, PlanID: 2, Status: "PAUSED"}
	sub := normalize.SubscriptionFromRaw(raw)

	payload := normalize.NewSubscriptionPayload(sub.ClientID, sub.PlanID, sub.Amount, sub.Status)

	assert.Equal(t, int64(11), sub.Key)
	assert.NotEqual(t, sub.Display, "11")
	assert.Equal(t, int64(7), payload.ClientID)
	assert.Equal(t, "PAUSED", payload.Status)
}

// Fetching the same list twice without intervening mutation yields
// identical normalized output.
func TestSubscriptionsFromRaw_Idempotent(t *testing.T) {
	raws := []normalize.RawSubscription{
		{ID: 1, Status: "TRIAL", NextBilling: json.RawMessage(`[2025,6,30,0,0,0]`)},
		{ID: 2, Status: "PAST_DUE", StartDate: json.RawMessage(`"2024-01-30T00:00:00"`)},
	}

	first := normalize.SubscriptionsFromRaw(raws)
	second := normalize.SubscriptionsFromRaw(raws)

	assert.Equal(t, first, second)
	assert.Equal(t, "trial", first[0].Status)
	assert.Equal(t, "past_due", first[1].Status)
}

func TestInvoiceFromRaw(t *testing.T) {
	raw := normalize.RawInvoice{
		ID:          21,
		FormattedID: "INV-0021",
		ClientID:    7,
		Amount:      250,
		Status:      "OVERDUE",
		IssueDate:   json.RawMessage(`[2024,12,1,0,0,0]`),
		DueDate:     json.RawMessage(`"2024-12-31"`),
		Items:       3,
	}

	invoice := normalize.InvoiceFromRaw(raw)

	assert.Equal(t, "INV-0021", invoice.Display)
	assert.Equal(t, "overdue", invoice.Status)
	assert.Equal(t, "Dec 01, 2024", invoice.IssueDate)
	assert.Equal(t, "Dec 31, 2024", invoice.DueDate)
	assert.Equal(t, 3, invoice.Items)
}

func TestPlanFromRaw(t *testing.T) {
	raw := normalize.RawPlan{
		ID:        2,
		Name:      "Pro",
		Price:     49,
		Interval:  "MONTHLY",
		Features:  []string{"feature one", "feature two"},
		IsPopular: true,
		Status:    "ACTIVE",
	}

	plan := normalize.PlanFromRaw(raw)

	assert.Equal(t, "monthly", plan.Interval)
	assert.Equal(t, "active", plan.Status)
	// feature order is preserved
	assert.Equal(t, []string{"feature one", "feature two"}, plan.Features)
}

func TestNewPlanPayload_UppercasesEnums(t *testing.T) {
	payload := normalize.NewPlanPayload("Pro", "", 49, "yearly", nil, false, "active")

	assert.Equal(t, "YEARLY", payload.Interval)
	assert.Equal(t, "ACTIVE", payload.Status)
}

func TestDisplayJSONShape(t *testing.T) {
	client := normalize.ClientFromRaw(normalize.RawClient{ID: 7, FormattedID: "CLT-0007", FullName: "Jane"})

	body, err := json.Marshal(client)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	// embedded ID serializes inline as id/originalId
	assert.Equal(t, "CLT-0007", got["id"])
	assert.Equal(t, float64(7), got["originalId"])
}
