// Package models содержит структуры входящих запросов консоли.
//
// Значения перечислений в формах приходят в нижнем регистре, как их
// отдают элементы управления; в формат бэкенда их возвращает пакет
// normalize при сборке исходящего тела.
package models

// LoginRequest тело запроса входа.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest тело запроса регистрации, поля в формате бэкенда.
type SignupRequest struct {
	Username    string `json:"username" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=8"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"full_name" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=COMPANY CLIENT"`
	CompanyName string `json:"company_name"`
}

// ClientForm форма создания и редактирования клиента.
type ClientForm struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Company string `json:"company"`
	Status  string `json:"status" validate:"omitempty,oneof=active inactive churned"`
}

// ProductForm форма создания и редактирования продукта.
type ProductForm struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// PlanForm форма создания и редактирования тарифного плана.
type PlanForm struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	Interval    string   `json:"interval" validate:"required,oneof=monthly yearly"`
	Features    []string `json:"features"`
	IsPopular   bool     `json:"isPopular"`
	Status      string   `json:"status" validate:"omitempty,oneof=draft active archived"`
}

// PlanStatusRequest тело переключения статуса плана.
type PlanStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft active archived"`
}

// SubscriptionForm форма создания и редактирования подписки.
// Клиент и план адресуются первичными ключами.
type SubscriptionForm struct {
	ClientID int64   `json:"clientId" validate:"required"`
	PlanID   int64   `json:"planId" validate:"required"`
	Amount   float64 `json:"amount" validate:"omitempty,gt=0"`
	Status   string  `json:"status" validate:"omitempty,oneof=active trial paused cancelled past_due"`
}

// ChangePlanRequest тело смены плана подписки.
type ChangePlanRequest struct {
	PlanID int64 `json:"planId" validate:"required"`
}

// InvoiceForm форма создания и редактирования счета.
// Счет без выбранного клиента отклоняется до похода в бэкенд.
type InvoiceForm struct {
	ClientID    int64   `json:"clientId" validate:"required"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Status      string  `json:"status" validate:"omitempty,oneof=draft pending paid overdue"`
	Description string  `json:"description"`
	DueDate     string  `json:"dueDate"`
	Items       int     `json:"items" validate:"omitempty,gt=0"`
}

// PaymentMethodForm форма добавления способа оплаты.
type PaymentMethodForm struct {
	Type        string `json:"type" validate:"required,oneof=card bank"`
	Brand       string `json:"brand"`
	Last4       string `json:"last4" validate:"required,len=4,numeric"`
	ExpiryMonth int    `json:"expiryMonth" validate:"omitempty,min=1,max=12"`
	ExpiryYear  int    `json:"expiryYear"`
}

// RefundRequest тело запроса возврата по транзакции.
type RefundRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CreateOrderRequest тело создания платежного ордера.
type CreateOrderRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// PaymentVerification тело проверки завершенного платежа, имена полей
// диктует платежный виджет.
type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}
