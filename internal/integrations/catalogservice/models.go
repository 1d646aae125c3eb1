package catalogservice

// Tenant модель тенанта из CatalogService
type Tenant struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Timezone   string  `json:"timezone"`
	ManagerIDs []int64 `json:"manager_ids"`
}

// Service модель услуги из CatalogService
type Service struct {
	ID              int64   `json:"id"`
	TenantID        int64   `json:"tenant_id"`
	Name            string  `json:"name"`
	UnitPrice       float64 `json:"unit_price"` // Цена за одного посетителя
	DurationMinutes int     `json:"duration_minutes"`
	EmployeeIDs     []int64 `json:"employee_ids"` // Сотрудники, оказывающие услугу
	IsActive        bool    `json:"is_active"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
