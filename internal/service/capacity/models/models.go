package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// SubscriptionBalanceResponse остаток одного абонемента по услуге
type SubscriptionBalanceResponse struct {
	SubscriptionID   int64   `json:"subscriptionId"`
	PackageID        int64   `json:"packageId"`
	OriginalQuantity int     `json:"originalQuantity"`
	Remaining        int     `json:"remaining"`
	ExpiresAt        *string `json:"expiresAt,omitempty"` // ISO 8601 format
}

// CustomerCapacityResponse сводка покрытия клиента по услуге.
// TotalRemaining - справочная сумма: при бронировании покрытие ограничено
// остатком ОДНОГО выбранного абонемента, остатки не объединяются
type CustomerCapacityResponse struct {
	CustomerID int64 `json:"customerId"`
	ServiceID  int64 `json:"serviceId"`

	Subscriptions  []SubscriptionBalanceResponse `json:"subscriptions"`
	TotalRemaining int                           `json:"totalRemaining"`
}

// FromDomainBalances конвертирует domain модели в DTO
func FromDomainBalances(customerID, serviceID int64, balances []*domain.SubscriptionBalance) *CustomerCapacityResponse {
	resp := &CustomerCapacityResponse{
		CustomerID:    customerID,
		ServiceID:     serviceID,
		Subscriptions: make([]SubscriptionBalanceResponse, 0, len(balances)),
	}

	for _, b := range balances {
		item := SubscriptionBalanceResponse{
			SubscriptionID:   b.SubscriptionID,
			PackageID:        b.PackageID,
			OriginalQuantity: b.OriginalQuantity,
			Remaining:        b.Remaining,
		}
		if b.ExpiresAt != nil {
			expiresStr := b.ExpiresAt.Format(time.RFC3339)
			item.ExpiresAt = &expiresStr
		}
		resp.Subscriptions = append(resp.Subscriptions, item)
		resp.TotalRemaining += b.Remaining
	}

	return resp
}
