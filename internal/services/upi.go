package services

import (
	"fmt"
	"net/url"
)

// UPIService собирает платёжные deep-link'и для передачи в нативное
// приложение плательщика. Аналог платёжного сервиса, только без
// серверного API: вся ссылка формируется локально.
type UPIService struct {
	PayeeID   string
	PayeeName string
}

func NewUPIService(payeeID, payeeName string) *UPIService {
	return &UPIService{
		PayeeID:   payeeID,
		PayeeName: payeeName,
	}
}

func (s *UPIService) paymentQuery(amount float64) string {
	q := url.Values{}
	q.Set("pa", s.PayeeID)
	q.Set("pn", s.PayeeName)
	q.Set("am", fmt.Sprintf("%.2f", amount))
	q.Set("cu", "INR")
	return q.Encode()
}

// BuildPaymentURI — generic UPI-ссылка; её же кодируем в QR.
func (s *UPIService) BuildPaymentURI(amount float64) string {
	return "upi://pay?" + s.paymentQuery(amount)
}

// ProviderLink — вариант ссылки под конкретное приложение.
// Для gpay и phonepe есть свои схемы, всё остальное получает generic.
func (s *UPIService) ProviderLink(provider string, amount float64) string {
	query := s.paymentQuery(amount)
	switch provider {
	case "gpay":
		return "tez://upi/pay?" + query
	case "phonepe":
		return "phonepe://pay?" + query
	default:
		return "upi://pay?" + query
	}
}
