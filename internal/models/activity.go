package models

import "time"

// AdminActivity — append-only журнал действий админов.
// Записи никогда не изменяются и не удаляются.
type AdminActivity struct {
	ID        int       `json:"id"`
	AdminID   int       `json:"admin_id"`
	Activity  string    `json:"activity"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
