package models

import "time"

// Event — публичное мероприятие фонда. Прошедшие события на публичной
// странице не показываются, но из БД не удаляются.
type Event struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
