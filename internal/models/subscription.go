package models

import (
	"encoding/json"
	"time"
)

// DateLayout формат даты продления в запросах и ответах.
const DateLayout = "2006-01-02"

// Subscription представляет одну запись подписки.
// Запись создаётся активной и становится неактивной ровно один раз:
// при продлении (взамен создаётся новая запись) или при отмене.
type Subscription struct {
	ID          int
	UserID      int
	MagazineID  int
	PlanID      int
	Price       float64
	RenewalDate time.Time
	IsActive    bool
}

type subscriptionJSON struct {
	ID          int     `json:"id"`
	UserID      int     `json:"user_id"`
	MagazineID  int     `json:"magazine_id"`
	PlanID      int     `json:"plan_id"`
	Price       float64 `json:"price"`
	RenewalDate string  `json:"renewal_date"`
	IsActive    bool    `json:"active"`
}

// MarshalJSON отдаёт дату продления в формате DateLayout.
func (s Subscription) MarshalJSON() ([]byte, error) {
	return json.Marshal(subscriptionJSON{
		ID:          s.ID,
		UserID:      s.UserID,
		MagazineID:  s.MagazineID,
		PlanID:      s.PlanID,
		Price:       s.Price,
		RenewalDate: s.RenewalDate.Format(DateLayout),
		IsActive:    s.IsActive,
	})
}

// UnmarshalJSON нужен для чтения подписок из кеша.
func (s *Subscription) UnmarshalJSON(data []byte) error {
	var raw subscriptionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	renewalDate, err := time.Parse(DateLayout, raw.RenewalDate)
	if err != nil {
		return err
	}
	*s = Subscription{
		ID:          raw.ID,
		UserID:      raw.UserID,
		MagazineID:  raw.MagazineID,
		PlanID:      raw.PlanID,
		Price:       raw.Price,
		RenewalDate: renewalDate,
		IsActive:    raw.IsActive,
	}
	return nil
}

// DummyEntry используется для приёма подписки из JSON-запроса на создание.
// Дата приходит строкой и парсится в сервисе. Если Price не передан,
// берётся базовая цена журнала.
type DummyEntry struct {
	UserID      int     `json:"user_id" validate:"required,gt=0"`
	MagazineID  int     `json:"magazine_id" validate:"required,gt=0"`
	PlanID      int     `json:"plan_id" validate:"required,gt=0"`
	RenewalDate string  `json:"renewal_date" validate:"required"`
	Price       float64 `json:"price" validate:"omitempty,gt=0"`
}

// DummyRenewal используется для приёма запроса на продление подписки.
// UserID необязателен; если передан, он должен совпадать с владельцем подписки.
type DummyRenewal struct {
	UserID      int    `json:"user_id" validate:"omitempty,gt=0"`
	MagazineID  int    `json:"magazine_id" validate:"required,gt=0"`
	PlanID      int    `json:"plan_id" validate:"required,gt=0"`
	RenewalDate string `json:"renewal_date" validate:"required"`
}
