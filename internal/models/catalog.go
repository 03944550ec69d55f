package models

// Magazine запись каталога журналов. BasePrice всегда положительна.
type Magazine struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price"`
}

// DummyMagazine используется для приёма журнала из JSON-запроса.
type DummyMagazine struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	BasePrice   float64 `json:"base_price" validate:"gt=0"`
}

// Plan план подписки: период продления в днях, скидка в долях единицы и уровень.
type Plan struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	RenewalPeriod int     `json:"renewal_period"`
	Discount      float64 `json:"discount"`
	Tier          int     `json:"tier"`
}

// DummyPlan используется для приёма плана из JSON-запроса.
type DummyPlan struct {
	Title         string  `json:"title" validate:"required"`
	Description   string  `json:"description"`
	RenewalPeriod int     `json:"renewal_period" validate:"gt=0"`
	Discount      float64 `json:"discount" validate:"gte=0,lte=1"`
	Tier          int     `json:"tier"`
}
