package models

// Form binding structs for the HTML routes. Field names mirror the template
// input names.

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// PropertyForm carries the full unit edit form. The add form submits only a
// subset; missing fields stay empty and property_type defaults to Condo.
type PropertyForm struct {
	Nickname     string `form:"nickname" binding:"required"`
	PropertyType string `form:"property_type"`
	Street       string `form:"street"`
	City         string `form:"city"`
	State        string `form:"state"`
	Zip          string `form:"zip"`
}

type MaintenanceForm struct {
	PropertyID  int64  `form:"property_id" binding:"required"`
	Description string `form:"description" binding:"required"`
}

type ExpenseForm struct {
	PropertyID      int64   `form:"property_id" binding:"required"`
	ExpenseCategory string  `form:"expense_category" binding:"required"`
	Amount          float64 `form:"amount" binding:"required"`
	ExpenseDate     string  `form:"expense_date"`
	Vendor          string  `form:"vendor"`
}

type MessageForm struct {
	Message string `form:"message" binding:"required"`
}
