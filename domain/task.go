package domain

// Task is a single to-do item owned by exactly one account.
type Task struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	UserID      int64  `json:"user_id"`
}
