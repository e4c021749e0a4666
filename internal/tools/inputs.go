package tools

type NoInput struct{}

type CategoryInput struct {
	CategoryID int64 `json:"category_id" jsonschema:"Taskmaster category id"`
}

type CategoryTasksInput struct {
	CategoryID int64 `json:"category_id" jsonschema:"Taskmaster category id"`
	WindowDays *int  `json:"window_days,omitempty" jsonschema:"lookback window in days for follow-up comments; default 7, 0 for all time"`
}

type SearchInput struct {
	Query      string `json:"query" jsonschema:"case-insensitive text matched against task id, subject and assignee"`
	WindowDays *int   `json:"window_days,omitempty" jsonschema:"lookback window in days for follow-up comments; default 7, 0 for all time"`
}

type ProviderUpdatesInput struct {
	ProviderAlias string `json:"provider_alias" jsonschema:"provider alias or name to search for"`
	DetailLevel   string `json:"detail_level,omitempty" jsonschema:"short or detailed; default short"`
	WindowDays    *int   `json:"window_days,omitempty" jsonschema:"lookback window in days for follow-up comments; default 7, 0 for all time"`
}

type TaskSummaryInput struct {
	TaskID      int64  `json:"task_id" jsonschema:"Taskmaster task id"`
	DetailLevel string `json:"detail_level,omitempty" jsonschema:"short or detailed; default short"`
	WindowDays  *int   `json:"window_days,omitempty" jsonschema:"lookback window in days for follow-up comments; default all time"`
}

type UserInput struct {
	UserEmail string `json:"user_email" jsonschema:"email address identifying the user"`
}

type UserCategoryInput struct {
	UserEmail  string `json:"user_email" jsonschema:"email address identifying the user"`
	CategoryID int64  `json:"category_id" jsonschema:"Taskmaster category id"`
}

type NewsletterInput struct {
	UserEmail string `json:"user_email" jsonschema:"email address identifying the user"`
	ID        string `json:"id" jsonschema:"newsletter id as returned by save_newsletter"`
}
