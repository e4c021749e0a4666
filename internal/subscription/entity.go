package subscription

// Subscription links a user, identified by email, to a Taskmaster category id.
type Subscription struct {
	UserEmail  string `json:"user_email" yaml:"user_email"`
	CategoryID int64  `json:"category_id" yaml:"category_id"`
}
