package tools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool is one named operation, served over MCP and as a REST route.
type Tool struct {
	Name        string
	Description string
	// Method is the HTTP method of the REST route.
	Method string

	addTo func(server *mcp.Server)
	serve http.HandlerFunc
}

func newTool[In any](name, method, description string, call func(context.Context, In) (any, error)) Tool {
	return Tool{
		Name:        name,
		Description: description,
		Method:      method,
		addTo: func(server *mcp.Server) {
			mcp.AddTool(server, &mcp.Tool{Name: name, Description: description}, mcpHandler(call))
		},
		serve: httpHandler(call),
	}
}

// Tools lists every operation of s in a stable order.
func Tools(s *Service) []Tool {
	return []Tool{
		newTool("get_categories", http.MethodGet,
			"List all active Taskmaster categories.",
			func(ctx context.Context, _ NoInput) (any, error) {
				return s.Categories(ctx), nil
			}),
		newTool("get_category_tasks", http.MethodGet,
			"Fetch the tasks of one category with their recent follow-up comments.",
			func(ctx context.Context, in CategoryTasksInput) (any, error) {
				return s.CategoryTasks(ctx, in.CategoryID, in.WindowDays), nil
			}),
		newTool("search_tasks", http.MethodGet,
			"Search tasks across all categories by id, provider alias, assignee or keyword.",
			func(ctx context.Context, in SearchInput) (any, error) {
				return s.SearchTasks(ctx, in.Query, in.WindowDays)
			}),
		newTool("get_provider_updates", http.MethodGet,
			"Summarize the most relevant recent updates for a provider alias.",
			func(ctx context.Context, in ProviderUpdatesInput) (any, error) {
				return s.ProviderUpdates(ctx, in.ProviderAlias, in.DetailLevel, in.WindowDays)
			}),
		newTool("get_task_summary", http.MethodGet,
			"Summarize a single task and its follow-up history.",
			func(ctx context.Context, in TaskSummaryInput) (any, error) {
				return s.TaskSummary(ctx, in.TaskID, in.DetailLevel, in.WindowDays), nil
			}),
		newTool("get_blocked_tasks", http.MethodGet,
			"List blocked, on-hold or stopped tasks across all categories.",
			func(ctx context.Context, _ NoInput) (any, error) {
				return s.BlockedTasks(ctx), nil
			}),
		newTool("get_overdue_tasks", http.MethodGet,
			"List overdue tasks across all categories.",
			func(ctx context.Context, _ NoInput) (any, error) {
				return s.OverdueTasks(ctx), nil
			}),
		newTool("get_weekly_summary", http.MethodGet,
			"Summarize the last seven days of one category.",
			func(ctx context.Context, in CategoryInput) (any, error) {
				return s.WeeklySummary(ctx, in.CategoryID), nil
			}),
		newTool("list_user_subscriptions", http.MethodGet,
			"List the categories a user is subscribed to.",
			func(ctx context.Context, in UserInput) (any, error) {
				return s.ListSubscriptions(ctx, in.UserEmail)
			}),
		newTool("subscribe_category", http.MethodPost,
			"Subscribe a user to a category. The category must exist in Taskmaster.",
			func(ctx context.Context, in UserCategoryInput) (any, error) {
				return s.Subscribe(ctx, in.UserEmail, in.CategoryID)
			}),
		newTool("unsubscribe_category", http.MethodPost,
			"Unsubscribe a user from a category.",
			func(ctx context.Context, in UserCategoryInput) (any, error) {
				return s.Unsubscribe(ctx, in.UserEmail, in.CategoryID)
			}),
		newTool("preview_newsletter", http.MethodGet,
			"Preview a user's weekly newsletter built from their subscriptions.",
			func(ctx context.Context, in UserInput) (any, error) {
				return s.PreviewNewsletter(ctx, in.UserEmail)
			}),
		newTool("save_newsletter", http.MethodPost,
			"Render a user's weekly newsletter and archive it.",
			func(ctx context.Context, in UserInput) (any, error) {
				return s.SaveNewsletter(ctx, in.UserEmail)
			}),
		newTool("list_newsletters", http.MethodGet,
			"List the ids of a user's archived newsletters, oldest first.",
			func(ctx context.Context, in UserInput) (any, error) {
				return s.ListNewsletters(ctx, in.UserEmail)
			}),
		newTool("get_newsletter", http.MethodGet,
			"Read one archived newsletter.",
			func(ctx context.Context, in NewsletterInput) (any, error) {
				return s.GetNewsletter(ctx, in.UserEmail, in.ID)
			}),
	}
}
