package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/kazz187/taskdigest/internal/client"
)

var (
	tasksWindowSet, searchWindowSet, providerWindowSet, taskWindowSet bool

	app = kingpin.New("taskdigest", "Query Taskmaster digests from a running taskdigest server")

	serverURL = app.Flag("server", "taskdigest server URL").Default("http://localhost:8000").Envar("TASKDIGEST_SERVER").String()
	apiKey    = app.Flag("api-key", "API key for the server").Envar("TASKDIGEST_API_KEY").String()
	output    = app.Flag("output", "Output format for structured results").Short('o').Default("yaml").Enum("json", "yaml")

	categoriesCmd = app.Command("categories", "List categories")

	tasksCmd      = app.Command("tasks", "List the tasks of a category")
	tasksCategory = tasksCmd.Arg("category-id", "Category ID").Required().Int64()
	tasksWindow   = tasksCmd.Flag("window", "Lookback window in days, 0 for all time").IsSetByUser(&tasksWindowSet).Int()

	searchCmd    = app.Command("search", "Search tasks across all categories")
	searchQuery  = searchCmd.Arg("query", "Text to match against id, subject and assignee").Required().String()
	searchWindow = searchCmd.Flag("window", "Lookback window in days, 0 for all time").IsSetByUser(&searchWindowSet).Int()

	providerCmd    = app.Command("provider", "Summarize updates for a provider alias")
	providerAlias  = providerCmd.Arg("alias", "Provider alias").Required().String()
	providerDetail = providerCmd.Flag("detail", "short or detailed").Default("short").Enum("short", "detailed")
	providerWindow = providerCmd.Flag("window", "Lookback window in days, 0 for all time").IsSetByUser(&providerWindowSet).Int()

	taskCmd    = app.Command("task", "Summarize one task")
	taskID     = taskCmd.Arg("id", "Task ID").Required().Int64()
	taskDetail = taskCmd.Flag("detail", "short or detailed").Default("short").Enum("short", "detailed")
	taskWindow = taskCmd.Flag("window", "Lookback window in days").IsSetByUser(&taskWindowSet).Int()

	blockedCmd = app.Command("blocked", "List blocked tasks")
	overdueCmd = app.Command("overdue", "List overdue tasks")

	weeklyCmd      = app.Command("weekly", "Summarize the last seven days of a category")
	weeklyCategory = weeklyCmd.Arg("category-id", "Category ID").Required().Int64()

	subsCmd = app.Command("subs", "Manage subscriptions")

	subsListCmd   = subsCmd.Command("list", "List a user's subscriptions")
	subsListEmail = subsListCmd.Arg("email", "User email").Required().String()

	subsAddCmd      = subsCmd.Command("add", "Subscribe a user to a category")
	subsAddEmail    = subsAddCmd.Arg("email", "User email").Required().String()
	subsAddCategory = subsAddCmd.Arg("category-id", "Category ID").Required().Int64()

	subsRemoveCmd      = subsCmd.Command("remove", "Unsubscribe a user from a category")
	subsRemoveEmail    = subsRemoveCmd.Arg("email", "User email").Required().String()
	subsRemoveCategory = subsRemoveCmd.Arg("category-id", "Category ID").Required().Int64()

	newsletterCmd = app.Command("newsletter", "Weekly newsletters")

	newsletterPreviewCmd   = newsletterCmd.Command("preview", "Preview a user's newsletter")
	newsletterPreviewEmail = newsletterPreviewCmd.Arg("email", "User email").Required().String()

	newsletterSaveCmd   = newsletterCmd.Command("save", "Render and archive a user's newsletter")
	newsletterSaveEmail = newsletterSaveCmd.Arg("email", "User email").Required().String()

	newsletterListCmd   = newsletterCmd.Command("list", "List archived newsletters")
	newsletterListEmail = newsletterListCmd.Arg("email", "User email").Required().String()

	newsletterShowCmd   = newsletterCmd.Command("show", "Show one archived newsletter")
	newsletterShowEmail = newsletterShowCmd.Arg("email", "User email").Required().String()
	newsletterShowID    = newsletterShowCmd.Arg("id", "Newsletter ID").Required().String()
)

type call struct {
	method string
	tool   string
	args   url.Values
}

// windowArg forwards --window only when given, so the server default applies.
func windowArg(args url.Values, set bool, days int) {
	if set {
		args.Set("window_days", strconv.Itoa(days))
	}
}

func id(n int64) string {
	return strconv.FormatInt(n, 10)
}

func main() {
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	var c call
	switch command {
	case categoriesCmd.FullCommand():
		c = call{http.MethodGet, "get_categories", nil}
	case tasksCmd.FullCommand():
		c = call{http.MethodGet, "get_category_tasks", url.Values{"category_id": {id(*tasksCategory)}}}
		windowArg(c.args, tasksWindowSet, *tasksWindow)
	case searchCmd.FullCommand():
		c = call{http.MethodGet, "search_tasks", url.Values{"query": {*searchQuery}}}
		windowArg(c.args, searchWindowSet, *searchWindow)
	case providerCmd.FullCommand():
		c = call{http.MethodGet, "get_provider_updates", url.Values{"provider_alias": {*providerAlias}, "detail_level": {*providerDetail}}}
		windowArg(c.args, providerWindowSet, *providerWindow)
	case taskCmd.FullCommand():
		c = call{http.MethodGet, "get_task_summary", url.Values{"task_id": {id(*taskID)}, "detail_level": {*taskDetail}}}
		windowArg(c.args, taskWindowSet, *taskWindow)
	case blockedCmd.FullCommand():
		c = call{http.MethodGet, "get_blocked_tasks", nil}
	case overdueCmd.FullCommand():
		c = call{http.MethodGet, "get_overdue_tasks", nil}
	case weeklyCmd.FullCommand():
		c = call{http.MethodGet, "get_weekly_summary", url.Values{"category_id": {id(*weeklyCategory)}}}
	case subsListCmd.FullCommand():
		c = call{http.MethodGet, "list_user_subscriptions", url.Values{"user_email": {*subsListEmail}}}
	case subsAddCmd.FullCommand():
		c = call{http.MethodPost, "subscribe_category", url.Values{"user_email": {*subsAddEmail}, "category_id": {id(*subsAddCategory)}}}
	case subsRemoveCmd.FullCommand():
		c = call{http.MethodPost, "unsubscribe_category", url.Values{"user_email": {*subsRemoveEmail}, "category_id": {id(*subsRemoveCategory)}}}
	case newsletterPreviewCmd.FullCommand():
		c = call{http.MethodGet, "preview_newsletter", url.Values{"user_email": {*newsletterPreviewEmail}}}
	case newsletterSaveCmd.FullCommand():
		c = call{http.MethodPost, "save_newsletter", url.Values{"user_email": {*newsletterSaveEmail}}}
	case newsletterListCmd.FullCommand():
		c = call{http.MethodGet, "list_newsletters", url.Values{"user_email": {*newsletterListEmail}}}
	case newsletterShowCmd.FullCommand():
		c = call{http.MethodGet, "get_newsletter", url.Values{"user_email": {*newsletterShowEmail}, "id": {*newsletterShowID}}}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	body, err := client.New(*serverURL, *apiKey).Call(ctx, c.method, c.tool, c.args)
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
	if err := render(os.Stdout, body, *output); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
