package cli

import "github.com/dmitrijs2005/quotehub/internal/client/router"

func (a *App) commands() []command {
	return []command{
		{names: []string{"home"}, usage: "home", help: "top voted quotes", run: a.cmdPath(router.PathHome)},
		{names: []string{"list", "l"}, usage: "list [page]", help: "browse quotes", run: a.cmdList},
		{names: []string{"next", "n"}, usage: "next", help: "next page", run: a.cmdNext},
		{names: []string{"prev", "p"}, usage: "prev", help: "previous page", run: a.cmdPrev},
		{names: []string{"search"}, usage: "search [text]", help: "filter by text (no text clears)", run: a.cmdSearch},
		{names: []string{"category"}, usage: "category <name|all>", help: "filter by category", run: a.cmdCategory},
		{names: []string{"author"}, usage: "author [name]", help: "filter by author (no name clears)", run: a.cmdAuthor},
		{names: []string{"mine"}, usage: "mine", help: "only quotes you posted", shown: memberOnly, run: a.cmdMine},
		{names: []string{"sort"}, usage: "sort <votes|newest|updated|author> [asc|desc]", help: "change ordering", run: a.cmdSort},
		{names: []string{"reset"}, usage: "reset", help: "clear all filters", run: a.cmdReset},
		{names: []string{"show"}, usage: "show <n|id>", help: "quote details", run: a.cmdShow},
		{names: []string{"vote"}, usage: "vote <n|id>", help: "vote, or remove your vote", shown: memberOnly, run: a.cmdVote},
		{names: []string{"add"}, usage: "add", help: "post a quote", shown: memberOnly, run: a.cmdPath(router.PathAddQuote)},
		{names: []string{"edit"}, usage: "edit <n|id>", help: "edit one of your quotes", shown: memberOnly, run: a.cmdEdit},
		{names: []string{"delete"}, usage: "delete <n|id>", help: "delete one of your quotes", shown: memberOnly, run: a.cmdDelete},
		{names: []string{"dashboard"}, usage: "dashboard", help: "your statistics", shown: memberOnly, run: a.cmdPath(router.PathDashboard)},
		{names: []string{"profile"}, usage: "profile [edit|password]", help: "view or change your profile", shown: memberOnly, run: a.cmdProfile},
		{names: []string{"whoami"}, usage: "whoami", help: "current session", run: a.cmdWhoami},
		{names: []string{"open"}, usage: "open <path>", help: "open a page by path", run: a.cmdOpen},
		{names: []string{"login"}, usage: "login", help: "sign in", shown: guestOnly, run: a.cmdPath(router.PathLogin)},
		{names: []string{"register"}, usage: "register", help: "create an account", shown: guestOnly, run: a.cmdPath(router.PathRegister)},
		{names: []string{"logout"}, usage: "logout", help: "sign out", shown: memberOnly, run: a.cmdLogout},
	}
}
