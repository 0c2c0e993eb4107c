package cli

import "context"

func (a *App) dashboardScreen(ctx context.Context, _ map[string]string, _ []string) error {
	summary, err := a.dash.Summary(ctx)
	if err != nil {
		a.showError(err)
		return err
	}
	a.renderSummary(summary)

	top, err := a.dash.TopVoted(ctx)
	if err != nil {
		a.showError(err)
		return err
	}
	a.println()
	a.renderTopVoted(top)
	return nil
}
