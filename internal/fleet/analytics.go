package fleet

import (
	"context"

	"fleetdesk/internal/backend"
	"fleetdesk/internal/domain/fuel"
)

// AnalyticsWindow is how many recent fuel entries the analytics panel covers.
const AnalyticsWindow = 100

// FuelSummary aggregates the most recent fuel entries of orgID, optionally
// for one vehicle.
func (c *Catalog) FuelSummary(ctx context.Context, orgID int64, vehicleNumber string) (fuel.Summary, error) {
	res, err := c.Resource(backend.Fuel.Name)
	if err != nil {
		return fuel.Summary{}, err
	}
	params := backend.ListParams{Page: 1, Count: AnalyticsWindow, OrgID: orgID}
	if vehicleNumber != "" {
		params.Filters = map[string]string{"vehicleNumber": vehicleNumber}
	}
	env, err := res.List(ctx, params)
	if err != nil {
		return fuel.Summary{}, err
	}
	page, _, err := backend.DecodePage[fuel.Entry](env, res.Spec().ListKeys)
	if err != nil {
		return fuel.Summary{}, err
	}
	return fuel.Summarize(page.Rows), nil
}
