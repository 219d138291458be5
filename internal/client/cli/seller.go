package cli

import (
	"context"

	"github.com/chepeat/chepeat/internal/client/models"
)

// BecomeSeller collects the store profile and registers the account as a
// seller. On success the session switches to seller mode.
func (a *App) BecomeSeller(ctx context.Context) error {
	var (
		p   models.SellerProfile
		err error
	)

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Store name", &p.StoreName},
		{"Description", &p.Description},
		{"Street", &p.Street},
		{"Exterior number", &p.ExtNumber},
		{"Interior number (optional)", &p.IntNumber},
		{"Neighborhood", &p.Neighborhood},
		{"City", &p.City},
		{"State", &p.State},
		{"Postal code", &p.PostalCode},
		{"Address notes (optional)", &p.AddressNotes},
	}
	for _, f := range fields {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}
	if p.Latitude, err = GetFloat(a.reader, "Latitude", a.out); err != nil {
		return a.alert(err)
	}
	if p.Longitude, err = GetFloat(a.reader, "Longitude", a.out); err != nil {
		return a.alert(err)
	}

	created, err := a.roles.RegisterSeller(ctx, p)
	if err != nil {
		return a.alert(err)
	}
	a.printf("Store %q registered. You are now in seller mode.\n", created.StoreName)
	return nil
}

// Switch changes between buyer and seller mode: "switch buyer|seller".
func (a *App) Switch(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: switch buyer|seller")
		return nil
	}
	if err := a.roles.SwitchRole(ctx, models.Role(args[0])); err != nil {
		return a.alert(err)
	}
	a.printf("Now in %s mode.\n", a.role())
	return nil
}
