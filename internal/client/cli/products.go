package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/chepeat/chepeat/internal/client/models"
)

// Nearby lists products around a location: "nearby [lat lon [km]]". Without
// arguments the coordinates are prompted for; leaving them blank means the
// location is not available.
func (a *App) Nearby(ctx context.Context, args []string) error {
	var (
		lat, lon *float64
		radius   float64
		err      error
	)

	switch len(args) {
	case 0:
		if lat, err = GetOptionalFloat(a.reader, "Latitude (blank if unknown)", a.out); err != nil {
			return a.alert(err)
		}
		if lon, err = GetOptionalFloat(a.reader, "Longitude (blank if unknown)", a.out); err != nil {
			return a.alert(err)
		}
	case 2, 3:
		if lat, err = parseOptionalFloat(args[0]); err != nil {
			return a.alert(err)
		}
		if lon, err = parseOptionalFloat(args[1]); err != nil {
			return a.alert(err)
		}
		if len(args) == 3 {
			if radius, err = strconv.ParseFloat(args[2], 64); err != nil {
				return a.alert(fmt.Errorf("radius: not a number: %q", args[2]))
			}
		}
	default:
		a.println("Usage: nearby [lat lon [km]]")
		return nil
	}

	res, err := a.discovery.DiscoverNearby(ctx, lat, lon, radius)
	if err != nil {
		return a.alert(err)
	}

	if len(res.Succeeded) == 0 && len(res.Failed) == 0 {
		a.println("No products nearby.")
		return nil
	}
	for _, p := range res.Succeeded {
		a.printf("%-10s %-30s $%8.2f  %s\n", p.ID, p.Name, p.Price, p.SellerData.StoreName)
	}
	if len(res.Failed) > 0 {
		a.printf("%d product(s) hidden: their seller could not be loaded.\n", len(res.Failed))
	}
	return nil
}

// Product shows a product from the last nearby search: "product <name>".
func (a *App) Product(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Usage: product <name>")
		return nil
	}
	p, err := a.discovery.FindCachedProduct(ctx, strings.Join(args, " "))
	if err != nil {
		return a.alert(err)
	}
	if p == nil {
		a.println("Product not found. Run 'nearby' first.")
		return nil
	}
	printProduct(a, &p.Product)
	if s := p.SellerData; s != nil {
		a.printf("Sold by:     %s, %s %s, %s\n", s.StoreName, s.Street, s.ExtNumber, s.City)
	}
	return nil
}

func (a *App) MyProducts(ctx context.Context) error {
	list, err := a.products.ListMine(ctx)
	if err != nil {
		return a.alert(err)
	}
	if len(list) == 0 {
		a.println("You have no products yet. Use 'addproduct'.")
		return nil
	}
	for _, p := range list {
		a.printf("%-10s %-30s $%8.2f  stock %d\n", p.ID, p.Name, p.Price, p.Stock)
	}
	return nil
}

func (a *App) AddProduct(ctx context.Context) error {
	var (
		p   models.Product
		err error
	)
	if p.Name, err = getSimpleText(a.reader, "Name", a.out); err != nil {
		return err
	}
	if p.Description, err = getSimpleText(a.reader, "Description", a.out); err != nil {
		return err
	}
	if p.Price, err = GetFloat(a.reader, "Price", a.out); err != nil {
		return a.alert(err)
	}
	if p.Stock, err = GetInt(a.reader, "Stock", a.out); err != nil {
		return a.alert(err)
	}
	if p.Measure, err = getSimpleText(a.reader, "Unit (e.g. kg, pieza)", a.out); err != nil {
		return err
	}

	created, err := a.products.Create(ctx, p)
	if err != nil {
		return a.alert(err)
	}
	a.printf("Product %s created.\n", created.ID)
	return nil
}

func (a *App) ShowProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: showproduct <id>")
		return nil
	}
	p, err := a.products.Get(ctx, args[0])
	if err != nil {
		return a.alert(err)
	}
	printProduct(a, p)
	return nil
}

// UpdateProduct edits one product: "updateproduct <id>". A blank answer
// keeps the current value.
func (a *App) UpdateProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: updateproduct <id>")
		return nil
	}
	p, err := a.products.Get(ctx, args[0])
	if err != nil {
		return a.alert(err)
	}

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name", &p.Name},
		{"Description", &p.Description},
		{"Unit", &p.Measure},
	} {
		s, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.prompt, *f.dst), a.out)
		if err != nil {
			return err
		}
		if s != "" {
			*f.dst = s
		}
	}

	s, err := getSimpleText(a.reader, fmt.Sprintf("Price [%.2f]", p.Price), a.out)
	if err != nil {
		return err
	}
	if s != "" {
		if p.Price, err = strconv.ParseFloat(s, 64); err != nil {
			return a.alert(fmt.Errorf("price: not a number: %q", s))
		}
	}
	if s, err = getSimpleText(a.reader, fmt.Sprintf("Stock [%d]", p.Stock), a.out); err != nil {
		return err
	}
	if s != "" {
		if p.Stock, err = parseInt(s); err != nil {
			return a.alert(err)
		}
	}

	updated, err := a.products.Update(ctx, *p)
	if err != nil {
		return a.alert(err)
	}
	a.printf("Product %s updated.\n", updated.ID)
	return nil
}

func (a *App) DeleteProduct(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.println("Usage: delproduct <id>")
		return nil
	}
	if err := a.products.Delete(ctx, args[0]); err != nil {
		return a.alert(err)
	}
	a.println("Product deleted.")
	return nil
}

func printProduct(a *App, p *models.Product) {
	a.printf("Product:     %s (%s)\n", p.Name, p.ID)
	a.printf("Price:       $%.2f / %s\n", p.Price, p.Measure)
	a.printf("Stock:       %d\n", p.Stock)
	if p.Description != "" {
		a.printf("Description: %s\n", p.Description)
	}
}
