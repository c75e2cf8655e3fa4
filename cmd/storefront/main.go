// Command storefront is a terminal shopping client. The cart lives in a local
// JSON file; checkout sends only product ids and quantities to the API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"storefront/internal/cart"

	"github.com/joho/godotenv"
)

const usage = `usage: storefront [flags] <command> [args]

commands:
  browse [-search s] [-category c] [-page n]   list products
  add <productID> [quantity]                   add a product to the cart
  set <productID> <quantity>                   change a quantity (0 removes)
  remove <productID>                           drop a product
  show                                         print the cart
  clear                                        empty the cart
  checkout [-address a] [-phone p] [-notes n]  place a cash-on-delivery order

flags:
`

func defaultCartPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "storefront-cart.json"
	}
	return filepath.Join(dir, "storefront", "cart.json")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	_ = godotenv.Load()

	fs := flag.NewFlagSet("storefront", flag.ExitOnError)
	apiURL := fs.String("api", envOr("STOREFRONT_API", "http://localhost:8080"), "API base URL")
	token := fs.String("token", os.Getenv("STOREFRONT_TOKEN"), "bearer token for checkout")
	cartPath := fs.String("cart", envOr("STOREFRONT_CART", defaultCartPath()), "cart file")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sh := &shell{
		api:      newClient(*apiURL, *token),
		cartPath: *cartPath,
		out:      os.Stdout,
	}
	if err := sh.run(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

type shell struct {
	api      *client
	cartPath string
	out      io.Writer
}

var errUsage = errors.New("bad arguments, run storefront -h")

func (sh *shell) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "browse":
		return sh.browse(ctx, args)
	case "add":
		return sh.add(ctx, args)
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		return sh.update(cart.SetQuantity{Product: args[0], Quantity: qty})
	case "remove":
		if len(args) != 1 {
			return errUsage
		}
		return sh.update(cart.Remove{Product: args[0]})
	case "clear":
		return sh.update(cart.Clear{})
	case "show":
		sh.print(cart.Load(sh.cartPath))
		return nil
	case "checkout":
		return sh.checkout(ctx, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func (sh *shell) update(a cart.Action) error {
	s := cart.Reduce(cart.Load(sh.cartPath), a)
	if err := cart.Save(sh.cartPath, s); err != nil {
		return err
	}
	sh.print(s)
	return nil
}

func (sh *shell) browse(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("browse", flag.ContinueOnError)
	search := fs.String("search", "", "name contains")
	category := fs.String("category", "", "category name")
	page := fs.Int("page", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := sh.api.Products(ctx, *search, *category, *page)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, p := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Category, p.Price.StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(sh.out, "page %d of %d, %d products\n", res.Page, res.TotalPages, res.Total)
	return nil
}

func (sh *shell) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return errUsage
	}
	qty := 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		qty = n
	}

	p, err := sh.api.Product(ctx, args[0])
	if err != nil {
		return err
	}
	if p.Deleted {
		return fmt.Errorf("product %s is no longer sold", p.ID)
	}

	line := cart.Line{Product: p.ID, Name: p.Name, Price: p.Price, Quantity: qty}
	if len(p.Photos) > 0 {
		line.PhotoURL = p.Photos[0].URL
	}
	return sh.update(cart.Add{Line: line})
}

func (sh *shell) checkout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	address := fs.String("address", "", "shipping address")
	phone := fs.String("phone", "", "contact phone")
	notes := fs.String("notes", "", "order notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := cart.Load(sh.cartPath)
	if len(s.Items) == 0 {
		return errors.New("cart is empty")
	}

	o, err := sh.api.Checkout(ctx, s.Checkout(cart.Shipping{Address: *address, Phone: *phone, Notes: *notes}))
	if err != nil {
		// the cart is kept so the order can be retried
		return err
	}

	if err := cart.Save(sh.cartPath, cart.Reduce(s, cart.Clear{})); err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "order %s placed, total %s (%s)\n", o.OrderNumber, o.TotalAmount.StringFixed(2), o.Status)
	return nil
}

func (sh *shell) print(s cart.State) {
	if len(s.Items) == 0 {
		fmt.Fprintln(sh.out, "cart is empty")
		return
	}
	tw := tabwriter.NewWriter(sh.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE")
	for _, l := range s.Items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", l.Product, l.Name, l.Quantity, l.Price.StringFixed(2))
	}
	tw.Flush()
	fmt.Fprintf(sh.out, "%d items, subtotal %s\n", s.Count(), s.Subtotal().StringFixed(2))
}
