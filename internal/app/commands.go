package app

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/haugland/velour/internal/api"
	"github.com/haugland/velour/internal/catalog"
	"github.com/haugland/velour/internal/checkout"
	"github.com/haugland/velour/internal/forms"
	"github.com/haugland/velour/internal/search"
	"github.com/haugland/velour/pkg/format"
)

// loadCatalog fetches the full product collection. Catalog read failures
// surface as an empty collection rather than an error: the storefront shows
// zero products instead of crashing.
func loadCatalog(ctx context.Context, e *env) []catalog.Product {
	products, _, err := e.client.Products(ctx)
	if err != nil {
		e.lg.Warn("Catalog fetch failed, showing empty collection", zap.Error(err))
		return nil
	}
	return products
}

func runList(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	var (
		minPrice  = fs.String("min-price", "", "minimum discounted price")
		maxPrice  = fs.String("max-price", "", "maximum discounted price")
		minRating = fs.Float64("min-rating", 0, "minimum rating (0-5)")
		tags      = fs.String("tags", "", "comma-separated tags (any match)")
		sortMode  = fs.String("sort", string(catalog.SortDefault), "sort mode")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	fcfg := catalog.DefaultFilterConfig()
	if *minPrice != "" {
		v, err := decimal.NewFromString(*minPrice)
		if err != nil {
			return errors.Wrap(err, "parse -min-price")
		}
		fcfg.PriceMin = v
	}
	if *maxPrice != "" {
		v, err := decimal.NewFromString(*maxPrice)
		if err != nil {
			return errors.Wrap(err, "parse -max-price")
		}
		fcfg.PriceMax = v
	}
	if fcfg.PriceMin.GreaterThan(fcfg.PriceMax) {
		return errors.New("-min-price must not exceed -max-price")
	}
	fcfg.MinRating = *minRating
	fcfg.Sort = catalog.SortMode(*sortMode)
	for _, tag := range strings.Split(*tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			fcfg.Tags[tag] = struct{}{}
		}
	}

	products := loadCatalog(ctx, e)
	display := catalog.Apply(products, fcfg)
	printProducts(display)
	fmt.Printf("Showing %d of %d products\n", len(display), len(products))
	return nil
}

func runShow(ctx context.Context, e *env, id string) error {
	p, err := e.client.ProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			fmt.Printf("Product %q not found.\n", id)
			return nil
		}
		return errors.Wrap(err, "get product")
	}

	fmt.Printf("%s  [%s]\n", p.Title, p.ID)
	if pct := p.DiscountPercent(); pct > 0 {
		fmt.Printf("Price: %s (was %s, -%d%%)\n", format.Price(p.DiscountedPrice), format.Price(p.Price), pct)
	} else {
		fmt.Printf("Price: %s\n", format.Price(p.DiscountedPrice))
	}
	fmt.Printf("Rating: %.1f/5\n", p.Rating)
	if len(p.Tags) > 0 {
		fmt.Printf("Tags: %s\n", strings.Join(p.Tags, ", "))
	}
	fmt.Println(format.Truncate(p.Description, 280))
	if len(p.Reviews) > 0 {
		fmt.Printf("\nReviews (%d):\n", len(p.Reviews))
		for _, r := range p.Reviews {
			fmt.Printf("  %.1f/5 %s — %s\n", r.Rating, r.Username, format.Truncate(r.Description, 120))
		}
	}
	return nil
}

func runSearch(ctx context.Context, e *env, words []string) error {
	query := strings.Join(words, " ")
	products, _, err := e.client.SearchProducts(ctx, query)
	if err != nil {
		// Fall back to a local title match over the full collection; no retry.
		e.lg.Warn("Search failed, using local fallback", zap.String("query", query), zap.Error(err))
		products = catalog.MatchTitle(loadCatalog(ctx, e), query)
	}
	printProducts(products)
	fmt.Printf("%d matching products\n", len(products))
	return nil
}

func runCart(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		args = []string{"show"}
	}
	switch args[0] {
	case "show":
		printCart(e)
		return nil
	case "add":
		if len(args) != 2 {
			return errors.New("usage: cart add <product-id>")
		}
		p, err := e.client.ProductByID(ctx, args[1])
		if err != nil {
			if errors.Is(err, catalog.ErrNotFound) {
				fmt.Printf("Product %q not found.\n", args[1])
				return nil
			}
			return errors.Wrap(err, "get product")
		}
		e.carts.AddItem(*p)
		printCart(e)
		return nil
	case "rm":
		if len(args) != 2 {
			return errors.New("usage: cart rm <product-id>")
		}
		e.carts.RemoveItem(args[1])
		printCart(e)
		return nil
	case "qty":
		if len(args) != 3 {
			return errors.New("usage: cart qty <product-id> <quantity>")
		}
		qty, err := strconv.Atoi(args[2])
		if err != nil {
			return errors.Wrap(err, "parse quantity")
		}
		// The store ignores quantities below 1; clamp here the way the
		// stepper controls do.
		if qty < 1 {
			qty = 1
		}
		e.carts.UpdateQuantity(args[1], qty)
		printCart(e)
		return nil
	case "clear":
		e.carts.ClearCart()
		fmt.Println("Cart cleared.")
		return nil
	default:
		return errors.Errorf("unknown cart command: %q", args[0])
	}
}

func runLogin(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	var (
		email    = fs.String("email", "", "account email")
		password = fs.String("password", "", "account password")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := forms.Login{Email: *email, Password: *password}
	if err := form.Validate(); err != nil {
		printValidation(err)
		return nil
	}

	user, err := e.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		// Auth failures are transient notifications; the command can simply
		// be retried with corrected credentials.
		fmt.Printf("Login failed: %s\n", errorMessage(err))
		return nil
	}

	e.sessions.SetUser(user)
	fmt.Printf("Logged in as %s.\n", user.Name)
	return nil
}

func runRegister(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	var (
		name      = fs.String("name", "", "username (letters, numbers, underscores)")
		email     = fs.String("email", "", "stud.noroff.no email")
		password  = fs.String("password", "", "password (min 8 characters)")
		bio       = fs.String("bio", "", "profile bio")
		avatarURL = fs.String("avatar-url", "", "avatar image URL")
		avatarAlt = fs.String("avatar-alt", "", "avatar alt text")
		bannerURL = fs.String("banner-url", "", "banner image URL")
		bannerAlt = fs.String("banner-alt", "", "banner alt text")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := forms.Registration{
		Name:      *name,
		Email:     *email,
		Password:  *password,
		Bio:       *bio,
		AvatarURL: *avatarURL,
		AvatarAlt: *avatarAlt,
		BannerURL: *bannerURL,
		BannerAlt: *bannerAlt,
	}
	if err := form.Validate(); err != nil {
		printValidation(err)
		return nil
	}

	req := api.RegisterRequest{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Bio:      form.Bio,
	}
	if form.AvatarURL != "" {
		req.Avatar = &catalog.Media{URL: form.AvatarURL, Alt: form.AvatarAlt}
	}
	if form.BannerURL != "" {
		req.Banner = &catalog.Media{URL: form.BannerURL, Alt: form.BannerAlt}
	}

	if _, err := e.client.Register(ctx, req); err != nil {
		fmt.Printf("Registration failed: %s\n", errorMessage(err))
		return nil
	}

	fmt.Println("Registration successful. You can now log in.")
	return nil
}

func runCheckout(ctx context.Context, e *env) error {
	proc := checkout.NewProcessor(e.cfg.Checkout.Delay)
	order, err := proc.Checkout(ctx, e.carts)
	if err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			fmt.Println("Your cart is empty.")
			return nil
		}
		return errors.Wrap(err, "checkout")
	}

	fmt.Println("Thank you for your order!")
	fmt.Printf("Order %s — %d items, %s\n", order.ID, len(order.Items), format.Price(order.Total))
	return nil
}

// runShop starts the interactive prompt. Plain input is treated as a search
// query and flows through the debounced searcher; lines starting with ':'
// are commands.
func runShop(ctx context.Context, e *env) error {
	products := loadCatalog(ctx, e)

	deb := search.NewDebouncer(search.Config{
		Backend: search.BackendFunc(func(ctx context.Context, query string) ([]catalog.Product, error) {
			results, _, err := e.client.SearchProducts(ctx, query)
			return results, err
		}),
		Local:   func() []catalog.Product { return products },
		Window:  e.cfg.Search.Debounce,
		Logger:  e.lg,
		Deliver: func(res search.Result) {
			if res.Query == "" {
				fmt.Printf("\nFull collection (%d products)\n", len(res.Products))
			} else if res.Fallback {
				fmt.Printf("\nResults for %q (offline match, %d products)\n", res.Query, len(res.Products))
			} else {
				fmt.Printf("\nResults for %q (%d products)\n", res.Query, len(res.Products))
			}
			printProducts(res.Products)
			fmt.Print("> ")
		},
	})
	defer deb.Stop()

	fmt.Printf("Loaded %d products. Type to search, :help for commands.\n> ", len(products))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, ":") {
			deb.Update(ctx, line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":quit", ":q":
			return nil
		case ":help":
			fmt.Println("Commands: :add <id>, :rm <id>, :qty <id> <n>, :cart, :clear, :tags, :checkout, :quit")
		case ":cart":
			printCart(e)
		case ":add", ":rm", ":qty", ":clear":
			if err := runCart(ctx, e, append([]string{strings.TrimPrefix(fields[0], ":")}, fields[1:]...)); err != nil {
				fmt.Println(err)
			}
		case ":tags":
			fmt.Println(strings.Join(catalog.AvailableTags(products), ", "))
		case ":checkout":
			if err := runCheckout(ctx, e); err != nil {
				fmt.Println(err)
			}
		default:
			fmt.Printf("Unknown command %q, :help for commands.\n", fields[0])
		}
		fmt.Print("> ")
	}
	return scanner.Err()
}

func printProducts(products []catalog.Product) {
	if len(products) == 0 {
		fmt.Println("No products found. Try adjusting your filters or search.")
		return
	}
	for _, p := range products {
		line := fmt.Sprintf("%-24s %-32s %10s  %.1f/5", p.ID, format.Truncate(p.Title, 30), format.Price(p.DiscountedPrice), p.Rating)
		if pct := p.DiscountPercent(); pct > 0 {
			line += fmt.Sprintf("  (-%d%%)", pct)
		}
		fmt.Println(line)
	}
}

func printCart(e *env) {
	st := e.carts.State()
	if len(st.Items) == 0 {
		fmt.Println("Your cart is empty.")
		return
	}
	for _, it := range st.Items {
		fmt.Printf("%dx %-32s %10s  [%s]\n", it.Quantity, format.Truncate(it.Title, 30),
			format.Price(it.DiscountedPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))), it.ID)
	}
	fmt.Printf("Total: %s\n", format.Price(st.Total))
}

func printValidation(err error) {
	var errs forms.ValidationErrors
	if errors.As(err, &errs) {
		for _, ve := range errs {
			fmt.Printf("Invalid %s: %s\n", ve.Field, ve.Message)
		}
		return
	}
	fmt.Println(err)
}

// errorMessage extracts the user-facing message from an API error, falling
// back to a generic text for network failures.
func errorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "could not reach the server, please try again"
}
