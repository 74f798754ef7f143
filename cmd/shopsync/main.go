// Command shopsync is an interactive storefront client. All commands run on
// a single loop; every network failure prints a notice and returns to the
// prompt with the local cart cache left at its last known-good state.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/sahdev/shopsync/internal/api"
	"github.com/sahdev/shopsync/internal/auth"
	"github.com/sahdev/shopsync/internal/cart"
	"github.com/sahdev/shopsync/internal/checkout"
	"github.com/sahdev/shopsync/internal/config"
	"github.com/sahdev/shopsync/internal/domain"
	"github.com/sahdev/shopsync/internal/orders"
)

type app struct {
	cfg       config.ClientConfig
	session   *auth.Session
	client    *api.Client
	cart      *cart.Store
	checkout  *checkout.Orchestrator
	lifecycle *orders.Lifecycle
}

func main() {
	cfg := config.Load().Client

	session := auth.NewSession()
	client := api.New(cfg.BaseURL, session)
	store := cart.NewStore(client, session)

	a := &app{
		cfg:       cfg,
		session:   session,
		client:    client,
		cart:      store,
		checkout:  checkout.New(client, store, session),
		lifecycle: orders.NewLifecycle(client),
	}

	// Login loads the cart, logout discards it.
	session.Subscribe(func(st auth.State) {
		ctx, cancel := a.opCtx()
		defer cancel()
		store.HandleAuthChange(ctx, st.Authenticated)
	})

	fmt.Printf("shopsync connected to %s - type 'help' for commands\n", cfg.BaseURL)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(a.prompt())
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return
		}
		a.dispatch(fields)
	}
}

func (a *app) prompt() string {
	if user := a.session.User(); user != nil {
		return user.Username + "> "
	}
	return "guest> "
}

func (a *app) opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.RequestTimeout)
}

func (a *app) dispatch(args []string) {
	ctx, cancel := a.opCtx()
	defer cancel()

	var err error
	switch args[0] {
	case "help":
		printHelp()
	case "register":
		err = a.register(ctx, args[1:])
	case "login":
		err = a.login(ctx, args[1:])
	case "logout":
		a.session.Clear()
		fmt.Println("logged out")
	case "whoami":
		a.whoami()
	case "products":
		err = a.listProducts(ctx)
	case "product":
		err = a.showProduct(ctx, args[1:])
	case "categories":
		err = a.listCategories(ctx)
	case "category":
		err = a.listByCategory(ctx, args[1:])
	case "search":
		err = a.search(ctx, args[1:])
	case "cart":
		a.showCart()
	case "add":
		err = a.add(ctx, args[1:])
	case "remove":
		err = a.remove(ctx, args[1:])
	case "checkout":
		err = a.placeOrder(ctx, args[1:])
	case "orders":
		err = a.orderHistory(ctx)
	case "admin":
		err = a.admin(ctx, args[1:])
	default:
		fmt.Printf("unknown command %q - type 'help'\n", args[0])
	}

	if err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

func printHelp() {
	fmt.Print(`commands:
  register <username> <email> <password>
  login <username> <password>
  logout | whoami
  products | product <id> | categories | category <name> | search <terms...>
  cart | add <productId> [qty] | remove <itemId>
  checkout <COD|CARD|UPI> <shipping address...>
  orders
  admin orders
  admin status <orderId> <PENDING|PROCESSING|SHIPPED|DELIVERED|CANCELLED>
  admin add-product <name> <brand> <category> <price> <stock>
  admin rm-product <id>
  quit
`)
}

func (a *app) register(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: register <username> <email> <password>")
	}
	resp, err := a.client.Register(ctx, api.RegisterParams{
		Username: args[0], Email: args[1], Password: args[2],
	})
	if err != nil {
		return err
	}
	a.installAuth(resp)
	fmt.Printf("registered and logged in as %s\n", resp.Username)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: login <username> <password>")
	}
	resp, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	a.installAuth(resp)
	fmt.Printf("logged in as %s (%s)\n", resp.Username, resp.Role)
	return nil
}

func (a *app) installAuth(resp *domain.AuthResponse) {
	a.session.SetCredentials(resp.Token, &domain.User{
		Username: resp.Username,
		Email:    resp.Email,
		Role:     resp.Role,
	})
}

func (a *app) whoami() {
	user := a.session.User()
	if user == nil {
		fmt.Println("not logged in")
		return
	}
	fmt.Printf("%s (%s) role=%s\n", user.Username, user.Email, user.Role)
}

func (a *app) listProducts(ctx context.Context) error {
	products, err := a.client.Products(ctx)
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (a *app) showProduct(ctx context.Context, args []string) error {
	id, err := parseID(args, "usage: product <id>")
	if err != nil {
		return err
	}
	p, err := a.client.ProductByID(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("#%d %s - %s [%s]\n  %s\n  price %s, %d in stock\n",
		p.ID, p.Name, p.Brand, p.Category, p.Description, inr(p.Price), p.StockQuantity)
	return nil
}

func (a *app) listCategories(ctx context.Context) error {
	categories, err := a.client.Categories(ctx)
	if err != nil {
		return err
	}
	fmt.Println(strings.Join(categories, ", "))
	return nil
}

func (a *app) listByCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: category <name>")
	}
	products, err := a.client.ProductsByCategory(ctx, args[0])
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (a *app) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search <terms...>")
	}
	products, err := a.client.SearchProducts(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printProducts(products)
	return nil
}

func (a *app) showCart() {
	snapshot := a.cart.Snapshot()
	if snapshot == nil {
		fmt.Println("no cart - log in first")
		return
	}
	if len(snapshot.Items) == 0 {
		fmt.Println("your cart is empty")
		return
	}
	for _, item := range snapshot.Items {
		fmt.Printf("  [%d] %s  %s x %d = %s\n",
			item.ID, item.Product.Name, inr(item.Price), item.Quantity, inr(item.Subtotal()))
	}
	fmt.Printf("total: %s\n", inr(snapshot.TotalAmount))
}

func (a *app) add(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: add <productId> [qty]")
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}
	quantity := 1
	if len(args) == 2 {
		if quantity, err = strconv.Atoi(args[1]); err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
	}

	if err := a.cart.Add(ctx, productID, quantity); err != nil {
		return err
	}
	fmt.Println("added to cart")
	a.showCart()
	return nil
}

func (a *app) remove(ctx context.Context, args []string) error {
	itemID, err := parseID(args, "usage: remove <itemId>")
	if err != nil {
		return err
	}
	if err := a.cart.Remove(ctx, itemID); err != nil {
		return err
	}
	fmt.Println("removed from cart")
	a.showCart()
	return nil
}

func (a *app) placeOrder(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: checkout <COD|CARD|UPI> <shipping address...>")
	}
	method := domain.PaymentMethod(strings.ToUpper(args[0]))
	address := strings.Join(args[1:], " ")

	order, err := a.checkout.Checkout(ctx, address, method)
	if err != nil {
		return err
	}
	fmt.Printf("order #%d placed: %s via %s\n", order.ID, inr(order.TotalAmount), order.PaymentMethod)
	return a.orderHistory(ctx)
}

func (a *app) orderHistory(ctx context.Context) error {
	history, err := a.client.OrderHistory(ctx)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Println("no orders yet")
		return nil
	}
	printOrders(history)
	return nil
}

func (a *app) admin(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: admin <orders|status|add-product|rm-product> ...")
	}

	switch args[0] {
	case "orders":
		if err := a.lifecycle.Refresh(ctx); err != nil {
			return err
		}
		printOrders(a.lifecycle.Orders())
		return nil
	case "status":
		if len(args) != 3 {
			return fmt.Errorf("usage: admin status <orderId> <STATUS>")
		}
		orderID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[1])
		}
		status := domain.OrderStatus(strings.ToUpper(args[2]))
		if err := a.lifecycle.SetStatus(ctx, orderID, status); err != nil {
			return err
		}
		printOrders(a.lifecycle.Orders())
		return nil
	case "add-product":
		if len(args) != 6 {
			return fmt.Errorf("usage: admin add-product <name> <brand> <category> <price> <stock>")
		}
		price, err := decimal.NewFromString(args[4])
		if err != nil {
			return fmt.Errorf("invalid price %q", args[4])
		}
		stock, err := strconv.Atoi(args[5])
		if err != nil {
			return fmt.Errorf("invalid stock %q", args[5])
		}
		product, err := a.client.AdminCreateProduct(ctx, domain.Product{
			Name: args[1], Brand: args[2], Category: args[3],
			Price: price, StockQuantity: stock,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created product #%d %s\n", product.ID, product.Name)
		return nil
	case "rm-product":
		id, err := parseID(args[1:], "usage: admin rm-product <id>")
		if err != nil {
			return err
		}
		if err := a.client.AdminDeleteProduct(ctx, id); err != nil {
			return err
		}
		fmt.Println("product deleted")
		return nil
	default:
		return fmt.Errorf("unknown admin command %q", args[0])
	}
}

func printProducts(products []domain.Product) {
	if len(products) == 0 {
		fmt.Println("no products found")
		return
	}
	for _, p := range products {
		fmt.Printf("  #%d %-30s %-12s %-8s %s (%d in stock)\n",
			p.ID, p.Name, p.Brand, p.Category, inr(p.Price), p.StockQuantity)
	}
}

func printOrders(list []domain.Order) {
	for _, o := range list {
		who := ""
		if o.User != nil {
			who = " by " + o.User.Username
		}
		fmt.Printf("  order #%d%s  %s  %s  %s (%d items)\n",
			o.ID, who, o.OrderDate.Format("2006-01-02 15:04"), o.Status, inr(o.TotalAmount), len(o.Items))
	}
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("%s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// inr renders an amount in the storefront's single display currency.
func inr(amount decimal.Decimal) string {
	value, _ := amount.Float64()
	return fmt.Sprintf("%v", currency.NarrowSymbol(currency.INR.Amount(value)))
}
