package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/productrhq/productr/internal/client/authflow"
	"github.com/productrhq/productr/internal/client/domain"
	"github.com/productrhq/productr/internal/client/routeguard"
	"github.com/productrhq/productr/pkg/productr"
)

// cmdLogin runs the interactive OTP login: email entry, code entry with
// resend support, session commit.
func (app *Application) cmdLogin(ctx context.Context) error {
	if _, err := app.navigate(routeguard.RouteLogin); err != nil {
		return err
	}

	flow := authflow.NewFlow(app.sdk, app.sessions, app.logger)
	defer flow.Close()
	flow.OnResendReady = func() {
		fmt.Fprintln(app.stdout, "You can now resend the code.")
	}

	reader := bufio.NewScanner(app.stdin)

	email, err := app.prompt(reader, "Email: ")
	if err != nil {
		return err
	}
	if err := flow.SubmitEmail(ctx, email); err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "A 6-digit code was sent to %s.\n", email)

	for {
		line, err := app.prompt(reader, "Code (or 'resend'): ")
		if err != nil {
			return err
		}

		if strings.EqualFold(line, "resend") {
			if !flow.ResendAvailable() {
				remaining := time.Until(flow.ResendAvailableAt()).Round(time.Second)
				fmt.Fprintf(app.stdout, "Resend available in %s.\n", remaining)
				continue
			}
			if err := flow.Resend(ctx); err != nil {
				fmt.Fprintln(app.stdout, err.Error())
			} else {
				fmt.Fprintln(app.stdout, "Code resent.")
			}
			continue
		}

		if err := flow.Paste(line); err != nil {
			fmt.Fprintln(app.stdout, err.Error())
			continue
		}

		if err := flow.Verify(ctx); err != nil {
			if recoverable(err) {
				fmt.Fprintln(app.stdout, err.Error())
				continue
			}
			return err
		}
		break
	}

	sess := app.sessions.GetSession()
	fmt.Fprintf(app.stdout, "Logged in as %s.\n", sess.User.Email)
	return nil
}

// cmdRegister creates an account. Like the web registration page, a
// successful registration signs the new account in immediately.
func (app *Application) cmdRegister(ctx context.Context) error {
	if _, err := app.navigate("/register"); err != nil {
		return err
	}

	reader := bufio.NewScanner(app.stdin)

	name, err := app.prompt(reader, "Name: ")
	if err != nil {
		return err
	}
	email, err := app.prompt(reader, "Email: ")
	if err != nil {
		return err
	}
	password, err := app.prompt(reader, "Password: ")
	if err != nil {
		return err
	}

	auth, err := app.sdk.Register(ctx, productr.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return domain.ClassifyServiceError(err, "Error registering user")
	}

	if err := app.sessions.CommitSession(ctx, &auth.User, auth.Token); err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Registered and logged in as %s.\n", auth.User.Email)
	return nil
}

func (app *Application) cmdLogout(ctx context.Context) error {
	// Clearing is safe when already logged out; no guard needed.
	if err := app.sessions.ClearSession(ctx); err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, "Logged out.")
	return nil
}

func (app *Application) cmdWhoami(ctx context.Context) error {
	sess, err := app.navigate(routeguard.RouteHome)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "User:    %s <%s>\n", sess.User.Name, sess.User.Email)
	if sess.User.Role != "" {
		fmt.Fprintf(app.stdout, "Role:    %s\n", sess.User.Role)
	}
	fmt.Fprintf(app.stdout, "Expires: %s\n", sessionExpiry(sess.Token))
	return nil
}

func (app *Application) cmdItems(ctx context.Context, args []string) error {
	sess, err := app.navigate("/items")
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: productr items <list|get|create|delete|status>")
	}

	switch args[0] {
	case "list":
		items, err := app.sdk.ListItems(ctx, sess.Token, productr.ListItemsParams{})
		if err != nil {
			return domain.ClassifyServiceError(err, "Error fetching items")
		}
		for _, item := range items {
			fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", item.ID, item.Status, item.ProductName)
		}
		return nil

	case "get":
		if len(args) < 2 {
			return errors.New("usage: productr items get <id>")
		}
		item, err := app.sdk.GetItem(ctx, sess.Token, args[1])
		if err != nil {
			return domain.ClassifyServiceError(err, "Error fetching item")
		}
		app.printItem(item)
		return nil

	case "create":
		item, err := app.promptItem()
		if err != nil {
			return err
		}
		created, err := app.sdk.CreateItem(ctx, sess.Token, *item)
		if err != nil {
			return domain.ClassifyServiceError(err, "Error creating item")
		}
		fmt.Fprintf(app.stdout, "Created %s.\n", created.ID)
		return nil

	case "delete":
		if len(args) < 2 {
			return errors.New("usage: productr items delete <id>")
		}
		if err := app.sdk.DeleteItem(ctx, sess.Token, args[1]); err != nil {
			return domain.ClassifyServiceError(err, "Error deleting item")
		}
		fmt.Fprintln(app.stdout, "Deleted.")
		return nil

	case "status":
		if len(args) < 3 {
			return errors.New("usage: productr items status <id> <Active|Inactive>")
		}
		item, err := app.sdk.UpdateItemStatus(ctx, sess.Token, args[1], args[2])
		if err != nil {
			return domain.ClassifyServiceError(err, "Error updating item status")
		}
		fmt.Fprintf(app.stdout, "%s is now %s.\n", item.ID, item.Status)
		return nil

	default:
		return fmt.Errorf("unknown items subcommand %q", args[0])
	}
}

func (app *Application) cmdUsers(ctx context.Context, args []string) error {
	sess, err := app.navigate("/users")
	if err != nil {
		return err
	}
	if len(args) == 0 || args[0] != "list" {
		return errors.New("usage: productr users list")
	}

	users, err := app.sdk.ListUsers(ctx, sess.Token)
	if err != nil {
		return domain.ClassifyServiceError(err, "Error fetching users")
	}
	for _, u := range users {
		fmt.Fprintf(app.stdout, "%s\t%s\t%s\n", u.ID, u.Role, u.Email)
	}
	return nil
}

func (app *Application) printItem(item *productr.Item) {
	fmt.Fprintf(app.stdout, "ID:      %s\n", item.ID)
	fmt.Fprintf(app.stdout, "Name:    %s\n", item.ProductName)
	fmt.Fprintf(app.stdout, "Brand:   %s\n", item.BrandName)
	fmt.Fprintf(app.stdout, "Type:    %s\n", item.ProductType)
	fmt.Fprintf(app.stdout, "Price:   %.2f (MRP %.2f)\n", item.SellingPrice, item.MRP)
	fmt.Fprintf(app.stdout, "Stock:   %d\n", item.QuantityStock)
	fmt.Fprintf(app.stdout, "Status:  %s\n", item.Status)
	if item.Description != "" {
		fmt.Fprintf(app.stdout, "About:   %s\n", item.Description)
	}
}

func (app *Application) promptItem() (*productr.Item, error) {
	reader := bufio.NewScanner(app.stdin)

	name, err := app.prompt(reader, "Product name: ")
	if err != nil {
		return nil, err
	}
	brand, err := app.prompt(reader, "Brand: ")
	if err != nil {
		return nil, err
	}
	ptype, err := app.prompt(reader, "Type: ")
	if err != nil {
		return nil, err
	}

	var price float64
	priceStr, err := app.prompt(reader, "Selling price: ")
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Sscanf(priceStr, "%f", &price); err != nil {
		return nil, fmt.Errorf("invalid price %q", priceStr)
	}

	return &productr.Item{
		ProductName:  name,
		BrandName:    brand,
		ProductType:  ptype,
		SellingPrice: price,
		Status:       productr.ItemStatusActive,
	}, nil
}

// prompt prints label and reads one trimmed line.
func (app *Application) prompt(reader *bufio.Scanner, label string) (string, error) {
	fmt.Fprint(app.stdout, label)
	if !reader.Scan() {
		if err := reader.Err(); err != nil {
			return "", err
		}
		return "", errors.New("input closed")
	}
	return strings.TrimSpace(reader.Text()), nil
}

// recoverable reports whether a login error leaves the flow interactive.
func recoverable(err error) bool {
	var verr *domain.ValidationError
	var rej *domain.ServiceRejection
	var tf *domain.TransportFailure
	return errors.As(err, &verr) || errors.As(err, &rej) || errors.As(err, &tf)
}
