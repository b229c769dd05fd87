package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"expenses/internal/form"
	"expenses/internal/services"
)

var errUsage = errors.New("usage: expensectl list|recent|add|edit <id>|delete <id>")

func run(ctx context.Context, svc *services.ExpenseService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, rest := args[0], args[1:]

	// Every screen starts from a fresh mirror.
	if err := svc.Load(ctx); err != nil {
		if cmd == "list" || cmd == "recent" {
			fmt.Fprintln(out, services.UserMessage(err))
			return nil
		}
		return errors.New(services.UserMessage(err))
	}

	switch cmd {
	case "list":
		printView(out, svc.All())
		return nil
	case "recent":
		printView(out, svc.Recent())
		return nil
	case "add":
		return submit(ctx, svc, "", rest, out)
	case "edit":
		fs := newFieldFlags("edit")
		if err := fs.parse(rest); err != nil {
			return err
		}
		if fs.NArg() != 1 {
			return errUsage
		}
		return submitWith(ctx, svc, fs.Arg(0), fs, out)
	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		if err := svc.Delete(ctx, rest[0]); err != nil {
			if msg := services.UserMessage(err); msg != "" {
				return errors.New(msg)
			}
			return err
		}
		fmt.Fprintf(out, "Deleted %s\n", rest[0])
		return nil
	default:
		return errUsage
	}
}

type fieldFlags struct {
	*flag.FlagSet
	values map[form.FieldName]*string
}

func newFieldFlags(name string) *fieldFlags {
	fs := &fieldFlags{
		FlagSet: flag.NewFlagSet(name, flag.ContinueOnError),
		values:  make(map[form.FieldName]*string),
	}
	fs.SetOutput(io.Discard)
	for _, f := range form.Fields {
		fs.values[f] = fs.String(string(f), "", "expense "+string(f))
	}
	return fs
}

func (fs *fieldFlags) parse(args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// set reports the fields given on the command line.
func (fs *fieldFlags) set() map[form.FieldName]bool {
	seen := make(map[form.FieldName]bool)
	fs.Visit(func(f *flag.Flag) { seen[form.FieldName(f.Name)] = true })
	return seen
}

func submit(ctx context.Context, svc *services.ExpenseService, id string, args []string, out io.Writer) error {
	fs := newFieldFlags("add")
	if err := fs.parse(args); err != nil {
		return err
	}
	return submitWith(ctx, svc, id, fs, out)
}

func submitWith(ctx context.Context, svc *services.ExpenseService, id string, fs *fieldFlags, out io.Writer) error {
	ed, err := svc.Editor(id)
	if err != nil {
		return err
	}
	for f := range fs.set() {
		ed.Change(f, *fs.values[f])
	}

	saved, _, err := ed.Submit(ctx)
	if err != nil {
		if msgs := ed.Form.Messages(); len(msgs) > 0 {
			return errors.New(strings.Join(msgs, "\n"))
		}
		if msg := services.UserMessage(err); msg != "" {
			return errors.New(msg)
		}
		return err
	}
	verb := "Added"
	if ed.Mode == services.ModeEdit {
		verb = "Updated"
	}
	fmt.Fprintf(out, "%s %s: %s %s %s\n", verb, saved.ID, saved.Date.Format(), saved.Amount.StringFixed(2), saved.Description)
	return nil
}

func printView(out io.Writer, v services.View) {
	fmt.Fprintf(out, "%s: %s (%d)\n", v.Period, v.Summary.FormattedTotal(), v.Summary.Count)
	if v.Empty() {
		fmt.Fprintln(out, v.Fallback)
		return
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range v.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.ID, e.Date.Format(), e.Amount.StringFixed(2), e.Description)
	}
	tw.Flush()
}
