package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tasktracker/internal/client/models"
)

// resolveTask maps a listing position or a raw id to a task id.
func (a *App) resolveTask(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: " + usage)
	}
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 || n > len(a.lastListing) {
			return "", fmt.Errorf("no task #%d in the last listing", n)
		}
		return a.lastListing[n-1].ID, nil
	}
	return args[0], nil
}

func formatTask(n int, t *models.Task) string {
	mark := " "
	if t.Done() {
		mark = "x"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d. [%s] %s", n, mark, t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, " - %s", t.Description)
	}
	fmt.Fprintf(&b, " (%s)", t.ID)
	return b.String()
}

func (a *App) List(ctx context.Context) error {
	list, err := a.taskService.List(ctx)
	if err != nil {
		return err
	}
	a.lastListing = list

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}
	for i, t := range list {
		fmt.Fprintln(a.out, formatTask(i+1, t))
	}
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	t, err := a.taskService.Create(ctx, title, description)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q (%s)\n", t.Title, t.ID)
	return nil
}

// Edit prompts for a new title and description; empty answers keep the
// current values.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.resolveTask(args, "edit <n>")
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "New title (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "New description (empty keeps current)", a.out)
	if err != nil {
		return err
	}

	var patch models.TaskPatch
	if title != "" {
		patch.Title = &title
	}
	if description != "" {
		patch.Description = &description
	}
	if patch.Title == nil && patch.Description == nil {
		fmt.Fprintln(a.out, "Nothing to change")
		return nil
	}

	t, err := a.taskService.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Updated %q\n", t.Title)
	return nil
}

func (a *App) SetDone(ctx context.Context, args []string, done bool) error {
	usage := "undo <n>"
	if done {
		usage = "done <n>"
	}
	id, err := a.resolveTask(args, usage)
	if err != nil {
		return err
	}

	t, err := a.taskService.SetDone(ctx, id, done)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%q is now %s\n", t.Title, t.Status)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.resolveTask(args, "delete <n>")
	if err != nil {
		return err
	}
	if err := a.taskService.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Deleted", id)
	return nil
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: attach <n> <file>")
	}
	id, err := a.resolveTask(args, "attach <n> <file>")
	if err != nil {
		return err
	}
	if err := a.taskService.Attach(ctx, id, args[1]); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Attached", args[1])
	return nil
}

func (a *App) Fetch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: fetch <n> <file>")
	}
	id, err := a.resolveTask(args, "fetch <n> <file>")
	if err != nil {
		return err
	}
	n, err := a.taskService.Fetch(ctx, id, args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Saved %d bytes to %s\n", n, args[1])
	return nil
}
