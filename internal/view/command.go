// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of kosatka

package view

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/im-n1/kosatka/internal/config"
	"github.com/im-n1/kosatka/internal/dao"
	"github.com/im-n1/kosatka/internal/model"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var builtinCommands = []string{"help", "namespace", "ns", "q", "quit", "region"}

type namespaceLister interface {
	Namespaces(ctx context.Context) ([]string, error)
}

// Command interprets command bar input.
type Command struct {
	app     *App
	aliases *config.Aliases
}

// NewCommand creates a new command interpreter.
func NewCommand(app *App, aliases *config.Aliases) *Command {
	return &Command{app: app, aliases: aliases}
}

// Names returns every command, alias and resource ID, sorted.
func (c *Command) Names() []string {
	nn := append(c.aliases.Keys(), builtinCommands...)
	for _, rid := range dao.Registered() {
		nn = append(nn, rid.String())
	}
	sort.Strings(nn)
	return nn
}

// Resolve maps a command name to a resource ID, falling back to the
// closest fuzzy match among the aliases.
func (c *Command) Resolve(name string) (string, bool) {
	name = strings.ToLower(name)
	if rid, ok := c.aliases.Get(name); ok {
		return rid, true
	}
	if strings.Contains(name, "/") {
		var rid dao.ResourceID
		if err := rid.Parse(name); err == nil {
			return rid.String(), true
		}
	}

	ranks := fuzzy.RankFindFold(name, c.aliases.Keys())
	if len(ranks) == 0 {
		return "", false
	}
	sort.Sort(ranks)

	return c.aliases.Get(ranks[0].Target)
}

// Run parses and executes a command. An empty command loads the
// configured backend.
func (c *Command) Run(cmd string) error {
	cmd = strings.TrimSpace(strings.TrimPrefix(cmd, ":"))
	if cmd == "" {
		return c.defaultCmd()
	}
	ff := strings.Fields(cmd)
	name, args := strings.ToLower(ff[0]), ff[1:]

	switch name {
	case "q", "q!", "quit":
		c.app.Stop()
		return nil
	case "help", "?":
		return c.app.PushView(NewHelp(c.app))
	case "ns", "namespace":
		if len(args) == 0 {
			return c.listNamespaces()
		}
		return c.namespaceCmd(args[0])
	case "region":
		if len(args) == 0 {
			return fmt.Errorf("region command requires a region name")
		}
		return c.regionCmd(args[0])
	}

	rid, ok := c.Resolve(name)
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	return c.resourceCmd(rid)
}

func (c *Command) defaultCmd() error {
	rid := dao.ImageRID
	if cfg := c.app.Config(); cfg != nil {
		switch cfg.Kosatka.ActiveBackend() {
		case config.BackendDocker:
			rid = dao.DockerImageRID
		case config.BackendAMI:
			rid = dao.AMIRID
		}
	}
	return c.resourceCmd(rid.String())
}

func (c *Command) resourceCmd(s string) error {
	var rid dao.ResourceID
	if err := rid.Parse(s); err != nil {
		return err
	}
	acc, err := dao.AccessorFor(c.app.Factory(), &rid)
	if err != nil {
		return err
	}
	for c.app.PopView() {
	}

	slog.Info("Switching resource", "rid", rid.String())
	return c.app.Images().SetResource(&rid, acc)
}

func (c *Command) namespaceCmd(ns string) error {
	f := c.app.Factory()
	if f == nil {
		return fmt.Errorf("no backend factory")
	}
	f.SetNamespace(ns)
	c.app.Flash().Infof("Switched to namespace %s", ns)

	return c.reload()
}

func (c *Command) listNamespaces() error {
	l, ok := c.app.Factory().(namespaceLister)
	if !ok {
		return fmt.Errorf("namespaces are not supported by this backend")
	}
	nn, err := model.Run(c.app.bridge, l.Namespaces)
	if err != nil {
		return err
	}
	c.app.Flash().Infof("Namespaces: %s", strings.Join(nn, ", "))

	return nil
}

func (c *Command) regionCmd(region string) error {
	f := c.app.Factory()
	if f == nil {
		return fmt.Errorf("no backend factory")
	}
	if err := f.SetRegion(region); err != nil {
		return err
	}
	c.app.Flash().Infof("Switched to region %s", region)

	return c.reload()
}

func (c *Command) reload() error {
	v := c.app.Images()
	v.UpdateContext()
	v.Start()

	return nil
}
