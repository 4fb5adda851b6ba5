// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Command graphd is a small demo/debug CLI that builds an in-memory
// graph, constructs a linksto iterator over it, drains it to completion
// and prints its freeze string. It exists so the iterator core can be
// poked at end to end without a caller-supplied test harness -- the
// session/connection layer a real deployment would drive this through
// is explicitly out of scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erigontech/graphd/internal/baseiter"
	"github.com/erigontech/graphd/internal/config"
	"github.com/erigontech/graphd/internal/iterctx"
	"github.com/erigontech/graphd/internal/linksto"
	"github.com/erigontech/graphd/internal/logging"
	"github.com/erigontech/graphd/internal/pdb"
)

func main() {
	root := &cobra.Command{
		Use:   "graphd",
		Short: "linksto iterator demo/debug tool",
	}
	root.AddCommand(demoCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func demoCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "build a small in-memory graph and drain a linksto iterator over it",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return runDemo(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "path to a TOML config file (optional)")
	return cmd
}

// runDemo builds scenario S1 from the runtime's testable-properties
// catalogue: sub = {10, 20, 30}; fanin(10) = {100, 101}; fanin(20) = {};
// fanin(30) = {102}.
func runDemo(cfg config.Config) error {
	store := pdb.NewMemStore(cfg.StoreCacheSize)
	ms := store.(interface{ Put(pdb.Primitive) })

	endpoints := []pdb.ID{10, 20, 30}
	fanins := map[pdb.ID][]pdb.ID{10: {100, 101}, 20: {}, 30: {102}}

	guidOf := map[pdb.ID]pdb.GUID{}
	for _, id := range endpoints {
		g := pdb.NewGUID()
		guidOf[id] = g
		p := pdb.NewPrimitive(id, g)
		ms.Put(p)
	}
	nextID := pdb.ID(100)
	for _, target := range endpoints {
		for range fanins[target] {
			g := pdb.NewGUID()
			p := pdb.NewPrimitive(nextID, g)
			p.SetLinkage(pdb.Left, guidOf[target])
			ms.Put(p)
			nextID++
		}
	}

	sub := baseiter.NewFixed(endpoints, pdb.NoID, pdb.NoID, iterctx.Forward)
	lto := linksto.New(linksto.Params{
		Store:   store,
		Linkage: pdb.Left,
		Low:     pdb.NoID,
		High:    pdb.NoID,
		Dir:     iterctx.Forward,
		Sub:     sub,
	})
	defer lto.Finish()

	b := iterctx.NewBudget(iterctx.Unlimited)
	var results []pdb.ID
	for {
		id, err := lto.Next(b)
		if err == iterctx.ErrNo {
			break
		}
		if err == iterctx.ErrMore {
			continue
		}
		if err != nil {
			return err
		}
		results = append(results, id)
	}

	logging.Info("demo enumeration complete", "n", len(results), "stats", lto.Stats())
	fmt.Printf("results: %v\n", results)

	frozen, err := lto.Freeze(iterctx.FreezeSet)
	if err != nil {
		return err
	}
	fmt.Printf("freeze(set): %s\n", frozen)
	return nil
}
