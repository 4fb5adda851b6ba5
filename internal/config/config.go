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

// Package config loads the small set of operator-tunable knobs this
// runtime exposes: the budget/cap constants spec §6.3 fixes defaults
// for. Following erigon's ethconfig pattern, this is a plain struct with
// sane zero-value-safe defaults, decodable from a TOML file.
package config

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"
	"github.com/pelletier/go-toml/v2"

	"github.com/erigontech/graphd/internal/linksto"
)

// Budgets mirrors spec §6.3's constants as operator-overridable knobs.
// The magnitude fields are datasize.ByteSize even though these are cost
// units, not bytes (the count fields stay int64): the parsing convenience (accepting "100KB"-style human input)
// is reused here purely for its human-readable-magnitude parsing, not
// because these are byte counts.
type Budgets struct {
	NSamples                int64             `toml:"n_samples"`
	EmptyMax                datasize.ByteSize `toml:"empty_max"`
	PreevaluateN             int64             `toml:"preevaluate_n"`
	PreevaluateIDN           int64             `toml:"preevaluate_id_n"`
	PreevaluateBudget        datasize.ByteSize `toml:"preevaluate_budget"`
	IntersectEstimateBudget  datasize.ByteSize `toml:"intersect_estimate_budget"`
	FaninFixedMax            int64             `toml:"fanin_fixed_max"`
	StatBudgetMaxInitial     datasize.ByteSize `toml:"stat_budget_max_initial"`
}

// Config is the top-level, decoded configuration.
type Config struct {
	Budgets Budgets `toml:"budgets"`

	// StoreCacheSize bounds the in-memory store's primitive read cache
	// (internal/pdb.NewMemStore).
	StoreCacheSize int `toml:"store_cache_size"`

	// DebugLogPath names a file for the process-scoped debug log (spec
	// §9); internal/logging.Debugf takes that path as an argument, and
	// cmd/graphd does not read this field.
	DebugLogPath string `toml:"debug_log_path"`
}

// Default returns a Config matching spec §6.3's constants verbatim.
func Default() Config {
	return Config{
		Budgets: Budgets{
			NSamples:                linksto.NSamples,
			EmptyMax:                datasize.ByteSize(linksto.EmptyMax),
			PreevaluateN:             linksto.PreevaluateN,
			PreevaluateIDN:           linksto.PreevaluateIDN,
			PreevaluateBudget:        datasize.ByteSize(linksto.PreevaluateBudget),
			IntersectEstimateBudget:  datasize.ByteSize(linksto.IntersectEstimateBudget),
			FaninFixedMax:            linksto.FaninFixedMax,
			StatBudgetMaxInitial:     datasize.ByteSize(linksto.StatBudgetMaxInitial),
		},
		StoreCacheSize: 4096,
	}
}

// Load decodes a TOML config file at path, applying it on top of
// Default() so a config file only needs to name the fields it
// overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}
