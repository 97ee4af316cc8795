// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads camellia's startup configuration: which KV backend
// to use and where its data lives. It uses the same TOML encoding
// (github.com/BurntSushi/toml) as sql.MarshalSchema/UnmarshalSchema, so a
// deployment has exactly one serialization format for every file it reads
// or writes, not one for config and another for schema persistence.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/camellia-db/camellia/sql"
)

// Backend selects a kv.KV implementation.
type Backend string

const (
	// BackendMemory is the in-memory kv/kvmemory store: no persistence,
	// used for embedding and tests.
	BackendMemory Backend = "memory"
	// BackendBolt is the kv/boltkv store: a single data file on disk.
	BackendBolt Backend = "bolt"
)

// Config is camellia's on-disk, TOML-encoded startup configuration.
type Config struct {
	// Backend selects the KV implementation. Defaults to BackendMemory
	// if empty.
	Backend Backend `toml:"backend"`
	// DataPath is the bolt data file path. Required when Backend is
	// BackendBolt, ignored otherwise.
	DataPath string `toml:"data_path"`
}

// Load reads and decodes a Config from path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, sql.ErrStorageError.New(err.Error())
	}
	return Parse(data)
}

// Parse decodes a Config from raw TOML bytes and validates it.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, sql.ErrStorageError.New(err.Error())
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether cfg is internally consistent.
func (cfg Config) Validate() error {
	switch cfg.Backend {
	case BackendMemory:
		return nil
	case BackendBolt:
		if cfg.DataPath == "" {
			return sql.ErrSchemaError.New("bolt backend requires data_path")
		}
		return nil
	default:
		return sql.ErrSchemaError.New(fmt.Sprintf("unrecognized backend %q", cfg.Backend))
	}
}
