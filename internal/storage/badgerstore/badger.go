// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package badgerstore implements the storage contract on BadgerDB v4.
//
// Records are stored as JSON documents, one key per record:
//
//	product:<id>        product document
//	product_code:<CODE> code uniqueness index, value is the product id
//	cart:<id>           cart document
//
// IDs are zero-padded in keys so lexicographic iteration matches numeric
// order. Single-key reads and writes are atomic within a Badger
// transaction; cross-record invariants are the managers' concern.
package badgerstore

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for BadgerDB storage.
const (
	productKeyPrefix = "product:"
	codeKeyPrefix    = "product_code:"
	cartKeyPrefix    = "cart:"
)

// Open opens (or creates) the Badger database at path with logging routed
// away from Badger's default logger. The returned DB is shared by the
// product and cart stores and must be closed by the caller on shutdown.
func Open(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return db, nil
}

func productKey(id int64) []byte {
	return fmt.Appendf(nil, "%s%020d", productKeyPrefix, id)
}

func codeKey(code string) []byte {
	return []byte(codeKeyPrefix + code)
}

func cartKey(id int64) []byte {
	return fmt.Appendf(nil, "%s%020d", cartKeyPrefix, id)
}
