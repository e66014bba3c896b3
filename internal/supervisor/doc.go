// Ecomd - Products and Carts Storefront Service
// Copyright 2026 Ecomd Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/ecomd/ecomd

// Package supervisor builds the suture service tree that runs ecomd.
//
// The root supervisor owns two children: the push layer (websocket hub
// and product notifier) and the API layer (HTTP server). Services are
// restarted on failure with decaying backoff; supervisor events are
// logged through sutureslog.
package supervisor
