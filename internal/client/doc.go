// SPDX-License-Identifier: Apache-2.0

// Package client implements the client application runtime.
//
// It supplies the host-side collaborators the sync core needs (auth token,
// connectivity probe, entitlement gate), wires them together with the
// storage, gateway and service layers, and runs the background workers for
// the duration of the process.
package client
