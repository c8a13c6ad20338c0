// Copyright (c) 2026 VRON Project
// SPDX-License-Identifier: BSD-2-Clause

/*
Package vrongateway is a protocol translation gateway between a
distribution partner's XML booking dialect and the RON reservation
host's XML-RPC API.

# Overview

The gateway accepts inbound booking requests over HTTP, validates them
against the dialect's structural contract, authenticates the caller via
an API-key scheme layered over per-host authorization records, drives
the RON conversation (login, pickup lookup, reservation write), and
answers in the original dialect with a stable error taxonomy.

# Package Structure

	github.com/vronhq/vron-gateway/pkg/xmldoc       - lenient XML parsing and outbound construction
	github.com/vronhq/vron-gateway/internal/viator  - partner dialect adapter
	github.com/vronhq/vron-gateway/internal/ron     - XML-RPC client for the reservation host
	github.com/vronhq/vron-gateway/internal/gateway - request orchestration and error taxonomy
	github.com/vronhq/vron-gateway/internal/config  - YAML configuration
	github.com/vronhq/vron-gateway/internal/storage - key records and request audit trail
	github.com/vronhq/vron-gateway/internal/audit   - asynchronous request logging
	github.com/vronhq/vron-gateway/internal/server  - HTTP transport
	github.com/vronhq/vron-gateway/cmd/vron-gateway - service binary

# Error Taxonomy

Recoverable failures always resolve to a well-formed response document:

  - VRONERR001: malformed or missing booking fields (all blanks enumerated)
  - VRONERR002: invalid API key or unknown host identity
  - VRONERR003: RON rejected the reseller login

Downstream application faults are passed through with the host's own
message text. Transport failures toward the host are a distinct error
kind surfaced to the transport layer, never mapped into the taxonomy.

# License

BSD-2-Clause License
*/
package vrongateway
