// Copyright (c) 2026 VRON Project
// SPDX-License-Identifier: BSD-2-Clause

// Package xmldoc wraps XML parsing and construction for the gateway.
//
// Inbound documents are parsed leniently: a malformed payload never
// produces an error value, it produces a Document whose Valid method
// reports false and whose ErrorMessage carries the parser's text. This
// lets the orchestrator answer every request with a well-formed error
// document instead of failing the transport.
//
// Field accessors tolerate absent nodes by returning the empty string,
// so validation can enumerate every missing field in a single pass.
package xmldoc
