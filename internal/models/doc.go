// MsgVault - Message Record Management REST API
// Copyright 2026 MsgVault Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/msgvault/msgvault

/*
Package models defines the data structures shared across MsgVault.

It holds the API request and response payloads, the response envelope,
the user and message records, and the role constants. Validation rules
are declared as struct tags and enforced by the validation package.
*/
package models
