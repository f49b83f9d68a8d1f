// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package middleware provides the HTTP middleware chain of the sample server.

Routes are defined in the router package, which wraps every fallible handler
with [CatchError].
*/
package middleware
